package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

type EventType string

const (
	// EventRecordBeaten fires when a learner's submitted score strictly
	// beats their previous best for a (level, topic).
	EventRecordBeaten EventType = "performance.record_beaten"
	// EventStatisticsRecomputed fires after a (level, topic) cohort's
	// statistics were recomputed from best records.
	EventStatisticsRecomputed EventType = "performance.statistics_recomputed"
)

// PerformanceEvent is the envelope published to the performance topic.
type PerformanceEvent struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

type RecordBeatenEvent struct {
	LearnerID      string    `json:"learner_id"`
	LevelID        uint      `json:"level_id"`
	TopicID        uint      `json:"topic_id"`
	AttemptGroupID string    `json:"attempt_group_id"`
	Points         float64   `json:"points"`
	PreviousPoints *float64  `json:"previous_points,omitempty"`
	AchievedAt     time.Time `json:"achieved_at"`
}

type StatisticsRecomputedEvent struct {
	LevelID          uint    `json:"level_id"`
	TopicID          uint    `json:"topic_id"`
	Mean             float64 `json:"mean"`
	Sigma            float64 `json:"sigma"`
	SampleCount      int     `json:"sample_count"`
	InsufficientData bool    `json:"insufficient_data"`
}

// NewPerformanceEvent wraps a payload in the standard envelope.
func NewPerformanceEvent(eventType EventType, data interface{}) *PerformanceEvent {
	return &PerformanceEvent{
		ID:        watermill.NewUUID(),
		Type:      eventType,
		Source:    "scoring-engine",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}
