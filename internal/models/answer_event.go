package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnswerEvent is one recorded answer to one question by one learner.
// Events are append-only: corrections arrive as new events, never as
// updates. The only permitted mutation is rewriting AttemptGroupID when
// a repair pass merges fragments of a split attempt.
type AnswerEvent struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	LearnerID  string `json:"learner_id" gorm:"not null;size:255;index:idx_events_triple" validate:"required"`
	QuestionID uint   `json:"question_id" gorm:"not null" validate:"required"`
	LevelID    uint   `json:"level_id" gorm:"not null;index:idx_events_triple" validate:"required"`
	TopicID    uint   `json:"topic_id" gorm:"not null;index:idx_events_triple" validate:"required"`
	IsCorrect  bool   `json:"is_correct"`

	// AttemptGroupID is an opaque grouping token assigned by the quiz UI.
	// May be empty when the client failed to attach one.
	AttemptGroupID string `json:"attempt_group_id" gorm:"size:64;index"`

	// ElapsedSeconds is the whole-attempt elapsed time the client reported
	// on the first event of the group; 0 when unknown.
	ElapsedSeconds int `json:"elapsed_seconds"`

	// Answer holds the tagged answer payload (choice vs short answer).
	Answer datatypes.JSON `json:"answer" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (AnswerEvent) TableName() string {
	return "answer_events"
}

// Malformed reports whether the event is missing a required reference and
// must be dropped (with a warning) rather than fail a reconstruction pass.
func (e *AnswerEvent) Malformed() bool {
	return e.LearnerID == "" || e.QuestionID == 0 || e.LevelID == 0 || e.TopicID == 0
}
