package models

import "time"

type AttemptClass string

const (
	// AttemptComplete has at least question_limit distinct answers.
	AttemptComplete AttemptClass = "complete"
	// AttemptPartialRetained fell short of the limit but reached the
	// retention threshold and is still fair to score.
	AttemptPartialRetained AttemptClass = "partial_retained"
	// AttemptDiscardable is too fragmentary to score.
	AttemptDiscardable AttemptClass = "discardable"
)

// Attempt is a derived view over a cluster of AnswerEvents sharing a
// (learner, level, topic). It is reconstructed on demand from the event
// log and never persisted as its own row.
type Attempt struct {
	LearnerID string `json:"learner_id"`
	LevelID   uint   `json:"level_id"`
	TopicID   uint   `json:"topic_id"`

	// GroupID is the canonical attempt_group_id of the cluster (the id of
	// the earliest fragment). MergedGroupIDs lists every fragment id that
	// was folded in, GroupID included.
	GroupID        string   `json:"group_id"`
	MergedGroupIDs []string `json:"merged_group_ids"`

	Events []AnswerEvent `json:"-"`

	// AnswerCount counts distinct question ids across the cluster;
	// duplicate answers to the same question never inflate it.
	AnswerCount  int `json:"answer_count"`
	CorrectCount int `json:"correct_count"`

	// ElapsedSeconds: for a single fragment, the client-reported value on
	// its first event; for a merged cluster, last minus first event
	// timestamp (fragments under-report their own elapsed time).
	ElapsedSeconds int `json:"elapsed_seconds"`

	FirstEventAt time.Time `json:"first_event_at"`
	LastEventAt  time.Time `json:"last_event_at"`

	Class AttemptClass `json:"class"`
}

// Countable reports whether the attempt may produce a ScoreRecord.
func (a *Attempt) Countable() bool {
	return a.Class == AttemptComplete || a.Class == AttemptPartialRetained
}

// Accuracy is the fraction of distinct questions answered correctly.
func (a *Attempt) Accuracy() float64 {
	if a.AnswerCount == 0 {
		return 0
	}
	return float64(a.CorrectCount) / float64(a.AnswerCount)
}
