package models

import "time"

// ScoreRecord is the outcome of scoring one countable Attempt. There is
// exactly one row per (learner, level, topic, attempt_group_id);
// re-scoring the same attempt replaces the row.
type ScoreRecord struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	LearnerID      string    `json:"learner_id" gorm:"not null;size:255;index:idx_scores_triple;uniqueIndex:idx_scores_attempt" validate:"required"`
	LevelID        uint      `json:"level_id" gorm:"not null;index:idx_scores_triple;uniqueIndex:idx_scores_attempt" validate:"required"`
	TopicID        uint      `json:"topic_id" gorm:"not null;index:idx_scores_triple;uniqueIndex:idx_scores_attempt" validate:"required"`
	AttemptGroupID string    `json:"attempt_group_id" gorm:"not null;size:64;uniqueIndex:idx_scores_attempt"`
	Points         float64   `json:"points" gorm:"not null" validate:"gte=0"`
	CorrectCount   int       `json:"correct_count"`
	AnswerCount    int       `json:"answer_count"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	CreatedAt      time.Time `json:"created_at"`
}

func (ScoreRecord) TableName() string {
	return "score_records"
}

// BestRecord holds, per (learner, level, topic), the highest-scoring
// countable attempt on record. Replaced only on strictly greater points;
// ties never beat the record.
type BestRecord struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	LearnerID      string    `json:"learner_id" gorm:"not null;size:255;uniqueIndex:idx_best_triple"`
	LevelID        uint      `json:"level_id" gorm:"not null;uniqueIndex:idx_best_triple"`
	TopicID        uint      `json:"topic_id" gorm:"not null;uniqueIndex:idx_best_triple"`
	AttemptGroupID string    `json:"attempt_group_id" gorm:"size:64"`
	Points         float64   `json:"points" gorm:"not null"`
	CorrectCount   int       `json:"correct_count"`
	AnswerCount    int       `json:"answer_count"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	AchievedAt     time.Time `json:"achieved_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (BestRecord) TableName() string {
	return "best_records"
}
