package models

import (
	"time"

	"gorm.io/gorm"
)

type LevelKind string

const (
	// LevelStandard draws questions from the static bank and is scored on
	// the full points-per-minute scale.
	LevelStandard LevelKind = "standard"
	// LevelBasicFacts is an arithmetic-drill level: questions are generated
	// parametrically and points are graded on a compressed scale.
	LevelBasicFacts LevelKind = "basic_facts"
)

type Level struct {
	ID   uint      `json:"id" gorm:"primaryKey"`
	Name string    `json:"name" gorm:"not null;size:100;index" validate:"required,min=1,max=100"`
	Kind LevelKind `json:"kind" gorm:"default:standard;size:20" validate:"omitempty,oneof=standard basic_facts"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Level) TableName() string {
	return "levels"
}

func (l *Level) IsDrill() bool {
	return l.Kind == LevelBasicFacts
}

type Topic struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;size:100;index" validate:"required,min=1,max=100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Topic) TableName() string {
	return "topics"
}

// Question is a static-bank question row. Drill levels bypass the bank
// entirely; their questions are generated on demand.
type Question struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	LevelID uint   `json:"level_id" gorm:"not null;index:idx_questions_pair"`
	TopicID uint   `json:"topic_id" gorm:"not null;index:idx_questions_pair"`
	Text    string `json:"text" gorm:"type:text;not null"`
	Answer  string `json:"answer" gorm:"type:text;not null"`

	// PointValue feeds the flat-credit scoring fallback; typically 1.
	PointValue int `json:"point_value" gorm:"default:1"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// LevelQuestionLimit is the lookup table of per-level standard question
// counts that drives question_limit.
type LevelQuestionLimit struct {
	LevelID       uint `json:"level_id" gorm:"primaryKey"`
	QuestionLimit int  `json:"question_limit" gorm:"not null"`
}

func (LevelQuestionLimit) TableName() string {
	return "level_question_limits"
}
