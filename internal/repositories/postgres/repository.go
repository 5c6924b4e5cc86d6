package postgres

import (
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/repositories"
	"gorm.io/gorm"
)

type Repository struct {
	eventLog      repositories.EventLogRepository
	questionStore repositories.QuestionStoreRepository
	scores        repositories.ScoreRecordRepository
	bestRecords   repositories.BestRecordRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &Repository{
		eventLog:      NewEventLogPostgreSQL(db),
		questionStore: NewQuestionStorePostgreSQL(db),
		scores:        NewScoreRecordPostgreSQL(db),
		bestRecords:   NewBestRecordPostgreSQL(db),
	}
}

func (r *Repository) EventLog() repositories.EventLogRepository {
	return r.eventLog
}

func (r *Repository) QuestionStore() repositories.QuestionStoreRepository {
	return r.questionStore
}

func (r *Repository) Scores() repositories.ScoreRecordRepository {
	return r.scores
}

func (r *Repository) BestRecords() repositories.BestRecordRepository {
	return r.bestRecords
}
