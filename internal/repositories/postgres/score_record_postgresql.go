package postgres

import (
	"context"
	"errors"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/models"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScoreRecordPostgreSQL struct {
	db *gorm.DB
}

func NewScoreRecordPostgreSQL(db *gorm.DB) repositories.ScoreRecordRepository {
	return &ScoreRecordPostgreSQL{db: db}
}

// Create upserts on the (learner, level, topic, attempt_group_id) unique
// index, so re-scoring an attempt on a later recompute pass replaces its
// row instead of appending history.
func (s ScoreRecordPostgreSQL) Create(ctx context.Context, record *models.ScoreRecord) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "learner_id"}, {Name: "level_id"},
				{Name: "topic_id"}, {Name: "attempt_group_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"points", "correct_count", "answer_count",
				"elapsed_seconds", "created_at",
			}),
		}).
		Create(record).Error
}

func (s ScoreRecordPostgreSQL) GetByLearner(ctx context.Context, learnerID string, levelID, topicID uint) ([]*models.ScoreRecord, error) {
	var records []*models.ScoreRecord
	if err := s.db.WithContext(ctx).
		Where("learner_id = ? AND level_id = ? AND topic_id = ?", learnerID, levelID, topicID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (s ScoreRecordPostgreSQL) MaxRecordExcludingGroup(ctx context.Context, learnerID string, levelID, topicID uint, groupID string) (*models.ScoreRecord, error) {
	var record models.ScoreRecord
	if err := s.db.WithContext(ctx).
		Where("learner_id = ? AND level_id = ? AND topic_id = ? AND attempt_group_id <> ?",
			learnerID, levelID, topicID, groupID).
		Order("points DESC").
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &record, nil
}
