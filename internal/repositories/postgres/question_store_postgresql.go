package postgres

import (
	"context"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/models"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/repositories"
	"gorm.io/gorm"
)

type QuestionStorePostgreSQL struct {
	db *gorm.DB
}

func NewQuestionStorePostgreSQL(db *gorm.DB) repositories.QuestionStoreRepository {
	return &QuestionStorePostgreSQL{db: db}
}

func (q QuestionStorePostgreSQL) QuestionCount(ctx context.Context, levelID, topicID uint) (int, error) {
	var count int64
	if err := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("level_id = ? AND topic_id = ?", levelID, topicID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return int(count), nil
}

// StandardLimit reads the per-level configured question count. Levels
// without a row report zero; callers substitute the global default.
func (q QuestionStorePostgreSQL) StandardLimit(ctx context.Context, levelID uint) (int, error) {
	var limit models.LevelQuestionLimit
	if err := q.db.WithContext(ctx).
		Where("level_id = ?", levelID).
		First(&limit).Error; err != nil {
		if repositories.IsNotFoundError(err) {
			return 0, nil
		}
		return 0, err
	}

	return limit.QuestionLimit, nil
}

func (q QuestionStorePostgreSQL) GetLevel(ctx context.Context, levelID uint) (*models.Level, error) {
	var level models.Level
	if err := q.db.WithContext(ctx).First(&level, levelID).Error; err != nil {
		return nil, err
	}

	return &level, nil
}

func (q QuestionStorePostgreSQL) PointValues(ctx context.Context, questionIDs []uint) (map[uint]int, error) {
	values := make(map[uint]int, len(questionIDs))
	if len(questionIDs) == 0 {
		return values, nil
	}

	var questions []models.Question
	if err := q.db.WithContext(ctx).
		Select("id", "point_value").
		Where("id IN ?", questionIDs).
		Find(&questions).Error; err != nil {
		return nil, err
	}

	for _, question := range questions {
		values[question.ID] = question.PointValue
	}

	return values, nil
}
