package postgres

import (
	"context"
	"errors"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/models"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BestRecordPostgreSQL struct {
	db *gorm.DB
}

func NewBestRecordPostgreSQL(db *gorm.DB) repositories.BestRecordRepository {
	return &BestRecordPostgreSQL{db: db}
}

func (b BestRecordPostgreSQL) Get(ctx context.Context, learnerID string, levelID, topicID uint) (*models.BestRecord, error) {
	var record models.BestRecord
	if err := b.db.WithContext(ctx).
		Where("learner_id = ? AND level_id = ? AND topic_id = ?", learnerID, levelID, topicID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &record, nil
}

// Save upserts on the (learner, level, topic) unique index so a beaten
// record is replaced in place.
func (b BestRecordPostgreSQL) Save(ctx context.Context, record *models.BestRecord) error {
	return b.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "learner_id"}, {Name: "level_id"}, {Name: "topic_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"attempt_group_id", "points", "correct_count", "answer_count",
				"elapsed_seconds", "achieved_at", "updated_at",
			}),
		}).
		Create(record).Error
}

func (b BestRecordPostgreSQL) PointsFor(ctx context.Context, levelID, topicID uint) ([]float64, error) {
	var points []float64
	if err := b.db.WithContext(ctx).
		Model(&models.BestRecord{}).
		Where("level_id = ? AND topic_id = ?", levelID, topicID).
		Pluck("points", &points).Error; err != nil {
		return nil, err
	}

	return points, nil
}

func (b BestRecordPostgreSQL) List(ctx context.Context, filters repositories.BestRecordFilters) ([]*models.BestRecord, int64, error) {
	var records []*models.BestRecord
	var total int64

	query := b.db.WithContext(ctx).Model(&models.BestRecord{})
	query = b.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = b.applyPaginationAndSort(query, filters)

	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (b BestRecordPostgreSQL) TopicsForLevel(ctx context.Context, levelID uint) ([]uint, error) {
	var topics []uint
	if err := b.db.WithContext(ctx).
		Model(&models.BestRecord{}).
		Where("level_id = ?", levelID).
		Distinct("topic_id").
		Order("topic_id").
		Pluck("topic_id", &topics).Error; err != nil {
		return nil, err
	}

	return topics, nil
}

func (b BestRecordPostgreSQL) applyFilters(query *gorm.DB, filters repositories.BestRecordFilters) *gorm.DB {
	if filters.LevelID != nil {
		query = query.Where("level_id = ?", *filters.LevelID)
	}
	if filters.TopicID != nil {
		query = query.Where("topic_id = ?", *filters.TopicID)
	}
	if filters.LearnerID != "" {
		query = query.Where("learner_id = ?", filters.LearnerID)
	}
	return query
}

func (b BestRecordPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.BestRecordFilters) *gorm.DB {
	sortBy := filters.SortBy
	if sortBy != "points" && sortBy != "achieved_at" {
		sortBy = "points"
	}
	sortOrder := filters.SortOrder
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}
	query = query.Order(sortBy + " " + sortOrder)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
