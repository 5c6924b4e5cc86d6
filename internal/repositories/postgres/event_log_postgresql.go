package postgres

import (
	"context"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/models"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/repositories"
	"gorm.io/gorm"
)

type EventLogPostgreSQL struct {
	db *gorm.DB
}

func NewEventLogPostgreSQL(db *gorm.DB) repositories.EventLogRepository {
	return &EventLogPostgreSQL{db: db}
}

func (e EventLogPostgreSQL) Append(ctx context.Context, event *models.AnswerEvent) error {
	return e.db.WithContext(ctx).Create(event).Error
}

func (e EventLogPostgreSQL) EventsFor(ctx context.Context, learnerID string, levelID, topicID uint) ([]*models.AnswerEvent, error) {
	var events []*models.AnswerEvent
	if err := e.db.WithContext(ctx).
		Where("learner_id = ? AND level_id = ? AND topic_id = ?", learnerID, levelID, topicID).
		Order("created_at ASC, id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (e EventLogPostgreSQL) RewriteGroupID(ctx context.Context, eventIDs []uint, groupID string) error {
	if len(eventIDs) == 0 {
		return nil
	}
	return e.db.WithContext(ctx).
		Model(&models.AnswerEvent{}).
		Where("id IN ?", eventIDs).
		Update("attempt_group_id", groupID).Error
}

func (e EventLogPostgreSQL) LearnersFor(ctx context.Context, levelID, topicID uint) ([]string, error) {
	var learners []string
	if err := e.db.WithContext(ctx).
		Model(&models.AnswerEvent{}).
		Where("level_id = ? AND topic_id = ?", levelID, topicID).
		Distinct("learner_id").
		Pluck("learner_id", &learners).Error; err != nil {
		return nil, err
	}

	return learners, nil
}

func (e EventLogPostgreSQL) ActivePairs(ctx context.Context) ([]repositories.LevelTopic, error) {
	var pairs []repositories.LevelTopic
	if err := e.db.WithContext(ctx).
		Model(&models.AnswerEvent{}).
		Distinct("level_id", "topic_id").
		Order("level_id, topic_id").
		Find(&pairs).Error; err != nil {
		return nil, err
	}

	return pairs, nil
}
