package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/cache"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/events"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/models"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/repositories"
)

// SubmitResult is the outcome of submitting one scored attempt against
// the learner's standing best.
type SubmitResult struct {
	Record *models.ScoreRecord `json:"record"`
	// IsNewBest is true on a strictly greater score and on the first
	// record ever for the triple.
	IsNewBest bool `json:"is_new_best"`
	// PreviousBestPoints is nil on a first attempt, so callers can tell
	// "first ever" apart from "tied or did not beat".
	PreviousBestPoints *float64 `json:"previous_best_points"`
	// BestPoints is the standing best after the submission.
	BestPoints float64 `json:"best_points"`
}

// RecordService maintains BestRecord rows per (learner, level, topic).
type RecordService interface {
	Submit(ctx context.Context, record *models.ScoreRecord) (*SubmitResult, error)
	GetBest(ctx context.Context, learnerID string, levelID, topicID uint) (*models.BestRecord, error)
	ListBest(ctx context.Context, filters repositories.BestRecordFilters) ([]*models.BestRecord, int64, error)
}

type recordService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger

	// locks serializes submissions per (learner, level, topic) so two
	// concurrent submissions cannot both read a stale best and race the
	// upsert.
	locks sync.Map
}

func NewRecordService(repo repositories.Repository, cacheService cache.CacheService, publisher events.EventPublisher, logger *slog.Logger) RecordService {
	return &recordService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *recordService) tripleLock(learnerID string, levelID, topicID uint) *sync.Mutex {
	key := fmt.Sprintf("%s:%d:%d", learnerID, levelID, topicID)
	mu, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *recordService) Submit(ctx context.Context, record *models.ScoreRecord) (*SubmitResult, error) {
	mu := s.tripleLock(record.LearnerID, record.LevelID, record.TopicID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.repo.Scores().Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist score record: %w", err)
	}

	best, err := s.repo.BestRecords().Get(ctx, record.LearnerID, record.LevelID, record.TopicID)
	if err != nil {
		return nil, fmt.Errorf("failed to get best record: %w", err)
	}

	result := &SubmitResult{Record: record}

	if best == nil {
		// A best row may be missing even though older scores exist, for
		// example after a backfill. The previous best is then the highest
		// of the learner's other score records, never the submitted group
		// compared against itself.
		previous, err := s.repo.Scores().MaxRecordExcludingGroup(ctx,
			record.LearnerID, record.LevelID, record.TopicID, record.AttemptGroupID)
		if err != nil {
			return nil, fmt.Errorf("failed to get previous best record: %w", err)
		}
		var previousPoints *float64
		if previous != nil {
			points := previous.Points
			previousPoints = &points
		}
		result.PreviousBestPoints = previousPoints
		if previous != nil && previous.Points >= record.Points {
			// The older attempt keeps the record; the seeded best row must
			// identify that attempt, not the losing submission.
			result.IsNewBest = false
			result.BestPoints = previous.Points
			if err := s.saveBest(ctx, previous); err != nil {
				return nil, err
			}
			return result, nil
		}
		result.IsNewBest = true
		result.BestPoints = record.Points
		if err := s.saveBest(ctx, record); err != nil {
			return nil, err
		}
		s.publishRecordBeaten(ctx, record, previousPoints)
		return result, nil
	}

	prev := best.Points
	result.PreviousBestPoints = &prev
	if record.Points > best.Points {
		result.IsNewBest = true
		result.BestPoints = record.Points
		if err := s.saveBest(ctx, record); err != nil {
			return nil, err
		}
		s.publishRecordBeaten(ctx, record, &prev)
		return result, nil
	}

	// Ties never beat the record.
	result.IsNewBest = false
	result.BestPoints = best.Points
	return result, nil
}

// saveBest upserts the best row from the winning score record and drops
// the pair's cached statistics, which are now stale.
func (s *recordService) saveBest(ctx context.Context, record *models.ScoreRecord) error {
	best := &models.BestRecord{
		LearnerID:      record.LearnerID,
		LevelID:        record.LevelID,
		TopicID:        record.TopicID,
		AttemptGroupID: record.AttemptGroupID,
		Points:         record.Points,
		CorrectCount:   record.CorrectCount,
		AnswerCount:    record.AnswerCount,
		ElapsedSeconds: record.ElapsedSeconds,
		AchievedAt:     record.CreatedAt,
	}
	if err := s.repo.BestRecords().Save(ctx, best); err != nil {
		return fmt.Errorf("failed to save best record: %w", err)
	}

	if s.cache != nil {
		key := cache.StatsKey(record.LevelID, record.TopicID)
		if err := s.cache.Delete(ctx, key); err != nil && err != cache.ErrCacheMiss {
			s.logger.Warn("Failed to invalidate statistics cache", "key", key, "error", err)
		}
	}
	return nil
}

func (s *recordService) publishRecordBeaten(ctx context.Context, record *models.ScoreRecord, previous *float64) {
	if s.publisher == nil {
		return
	}
	payload := events.RecordBeatenEvent{
		LearnerID:      record.LearnerID,
		LevelID:        record.LevelID,
		TopicID:        record.TopicID,
		AttemptGroupID: record.AttemptGroupID,
		Points:         record.Points,
		PreviousPoints: previous,
		AchievedAt:     record.CreatedAt,
	}
	event := events.NewPerformanceEvent(events.EventRecordBeaten, payload)
	if err := s.publisher.PublishPerformanceEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish record beaten event",
			"learner_id", record.LearnerID,
			"error", err)
	}
}

func (s *recordService) GetBest(ctx context.Context, learnerID string, levelID, topicID uint) (*models.BestRecord, error) {
	best, err := s.repo.BestRecords().Get(ctx, learnerID, levelID, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to get best record: %w", err)
	}
	if best == nil {
		return nil, ErrNotFound
	}
	return best, nil
}

func (s *recordService) ListBest(ctx context.Context, filters repositories.BestRecordFilters) ([]*models.BestRecord, int64, error) {
	if filters.Limit <= 0 {
		filters.Limit = 50
	}
	if filters.SortBy == "" {
		filters.SortBy = "points"
		filters.SortOrder = "desc"
	}
	records, total, err := s.repo.BestRecords().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list best records: %w", err)
	}
	return records, total, nil
}
