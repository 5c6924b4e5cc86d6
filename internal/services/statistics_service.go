package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/cache"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/config"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/events"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/models"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/repositories"
)

// StatisticsService computes per (level, topic) cohort statistics over
// every learner's best points, plus the six-band classification derived
// from them.
type StatisticsService interface {
	// GetStatistics returns the pair's statistics, served from cache when
	// fresh and recomputed from best records otherwise.
	GetStatistics(ctx context.Context, levelID, topicID uint) (*models.TopicLevelStatistics, error)
	// Recompute rebuilds the pair's statistics from storage, refreshes the
	// cache and publishes a recomputed event.
	Recompute(ctx context.Context, levelID, topicID uint) (*models.TopicLevelStatistics, error)
	// ClassifyPoints bands a point value against the pair's statistics.
	ClassifyPoints(ctx context.Context, levelID, topicID uint, points float64) (models.PerformanceBand, error)
}

type statisticsService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	cfg       config.ReconciliationConfig
	logger    *slog.Logger
}

func NewStatisticsService(repo repositories.Repository, cacheService cache.CacheService, publisher events.EventPublisher, cfg config.ReconciliationConfig, logger *slog.Logger) StatisticsService {
	return &statisticsService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *statisticsService) GetStatistics(ctx context.Context, levelID, topicID uint) (*models.TopicLevelStatistics, error) {
	if s.cache != nil {
		var cached models.TopicLevelStatistics
		err := s.cache.Get(ctx, cache.StatsKey(levelID, topicID), &cached)
		if err == nil {
			return &cached, nil
		}
		if err != cache.ErrCacheMiss {
			s.logger.Warn("Statistics cache read failed",
				"level_id", levelID,
				"topic_id", topicID,
				"error", err)
		}
	}
	return s.Recompute(ctx, levelID, topicID)
}

func (s *statisticsService) Recompute(ctx context.Context, levelID, topicID uint) (*models.TopicLevelStatistics, error) {
	points, err := s.repo.BestRecords().PointsFor(ctx, levelID, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to load best points: %w", err)
	}

	stats := ComputeStatistics(levelID, topicID, points)

	if s.cache != nil {
		ttl := time.Duration(s.cfg.StatsCacheTTLSeconds) * time.Second
		if err := s.cache.Set(ctx, cache.StatsKey(levelID, topicID), stats, ttl); err != nil {
			s.logger.Warn("Statistics cache write failed",
				"level_id", levelID,
				"topic_id", topicID,
				"error", err)
		}
	}

	s.publishRecomputed(ctx, stats)
	return stats, nil
}

func (s *statisticsService) ClassifyPoints(ctx context.Context, levelID, topicID uint, points float64) (models.PerformanceBand, error) {
	stats, err := s.GetStatistics(ctx, levelID, topicID)
	if err != nil {
		return "", err
	}
	band, ok := stats.Band(points)
	if !ok {
		return "", ErrInsufficientData
	}
	return band, nil
}

func (s *statisticsService) publishRecomputed(ctx context.Context, stats *models.TopicLevelStatistics) {
	if s.publisher == nil {
		return
	}
	payload := events.StatisticsRecomputedEvent{
		LevelID:          stats.LevelID,
		TopicID:          stats.TopicID,
		Mean:             stats.Mean,
		Sigma:            stats.Sigma,
		SampleCount:      stats.SampleCount,
		InsufficientData: stats.InsufficientData,
	}
	event := events.NewPerformanceEvent(events.EventStatisticsRecomputed, payload)
	if err := s.publisher.PublishPerformanceEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish statistics recomputed event",
			"level_id", stats.LevelID,
			"topic_id", stats.TopicID,
			"error", err)
	}
}

// ComputeStatistics runs Welford's algorithm over the points. The running
// form matches full recomputation exactly while staying numerically
// stable on long streams, so the same function serves both.
func ComputeStatistics(levelID, topicID uint, points []float64) *models.TopicLevelStatistics {
	stats := &models.TopicLevelStatistics{
		LevelID:     levelID,
		TopicID:     topicID,
		SampleCount: len(points),
		ComputedAt:  time.Now().UTC(),
	}

	// Fewer than two learners is not a population; consumers must not
	// band against it.
	if len(points) < 2 {
		stats.InsufficientData = true
		return stats
	}

	var mean, m2 float64
	for i, x := range points {
		n := float64(i + 1)
		delta := x - mean
		mean += delta / n
		m2 += delta * (x - mean)
	}

	stats.Mean = mean
	stats.Sigma = math.Sqrt(m2 / float64(len(points)))
	return stats
}
