package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/config"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/models"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/repositories"
)

// ScoringService converts a countable attempt into a normalized point
// value. Standard levels score accuracy-weighted points per minute;
// drill levels use the same formula on a compressed scale.
type ScoringService interface {
	ScoreAttempt(ctx context.Context, attempt *models.Attempt) (*models.ScoreRecord, error)
}

type scoringService struct {
	repo   repositories.Repository
	cfg    config.ReconciliationConfig
	logger *slog.Logger
}

func NewScoringService(repo repositories.Repository, cfg config.ReconciliationConfig, logger *slog.Logger) ScoringService {
	return &scoringService{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *scoringService) ScoreAttempt(ctx context.Context, attempt *models.Attempt) (*models.ScoreRecord, error) {
	if !attempt.Countable() {
		return nil, ErrAttemptNotScorable
	}
	if attempt.AnswerCount == 0 {
		return nil, ErrAttemptNotScorable
	}

	level, err := s.repo.QuestionStore().GetLevel(ctx, attempt.LevelID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to get level: %w", err)
	}

	var points float64
	if attempt.ElapsedSeconds <= 0 {
		// Unknown elapsed time still earns a flat per-question credit
		// rather than dividing by zero.
		points, err = s.flatCredit(ctx, attempt)
		if err != nil {
			return nil, err
		}
	} else {
		points = attempt.Accuracy() * 100 * 60 / float64(attempt.ElapsedSeconds)
	}

	if level.IsDrill() {
		points /= float64(s.cfg.DrillScaleDivisor)
	}
	points = roundPoints(points)

	record := &models.ScoreRecord{
		LearnerID:      attempt.LearnerID,
		LevelID:        attempt.LevelID,
		TopicID:        attempt.TopicID,
		AttemptGroupID: scoreGroupID(attempt),
		Points:         points,
		CorrectCount:   attempt.CorrectCount,
		AnswerCount:    attempt.AnswerCount,
		ElapsedSeconds: attempt.ElapsedSeconds,
		CreatedAt:      attempt.LastEventAt,
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	return record, nil
}

// scoreGroupID is the score row's attempt identity. Attempts whose
// events never carried a group id get a synthetic one keyed on the first
// event, which is stable across recompute passes; an empty id would make
// every ungrouped attempt of the triple the same row.
func scoreGroupID(attempt *models.Attempt) string {
	if attempt.GroupID != "" {
		return attempt.GroupID
	}
	return fmt.Sprintf("event-%d", attempt.Events[0].ID)
}

// flatCredit sums the point values of the correctly answered questions.
// Questions missing from the store count 1, which is also the stored
// default.
func (s *scoringService) flatCredit(ctx context.Context, attempt *models.Attempt) (float64, error) {
	correct := make(map[uint]struct{})
	latest := make(map[uint]models.AnswerEvent)
	for _, event := range attempt.Events {
		prev, ok := latest[event.QuestionID]
		if !ok || event.CreatedAt.After(prev.CreatedAt) {
			latest[event.QuestionID] = event
		}
	}
	ids := make([]uint, 0, len(latest))
	for id, event := range latest {
		if event.IsCorrect {
			correct[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	values, err := s.repo.QuestionStore().PointValues(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to get question point values: %w", err)
	}

	var total float64
	for id := range correct {
		value, ok := values[id]
		if !ok {
			value = 1
		}
		total += float64(value)
	}
	return total, nil
}

// roundPoints rounds to 2 decimal places. Record comparisons use the
// rounded value consistently, since that is the only value persisted.
func roundPoints(points float64) float64 {
	return math.Round(points*100) / 100
}
