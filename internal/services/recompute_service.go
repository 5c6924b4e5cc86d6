package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/config"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/models"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/repositories"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/worker"
)

// RecomputeSummary reports one full recompute pass.
type RecomputeSummary struct {
	PairsProcessed    int           `json:"pairs_processed"`
	LearnersProcessed int           `json:"learners_processed"`
	ScoresSubmitted   int           `json:"scores_submitted"`
	RecordsBeaten     int           `json:"records_beaten"`
	AttemptsDiscarded int           `json:"attempts_discarded"`
	GroupsRepaired    int           `json:"groups_repaired"`
	Errors            []string      `json:"errors,omitempty"`
	Duration          time.Duration `json:"duration"`
}

// RecomputeService rebuilds scores, best records and statistics from the
// event log. It is the always-correct full recomputation path; the
// incremental submit path must converge to the same state.
type RecomputeService interface {
	// RecomputeAll runs the pass over every (level, topic) with events.
	RecomputeAll(ctx context.Context) (*RecomputeSummary, error)
	// RecomputePair runs the pass for one pair.
	RecomputePair(ctx context.Context, levelID, topicID uint) (*RecomputeSummary, error)
}

type recomputeService struct {
	repo           repositories.Repository
	reconstruction ReconstructionService
	scoring        ScoringService
	records        RecordService
	statistics     StatisticsService
	cfg            config.ReconciliationConfig
	logger         *slog.Logger
}

func NewRecomputeService(
	repo repositories.Repository,
	reconstruction ReconstructionService,
	scoring ScoringService,
	records RecordService,
	statistics StatisticsService,
	cfg config.ReconciliationConfig,
	logger *slog.Logger,
) RecomputeService {
	return &recomputeService{
		repo:           repo,
		reconstruction: reconstruction,
		scoring:        scoring,
		records:        records,
		statistics:     statistics,
		cfg:            cfg,
		logger:         logger,
	}
}

// pairOutcome is one (level, topic)'s share of the pass.
type pairOutcome struct {
	learners  int
	submitted int
	beaten    int
	discarded int
	repaired  int
	err       error
}

func (s *recomputeService) RecomputeAll(ctx context.Context) (*RecomputeSummary, error) {
	pairs, err := s.repo.EventLog().ActivePairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active pairs: %w", err)
	}

	start := time.Now()
	summary := &RecomputeSummary{}

	pool := worker.NewPool[pairOutcome](s.cfg.RecomputeWorkers, len(pairs))
	go func() {
		for _, pair := range pairs {
			pair := pair
			pool.Submit(fmt.Sprintf("%d:%d", pair.LevelID, pair.TopicID), func() pairOutcome {
				return s.processPair(ctx, pair.LevelID, pair.TopicID)
			})
		}
		pool.Close()
	}()

	for result := range pool.Results() {
		outcome := result.Output
		summary.PairsProcessed++
		summary.LearnersProcessed += outcome.learners
		summary.ScoresSubmitted += outcome.submitted
		summary.RecordsBeaten += outcome.beaten
		summary.AttemptsDiscarded += outcome.discarded
		summary.GroupsRepaired += outcome.repaired
		if outcome.err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", result.JobID, outcome.err))
		}
	}

	summary.Duration = time.Since(start)
	s.logger.Info("Full recompute pass finished",
		"pairs", summary.PairsProcessed,
		"learners", summary.LearnersProcessed,
		"scores", summary.ScoresSubmitted,
		"records_beaten", summary.RecordsBeaten,
		"errors", len(summary.Errors),
		"duration", summary.Duration)
	return summary, nil
}

func (s *recomputeService) RecomputePair(ctx context.Context, levelID, topicID uint) (*RecomputeSummary, error) {
	start := time.Now()
	outcome := s.processPair(ctx, levelID, topicID)
	if outcome.err != nil {
		return nil, outcome.err
	}

	summary := &RecomputeSummary{
		PairsProcessed:    1,
		LearnersProcessed: outcome.learners,
		ScoresSubmitted:   outcome.submitted,
		RecordsBeaten:     outcome.beaten,
		AttemptsDiscarded: outcome.discarded,
		GroupsRepaired:    outcome.repaired,
		Duration:          time.Since(start),
	}
	return summary, nil
}

func (s *recomputeService) processPair(ctx context.Context, levelID, topicID uint) pairOutcome {
	var outcome pairOutcome

	learners, err := s.repo.EventLog().LearnersFor(ctx, levelID, topicID)
	if err != nil {
		outcome.err = fmt.Errorf("failed to list learners: %w", err)
		return outcome
	}

	for _, learnerID := range learners {
		if err := ctx.Err(); err != nil {
			outcome.err = err
			return outcome
		}
		outcome.learners++

		attempts, err := s.reconstruction.ReconstructAttempts(ctx, learnerID, levelID, topicID)
		if err != nil {
			s.logger.Error("Reconstruction failed during recompute",
				"learner_id", learnerID,
				"level_id", levelID,
				"topic_id", topicID,
				"error", err)
			outcome.err = err
			continue
		}

		for _, attempt := range attempts {
			if s.cfg.PersistRepairs && len(attempt.MergedGroupIDs) > 1 {
				if err := s.persistRepair(ctx, attempt); err != nil {
					s.logger.Warn("Failed to persist group repair",
						"learner_id", learnerID,
						"group_id", attempt.GroupID,
						"error", err)
				} else {
					outcome.repaired++
				}
			}

			record, err := s.scoring.ScoreAttempt(ctx, attempt)
			if err != nil {
				if IsNotScorable(err) {
					outcome.discarded++
					continue
				}
				outcome.err = err
				continue
			}

			result, err := s.records.Submit(ctx, record)
			if err != nil {
				outcome.err = err
				continue
			}
			outcome.submitted++
			if result.IsNewBest {
				outcome.beaten++
			}
		}
	}

	if _, err := s.statistics.Recompute(ctx, levelID, topicID); err != nil {
		outcome.err = fmt.Errorf("failed to recompute statistics: %w", err)
	}
	return outcome
}

// persistRepair rewrites every merged fragment's events onto the
// canonical attempt group id. Events already on the canonical id are
// left alone.
func (s *recomputeService) persistRepair(ctx context.Context, attempt *models.Attempt) error {
	if attempt.GroupID == "" {
		return nil
	}
	var ids []uint
	for _, event := range attempt.Events {
		if event.AttemptGroupID != attempt.GroupID {
			ids = append(ids, event.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return s.repo.EventLog().RewriteGroupID(ctx, ids, attempt.GroupID)
}
