package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/config"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/models"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/repositories"
)

// ReconstructionService rebuilds logical attempts from the raw answer
// event stream for one (learner, level, topic), repairing the common
// failure mode where a page reload split one real-world attempt into
// several attempt groups.
type ReconstructionService interface {
	// ReconstructAttempts returns the learner's attempts for the pair,
	// each classified complete / partial-retained / discardable, ordered
	// by first event timestamp.
	ReconstructAttempts(ctx context.Context, learnerID string, levelID, topicID uint) ([]*models.Attempt, error)
	// QuestionLimit resolves the required question count for the pair:
	// min(available bank count, per-level standard count). Drill levels
	// have no bank and use the standard count alone.
	QuestionLimit(ctx context.Context, levelID, topicID uint) (int, error)
}

type reconstructionService struct {
	repo   repositories.Repository
	cfg    config.ReconciliationConfig
	logger *slog.Logger
}

func NewReconstructionService(repo repositories.Repository, cfg config.ReconciliationConfig, logger *slog.Logger) ReconstructionService {
	return &reconstructionService{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

// fragment is one attempt_group_id worth of events, the unit of merging.
type fragment struct {
	groupID   string
	events    []*models.AnswerEvent
	questions map[uint]struct{}
	first     time.Time
	last      time.Time
}

func (s *reconstructionService) ReconstructAttempts(ctx context.Context, learnerID string, levelID, topicID uint) ([]*models.Attempt, error) {
	events, err := s.repo.EventLog().EventsFor(ctx, learnerID, levelID, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	limit, err := s.QuestionLimit(ctx, levelID, topicID)
	if err != nil {
		return nil, err
	}

	fragments := s.buildFragments(events)
	clusters := s.mergeFragments(fragments)

	attempts := make([]*models.Attempt, 0, len(clusters))
	for _, cluster := range clusters {
		attempts = append(attempts, s.buildAttempt(learnerID, levelID, topicID, cluster, limit))
	}
	return attempts, nil
}

func (s *reconstructionService) QuestionLimit(ctx context.Context, levelID, topicID uint) (int, error) {
	standard, err := s.repo.QuestionStore().StandardLimit(ctx, levelID)
	if err != nil {
		return 0, fmt.Errorf("failed to get standard question limit: %w", err)
	}
	if standard == 0 {
		standard = s.cfg.StandardQuestionLimit
	}

	available, err := s.repo.QuestionStore().QuestionCount(ctx, levelID, topicID)
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}

	// Drill levels carry no bank; the standard count is the limit.
	if available == 0 || available > standard {
		return standard, nil
	}
	return available, nil
}

// buildFragments groups events by attempt_group_id. Events without a
// group id each become their own singleton fragment and are never
// folded together with one another by id.
func (s *reconstructionService) buildFragments(events []*models.AnswerEvent) []*fragment {
	byGroup := make(map[string]*fragment)
	var fragments []*fragment

	for _, event := range events {
		if event.Malformed() {
			s.logger.Warn("Dropping malformed answer event",
				"event_id", event.ID,
				"learner_id", event.LearnerID)
			continue
		}

		var frag *fragment
		if event.AttemptGroupID == "" {
			frag = newFragment("")
			fragments = append(fragments, frag)
		} else {
			var ok bool
			frag, ok = byGroup[event.AttemptGroupID]
			if !ok {
				frag = newFragment(event.AttemptGroupID)
				byGroup[event.AttemptGroupID] = frag
				fragments = append(fragments, frag)
			}
		}
		frag.add(event)
	}

	// Zero-answer fragments are impossible by construction; every
	// fragment above holds at least one event.
	sort.SliceStable(fragments, func(i, j int) bool {
		return fragments[i].first.Before(fragments[j].first)
	})
	return fragments
}

func newFragment(groupID string) *fragment {
	return &fragment{
		groupID:   groupID,
		questions: make(map[uint]struct{}),
	}
}

func (f *fragment) add(event *models.AnswerEvent) {
	f.events = append(f.events, event)
	f.questions[event.QuestionID] = struct{}{}
	if f.first.IsZero() || event.CreatedAt.Before(f.first) {
		f.first = event.CreatedAt
	}
	if event.CreatedAt.After(f.last) {
		f.last = event.CreatedAt
	}
}

// mergeFragments greedily combines timestamp-adjacent fragments into
// clusters. Two fragments merge when their time ranges sit within the
// merge window AND their answered-question sets overlap by less than the
// overlap limit; a large overlap means a genuine re-attempt of the same
// quiz, which merging would double-count.
func (s *reconstructionService) mergeFragments(fragments []*fragment) [][]*fragment {
	window := time.Duration(s.cfg.MergeWindowSeconds) * time.Second

	var clusters [][]*fragment
	var current []*fragment
	var currentQuestions map[uint]struct{}
	var currentLast time.Time

	flush := func() {
		if len(current) > 0 {
			clusters = append(clusters, current)
		}
		current = nil
	}

	for _, frag := range fragments {
		if len(current) == 0 {
			current = []*fragment{frag}
			currentQuestions = copyQuestionSet(frag.questions)
			currentLast = frag.last
			continue
		}

		gap := frag.first.Sub(currentLast)
		if gap <= window && overlapRatio(currentQuestions, frag.questions) < s.cfg.OverlapRatioLimit {
			current = append(current, frag)
			for q := range frag.questions {
				currentQuestions[q] = struct{}{}
			}
			if frag.last.After(currentLast) {
				currentLast = frag.last
			}
			continue
		}

		flush()
		current = []*fragment{frag}
		currentQuestions = copyQuestionSet(frag.questions)
		currentLast = frag.last
	}
	flush()

	return clusters
}

// overlapRatio is |intersection| / max(|a|, |b|).
func overlapRatio(a map[uint]struct{}, b map[uint]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	intersection := 0
	for q := range small {
		if _, ok := large[q]; ok {
			intersection++
		}
	}

	denom := len(a)
	if len(b) > denom {
		denom = len(b)
	}
	return float64(intersection) / float64(denom)
}

func copyQuestionSet(src map[uint]struct{}) map[uint]struct{} {
	dst := make(map[uint]struct{}, len(src))
	for q := range src {
		dst[q] = struct{}{}
	}
	return dst
}

func (s *reconstructionService) buildAttempt(learnerID string, levelID, topicID uint, cluster []*fragment, limit int) *models.Attempt {
	attempt := &models.Attempt{
		LearnerID: learnerID,
		LevelID:   levelID,
		TopicID:   topicID,
		GroupID:   canonicalGroupID(cluster),
	}

	// Latest answer per question wins, so a corrected duplicate neither
	// inflates the count nor double-scores.
	latest := make(map[uint]*models.AnswerEvent)
	for _, frag := range cluster {
		attempt.MergedGroupIDs = append(attempt.MergedGroupIDs, frag.groupID)
		for _, event := range frag.events {
			attempt.Events = append(attempt.Events, *event)
			prev, ok := latest[event.QuestionID]
			if !ok || event.CreatedAt.After(prev.CreatedAt) {
				latest[event.QuestionID] = event
			}
		}
		if attempt.FirstEventAt.IsZero() || frag.first.Before(attempt.FirstEventAt) {
			attempt.FirstEventAt = frag.first
		}
		if frag.last.After(attempt.LastEventAt) {
			attempt.LastEventAt = frag.last
		}
	}

	attempt.AnswerCount = len(latest)
	for _, event := range latest {
		if event.IsCorrect {
			attempt.CorrectCount++
		}
	}

	attempt.ElapsedSeconds = s.clusterElapsed(cluster, attempt)
	attempt.Class = s.classify(attempt.AnswerCount, limit)
	return attempt
}

// canonicalGroupID is the earliest non-empty fragment id in the cluster.
// An empty canonical id would collide with every other ungrouped attempt
// downstream, so it is used only when no fragment carries an id at all.
func canonicalGroupID(cluster []*fragment) string {
	for _, frag := range cluster {
		if frag.groupID != "" {
			return frag.groupID
		}
	}
	return ""
}

// clusterElapsed: single fragments trust the client-reported elapsed
// time on the first event carrying one; merged clusters use the span
// between first and last event, because each fragment only saw part of
// the attempt and under-reports.
func (s *reconstructionService) clusterElapsed(cluster []*fragment, attempt *models.Attempt) int {
	if len(cluster) > 1 {
		return int(attempt.LastEventAt.Sub(attempt.FirstEventAt).Seconds())
	}
	for _, event := range cluster[0].events {
		if event.ElapsedSeconds > 0 {
			return event.ElapsedSeconds
		}
	}
	return 0
}

func (s *reconstructionService) classify(answerCount, limit int) models.AttemptClass {
	if answerCount >= limit {
		return models.AttemptComplete
	}
	if float64(answerCount) >= float64(limit)*s.cfg.RetentionThreshold {
		return models.AttemptPartialRetained
	}
	return models.AttemptDiscardable
}
