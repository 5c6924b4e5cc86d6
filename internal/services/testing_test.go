package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"gorm.io/gorm"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/config"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/models"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/repositories"
)

// fakeRepository is an in-memory repositories.Repository for service
// tests. It keeps the same ordering guarantees as the postgres
// implementation so reconstruction behaves identically.
type fakeRepository struct {
	eventLog      *fakeEventLog
	questionStore *fakeQuestionStore
	scores        *fakeScores
	bestRecords   *fakeBestRecords
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		eventLog: &fakeEventLog{},
		questionStore: &fakeQuestionStore{
			levels:      make(map[uint]*models.Level),
			counts:      make(map[[2]uint]int),
			limits:      make(map[uint]int),
			pointValues: make(map[uint]int),
		},
		scores:      &fakeScores{},
		bestRecords: &fakeBestRecords{records: make(map[[3]string]*models.BestRecord)},
	}
}

func (r *fakeRepository) EventLog() repositories.EventLogRepository           { return r.eventLog }
func (r *fakeRepository) QuestionStore() repositories.QuestionStoreRepository { return r.questionStore }
func (r *fakeRepository) Scores() repositories.ScoreRecordRepository          { return r.scores }
func (r *fakeRepository) BestRecords() repositories.BestRecordRepository      { return r.bestRecords }

// ===== EVENT LOG =====

type fakeEventLog struct {
	events []*models.AnswerEvent
	nextID uint
}

func (f *fakeEventLog) Append(ctx context.Context, event *models.AnswerEvent) error {
	f.nextID++
	if event.ID == 0 {
		event.ID = f.nextID
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEventLog) EventsFor(ctx context.Context, learnerID string, levelID, topicID uint) ([]*models.AnswerEvent, error) {
	var out []*models.AnswerEvent
	for _, e := range f.events {
		if e.LearnerID == learnerID && e.LevelID == levelID && e.TopicID == topicID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeEventLog) RewriteGroupID(ctx context.Context, eventIDs []uint, groupID string) error {
	ids := make(map[uint]struct{}, len(eventIDs))
	for _, id := range eventIDs {
		ids[id] = struct{}{}
	}
	for _, e := range f.events {
		if _, ok := ids[e.ID]; ok {
			e.AttemptGroupID = groupID
		}
	}
	return nil
}

func (f *fakeEventLog) LearnersFor(ctx context.Context, levelID, topicID uint) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range f.events {
		if e.LevelID == levelID && e.TopicID == topicID {
			if _, ok := seen[e.LearnerID]; !ok {
				seen[e.LearnerID] = struct{}{}
				out = append(out, e.LearnerID)
			}
		}
	}
	return out, nil
}

func (f *fakeEventLog) ActivePairs(ctx context.Context) ([]repositories.LevelTopic, error) {
	seen := make(map[[2]uint]struct{})
	var out []repositories.LevelTopic
	for _, e := range f.events {
		key := [2]uint{e.LevelID, e.TopicID}
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			out = append(out, repositories.LevelTopic{LevelID: e.LevelID, TopicID: e.TopicID})
		}
	}
	return out, nil
}

// ===== QUESTION STORE =====

type fakeQuestionStore struct {
	levels      map[uint]*models.Level
	counts      map[[2]uint]int
	limits      map[uint]int
	pointValues map[uint]int
}

func (f *fakeQuestionStore) QuestionCount(ctx context.Context, levelID, topicID uint) (int, error) {
	return f.counts[[2]uint{levelID, topicID}], nil
}

func (f *fakeQuestionStore) StandardLimit(ctx context.Context, levelID uint) (int, error) {
	return f.limits[levelID], nil
}

func (f *fakeQuestionStore) GetLevel(ctx context.Context, levelID uint) (*models.Level, error) {
	if level, ok := f.levels[levelID]; ok {
		return level, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeQuestionStore) PointValues(ctx context.Context, questionIDs []uint) (map[uint]int, error) {
	out := make(map[uint]int)
	for _, id := range questionIDs {
		if v, ok := f.pointValues[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

// ===== SCORE RECORDS =====

type fakeScores struct {
	records []*models.ScoreRecord
	nextID  uint
}

// Create mirrors the postgres upsert on (learner, level, topic, group).
func (f *fakeScores) Create(ctx context.Context, record *models.ScoreRecord) error {
	for _, r := range f.records {
		if r.LearnerID == record.LearnerID && r.LevelID == record.LevelID &&
			r.TopicID == record.TopicID && r.AttemptGroupID == record.AttemptGroupID {
			record.ID = r.ID
			*r = *record
			return nil
		}
	}
	f.nextID++
	record.ID = f.nextID
	stored := *record
	f.records = append(f.records, &stored)
	return nil
}

func (f *fakeScores) GetByLearner(ctx context.Context, learnerID string, levelID, topicID uint) ([]*models.ScoreRecord, error) {
	var out []*models.ScoreRecord
	for _, r := range f.records {
		if r.LearnerID == learnerID && r.LevelID == levelID && r.TopicID == topicID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeScores) MaxRecordExcludingGroup(ctx context.Context, learnerID string, levelID, topicID uint, groupID string) (*models.ScoreRecord, error) {
	var max *models.ScoreRecord
	for _, r := range f.records {
		if r.LearnerID != learnerID || r.LevelID != levelID || r.TopicID != topicID {
			continue
		}
		if r.AttemptGroupID == groupID {
			continue
		}
		if max == nil || r.Points > max.Points {
			copied := *r
			max = &copied
		}
	}
	return max, nil
}

// ===== BEST RECORDS =====

type fakeBestRecords struct {
	records map[[3]string]*models.BestRecord
}

func bestKey(learnerID string, levelID, topicID uint) [3]string {
	return [3]string{learnerID, fmt.Sprint(levelID), fmt.Sprint(topicID)}
}

func (f *fakeBestRecords) Get(ctx context.Context, learnerID string, levelID, topicID uint) (*models.BestRecord, error) {
	if r, ok := f.records[bestKey(learnerID, levelID, topicID)]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeBestRecords) Save(ctx context.Context, record *models.BestRecord) error {
	stored := *record
	f.records[bestKey(record.LearnerID, record.LevelID, record.TopicID)] = &stored
	return nil
}

func (f *fakeBestRecords) PointsFor(ctx context.Context, levelID, topicID uint) ([]float64, error) {
	var out []float64
	for _, r := range f.records {
		if r.LevelID == levelID && r.TopicID == topicID {
			out = append(out, r.Points)
		}
	}
	sort.Float64s(out)
	return out, nil
}

func (f *fakeBestRecords) List(ctx context.Context, filters repositories.BestRecordFilters) ([]*models.BestRecord, int64, error) {
	var out []*models.BestRecord
	for _, r := range f.records {
		if filters.LevelID != nil && r.LevelID != *filters.LevelID {
			continue
		}
		if filters.TopicID != nil && r.TopicID != *filters.TopicID {
			continue
		}
		if filters.LearnerID != "" && r.LearnerID != filters.LearnerID {
			continue
		}
		copied := *r
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	return out, int64(len(out)), nil
}

func (f *fakeBestRecords) TopicsForLevel(ctx context.Context, levelID uint) ([]uint, error) {
	seen := make(map[uint]struct{})
	var out []uint
	for _, r := range f.records {
		if r.LevelID == levelID {
			if _, ok := seen[r.TopicID]; !ok {
				seen[r.TopicID] = struct{}{}
				out = append(out, r.TopicID)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// ===== SHARED FIXTURES =====

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testReconciliationConfig() config.ReconciliationConfig {
	return config.ReconciliationConfig{
		MergeWindowSeconds:    7200,
		OverlapRatioLimit:     0.5,
		RetentionThreshold:    0.9,
		DrillScaleDivisor:     10,
		StandardQuestionLimit: 20,
		StatsCacheTTLSeconds:  300,
		RecomputeWorkers:      4,
	}
}
