package repositories

import (
	"context"
	"time"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type EventFilters struct {
	DateFrom *time.Time `json:"date_from"`
	DateTo   *time.Time `json:"date_to"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}

type BestRecordFilters struct {
	LevelID   *uint  `json:"level_id"`
	TopicID   *uint  `json:"topic_id"`
	LearnerID string `json:"learner_id"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "points", "achieved_at"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

// LevelTopic identifies one (level, topic) unit of work.
type LevelTopic struct {
	LevelID uint `json:"level_id"`
	TopicID uint `json:"topic_id"`
}

// ===== REPOSITORY INTERFACES =====

// EventLogRepository is the append-only store of raw answer events. The
// quiz-taking UI writes events; this engine mostly reads them. The one
// sanctioned mutation is RewriteGroupID, used by repair passes to fold
// fragment groups into a canonical attempt group.
type EventLogRepository interface {
	Append(ctx context.Context, event *models.AnswerEvent) error
	// EventsFor returns every event for one (learner, level, topic),
	// ordered by timestamp.
	EventsFor(ctx context.Context, learnerID string, levelID, topicID uint) ([]*models.AnswerEvent, error)
	RewriteGroupID(ctx context.Context, eventIDs []uint, groupID string) error
	// LearnersFor lists the learners with at least one event on the pair.
	LearnersFor(ctx context.Context, levelID, topicID uint) ([]string, error)
	// ActivePairs lists every (level, topic) with recorded events.
	ActivePairs(ctx context.Context) ([]LevelTopic, error)
}

// QuestionStoreRepository is the static question bank the engine consults
// for question counts and per-question point values. Drill levels have no
// bank; their count is zero and callers fall back to the standard limit.
type QuestionStoreRepository interface {
	QuestionCount(ctx context.Context, levelID, topicID uint) (int, error)
	// StandardLimit is the per-level configured question count; zero when
	// the level carries no explicit limit.
	StandardLimit(ctx context.Context, levelID uint) (int, error)
	GetLevel(ctx context.Context, levelID uint) (*models.Level, error)
	// PointValues maps question ids to their flat-credit point values.
	PointValues(ctx context.Context, questionIDs []uint) (map[uint]int, error)
}

type ScoreRecordRepository interface {
	// Create upserts on (learner, level, topic, attempt_group_id): one
	// score row per attempt, re-scoring replaces in place.
	Create(ctx context.Context, record *models.ScoreRecord) error
	GetByLearner(ctx context.Context, learnerID string, levelID, topicID uint) ([]*models.ScoreRecord, error)
	// MaxRecordExcludingGroup returns the highest-scoring of a learner's
	// score records for the triple, ignoring the given attempt group.
	// Returns nil when no other record exists.
	MaxRecordExcludingGroup(ctx context.Context, learnerID string, levelID, topicID uint, groupID string) (*models.ScoreRecord, error)
}

type BestRecordRepository interface {
	Get(ctx context.Context, learnerID string, levelID, topicID uint) (*models.BestRecord, error)
	Save(ctx context.Context, record *models.BestRecord) error
	// PointsFor returns every learner's best points for the pair, one
	// value per learner.
	PointsFor(ctx context.Context, levelID, topicID uint) ([]float64, error)
	List(ctx context.Context, filters BestRecordFilters) ([]*models.BestRecord, int64, error)
	TopicsForLevel(ctx context.Context, levelID uint) ([]uint, error)
}

// Repository aggregates the engine's persistence concerns.
type Repository interface {
	EventLog() EventLogRepository
	QuestionStore() QuestionStoreRepository
	Scores() ScoreRecordRepository
	BestRecords() BestRecordRepository
}

// IsNotFoundError reports whether err is the storage layer's not-found.
func IsNotFoundError(err error) bool {
	return isGormNotFound(err)
}
