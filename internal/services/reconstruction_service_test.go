package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/models"
)

const (
	testLearner = "learner-1"
	testLevel   = uint(3)
	testTopic   = uint(7)
)

var testBase = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// seedEvents appends count events for one group, one question per
// event starting at firstQuestion, spaced spacing apart.
func seedEvents(repo *fakeRepository, groupID string, start time.Time, spacing time.Duration, firstQuestion uint, count int, correct int, elapsed int) {
	for i := 0; i < count; i++ {
		event := &models.AnswerEvent{
			LearnerID:      testLearner,
			LevelID:        testLevel,
			TopicID:        testTopic,
			QuestionID:     firstQuestion + uint(i),
			IsCorrect:      i < correct,
			AttemptGroupID: groupID,
			CreatedAt:      start.Add(time.Duration(i) * spacing),
		}
		if i == 0 {
			event.ElapsedSeconds = elapsed
		}
		_ = repo.EventLog().Append(context.Background(), event)
	}
}

func newTestReconstruction(repo *fakeRepository) ReconstructionService {
	return NewReconstructionService(repo, testReconciliationConfig(), testLogger())
}

func TestReconstructionService_MergesFragments(t *testing.T) {
	repo := newFakeRepository()
	repo.questionStore.limits[testLevel] = 20
	repo.questionStore.counts[[2]uint{testLevel, testTopic}] = 25

	// One real 20-question attempt split by a reload: 12 answers in
	// group A, the remaining 8 in group B minutes later.
	seedEvents(repo, "group-a", testBase, 10*time.Second, 1, 12, 12, 0)
	seedEvents(repo, "group-b", testBase.Add(5*time.Minute), 10*time.Second, 13, 8, 6, 0)

	service := newTestReconstruction(repo)
	attempts, err := service.ReconstructAttempts(context.Background(), testLearner, testLevel, testTopic)
	require.NoError(t, err)
	require.Len(t, attempts, 1)

	attempt := attempts[0]
	assert.Equal(t, "group-a", attempt.GroupID)
	assert.ElementsMatch(t, []string{"group-a", "group-b"}, attempt.MergedGroupIDs)
	assert.Equal(t, 20, attempt.AnswerCount)
	assert.Equal(t, 18, attempt.CorrectCount)
	assert.Equal(t, models.AttemptComplete, attempt.Class)

	// Merged clusters span first to last event, not the sum of the
	// fragments' self-reported elapsed times.
	wantElapsed := int(attempt.LastEventAt.Sub(attempt.FirstEventAt).Seconds())
	assert.Equal(t, wantElapsed, attempt.ElapsedSeconds)
}

func TestReconstructionService_OverlapBlocksMerge(t *testing.T) {
	repo := newFakeRepository()
	repo.questionStore.limits[testLevel] = 10
	repo.questionStore.counts[[2]uint{testLevel, testTopic}] = 10

	// Same ten questions answered twice within the window: a genuine
	// re-attempt, not fragments of one attempt.
	seedEvents(repo, "first-try", testBase, 10*time.Second, 1, 10, 7, 200)
	seedEvents(repo, "second-try", testBase.Add(20*time.Minute), 10*time.Second, 1, 10, 9, 150)

	service := newTestReconstruction(repo)
	attempts, err := service.ReconstructAttempts(context.Background(), testLearner, testLevel, testTopic)
	require.NoError(t, err)
	require.Len(t, attempts, 2)

	assert.Equal(t, models.AttemptComplete, attempts[0].Class)
	assert.Equal(t, models.AttemptComplete, attempts[1].Class)
	assert.Equal(t, 7, attempts[0].CorrectCount)
	assert.Equal(t, 9, attempts[1].CorrectCount)
}

func TestReconstructionService_GapBlocksMerge(t *testing.T) {
	repo := newFakeRepository()
	repo.questionStore.limits[testLevel] = 20
	repo.questionStore.counts[[2]uint{testLevel, testTopic}] = 25

	seedEvents(repo, "morning", testBase, 10*time.Second, 1, 12, 12, 130)
	seedEvents(repo, "evening", testBase.Add(3*time.Hour), 10*time.Second, 13, 8, 8, 90)

	service := newTestReconstruction(repo)
	attempts, err := service.ReconstructAttempts(context.Background(), testLearner, testLevel, testTopic)
	require.NoError(t, err)
	require.Len(t, attempts, 2)

	// 12/20 is below the 0.9 retention threshold.
	assert.Equal(t, models.AttemptDiscardable, attempts[0].Class)
	assert.Equal(t, models.AttemptDiscardable, attempts[1].Class)
}

func TestReconstructionService_DuplicateAnswersLatestWins(t *testing.T) {
	repo := newFakeRepository()
	repo.questionStore.limits[testLevel] = 3
	repo.questionStore.counts[[2]uint{testLevel, testTopic}] = 3

	ctx := context.Background()
	// Question 1 answered wrong, then corrected; count stays 3, the
	// later answer decides correctness.
	times := []time.Time{testBase, testBase.Add(10 * time.Second), testBase.Add(20 * time.Second), testBase.Add(30 * time.Second)}
	answers := []struct {
		question uint
		correct  bool
	}{
		{1, false},
		{2, true},
		{3, true},
		{1, true},
	}
	for i, a := range answers {
		event := &models.AnswerEvent{
			LearnerID:      testLearner,
			LevelID:        testLevel,
			TopicID:        testTopic,
			QuestionID:     a.question,
			IsCorrect:      a.correct,
			AttemptGroupID: "g1",
			CreatedAt:      times[i],
		}
		if i == 0 {
			event.ElapsedSeconds = 40
		}
		require.NoError(t, repo.EventLog().Append(ctx, event))
	}

	service := newTestReconstruction(repo)
	attempts, err := service.ReconstructAttempts(ctx, testLearner, testLevel, testTopic)
	require.NoError(t, err)
	require.Len(t, attempts, 1)

	assert.Equal(t, 3, attempts[0].AnswerCount)
	assert.Equal(t, 3, attempts[0].CorrectCount)
	assert.Equal(t, 40, attempts[0].ElapsedSeconds)
}

func TestReconstructionService_EmptyGroupIDStaysSingleton(t *testing.T) {
	repo := newFakeRepository()
	repo.questionStore.limits[testLevel] = 2
	repo.questionStore.counts[[2]uint{testLevel, testTopic}] = 2

	ctx := context.Background()
	// Two ungrouped events far apart must not be folded into one
	// attempt by a shared empty id; adjacency may still merge them,
	// so keep them outside the window.
	for i, at := range []time.Time{testBase, testBase.Add(4 * time.Hour)} {
		require.NoError(t, repo.EventLog().Append(ctx, &models.AnswerEvent{
			LearnerID:  testLearner,
			LevelID:    testLevel,
			TopicID:    testTopic,
			QuestionID: uint(i + 1),
			IsCorrect:  true,
			CreatedAt:  at,
		}))
	}

	service := newTestReconstruction(repo)
	attempts, err := service.ReconstructAttempts(ctx, testLearner, testLevel, testTopic)
	require.NoError(t, err)
	assert.Len(t, attempts, 2)
}

func TestReconstructionService_CanonicalGroupSkipsEmptyFragments(t *testing.T) {
	repo := newFakeRepository()
	repo.questionStore.limits[testLevel] = 10
	repo.questionStore.counts[[2]uint{testLevel, testTopic}] = 10

	ctx := context.Background()
	// An ungrouped stray event precedes the grouped fragment it merges
	// with. The cluster's canonical id must be the grouped fragment's,
	// never the empty one, or downstream score rows for every ungrouped
	// attempt of the triple would share an identity.
	require.NoError(t, repo.EventLog().Append(ctx, &models.AnswerEvent{
		LearnerID:  testLearner,
		LevelID:    testLevel,
		TopicID:    testTopic,
		QuestionID: 1,
		IsCorrect:  true,
		CreatedAt:  testBase,
	}))
	seedEvents(repo, "group-b", testBase.Add(2*time.Minute), 10*time.Second, 2, 9, 9, 0)

	service := newTestReconstruction(repo)
	attempts, err := service.ReconstructAttempts(ctx, testLearner, testLevel, testTopic)
	require.NoError(t, err)
	require.Len(t, attempts, 1)

	assert.Equal(t, "group-b", attempts[0].GroupID)
	assert.ElementsMatch(t, []string{"", "group-b"}, attempts[0].MergedGroupIDs)
	assert.Equal(t, 10, attempts[0].AnswerCount)
}

func TestReconstructionService_Idempotent(t *testing.T) {
	repo := newFakeRepository()
	repo.questionStore.limits[testLevel] = 20
	repo.questionStore.counts[[2]uint{testLevel, testTopic}] = 25

	seedEvents(repo, "group-a", testBase, 10*time.Second, 1, 12, 10, 0)
	seedEvents(repo, "group-b", testBase.Add(5*time.Minute), 10*time.Second, 13, 8, 8, 0)

	service := newTestReconstruction(repo)
	first, err := service.ReconstructAttempts(context.Background(), testLearner, testLevel, testTopic)
	require.NoError(t, err)
	second, err := service.ReconstructAttempts(context.Background(), testLearner, testLevel, testTopic)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].AnswerCount, second[0].AnswerCount)
	assert.Equal(t, first[0].CorrectCount, second[0].CorrectCount)
	assert.Equal(t, first[0].ElapsedSeconds, second[0].ElapsedSeconds)
	assert.Equal(t, first[0].MergedGroupIDs, second[0].MergedGroupIDs)
}

func TestReconstructionService_MalformedEventsDropped(t *testing.T) {
	repo := newFakeRepository()
	repo.questionStore.limits[testLevel] = 2
	repo.questionStore.counts[[2]uint{testLevel, testTopic}] = 2

	ctx := context.Background()
	require.NoError(t, repo.EventLog().Append(ctx, &models.AnswerEvent{
		LearnerID:      testLearner,
		LevelID:        testLevel,
		TopicID:        testTopic,
		QuestionID:     1,
		IsCorrect:      true,
		AttemptGroupID: "g1",
		CreatedAt:      testBase,
		ElapsedSeconds: 30,
	}))
	// Missing question id: unusable, dropped with a warning.
	require.NoError(t, repo.EventLog().Append(ctx, &models.AnswerEvent{
		LearnerID:      testLearner,
		LevelID:        testLevel,
		TopicID:        testTopic,
		AttemptGroupID: "g1",
		CreatedAt:      testBase.Add(10 * time.Second),
	}))

	service := newTestReconstruction(repo)
	attempts, err := service.ReconstructAttempts(ctx, testLearner, testLevel, testTopic)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, 1, attempts[0].AnswerCount)
}

func TestReconstructionService_QuestionLimit(t *testing.T) {
	repo := newFakeRepository()
	service := newTestReconstruction(repo).(*reconstructionService)

	t.Run("bank smaller than standard", func(t *testing.T) {
		repo.questionStore.limits[testLevel] = 20
		repo.questionStore.counts[[2]uint{testLevel, testTopic}] = 15
		limit, err := service.QuestionLimit(context.Background(), testLevel, testTopic)
		require.NoError(t, err)
		assert.Equal(t, 15, limit)
	})

	t.Run("bank larger than standard", func(t *testing.T) {
		repo.questionStore.counts[[2]uint{testLevel, testTopic}] = 50
		limit, err := service.QuestionLimit(context.Background(), testLevel, testTopic)
		require.NoError(t, err)
		assert.Equal(t, 20, limit)
	})

	t.Run("drill level without bank", func(t *testing.T) {
		repo.questionStore.counts[[2]uint{testLevel, testTopic}] = 0
		limit, err := service.QuestionLimit(context.Background(), testLevel, testTopic)
		require.NoError(t, err)
		assert.Equal(t, 20, limit)
	})

	t.Run("level without explicit limit uses default", func(t *testing.T) {
		const otherLevel = uint(99)
		limit, err := service.QuestionLimit(context.Background(), otherLevel, testTopic)
		require.NoError(t, err)
		assert.Equal(t, 20, limit)
	})
}
