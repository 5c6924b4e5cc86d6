package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/models"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/utils"
)

func eventFixture() (EventService, *fakeRepository) {
	repo := newFakeRepository()
	return NewEventService(repo, utils.NewValidator(), testLogger()), repo
}

func TestEventService_RecordAnswerAppendsChoicePayload(t *testing.T) {
	svc, repo := eventFixture()

	at := "2026-03-10T09:00:00Z"
	event, err := svc.RecordAnswer(context.Background(), &AnswerSubmission{
		LearnerID:      testLearner,
		QuestionID:     4,
		LevelID:        testLevel,
		TopicID:        testTopic,
		IsCorrect:      true,
		AttemptGroupID: "g1",
		ElapsedSeconds: 120,
		AnswerKind:     string(models.AnswerKindChoice),
		SelectedOption: "B",
		TimeSpent:      11,
		Timestamp:      &at,
	})
	require.NoError(t, err)
	require.NotZero(t, event.ID)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), event.CreatedAt)

	var payload models.AnswerPayload
	require.NoError(t, json.Unmarshal(event.Answer, &payload))
	assert.Equal(t, models.AnswerKindChoice, payload.Kind)
	require.NotNil(t, payload.Choice)
	assert.Equal(t, "B", payload.Choice.SelectedOption)
	assert.Equal(t, 11, payload.Choice.TimeSpent)
	assert.Nil(t, payload.Short)

	events, err := repo.EventLog().EventsFor(context.Background(), testLearner, testLevel, testTopic)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestEventService_RecordAnswerAppendsShortPayload(t *testing.T) {
	svc, _ := eventFixture()

	event, err := svc.RecordAnswer(context.Background(), &AnswerSubmission{
		LearnerID:  testLearner,
		QuestionID: 9,
		LevelID:    testLevel,
		TopicID:    testTopic,
		AnswerKind: string(models.AnswerKindShort),
		AnswerText: "42",
		TimeSpent:  7,
	})
	require.NoError(t, err)

	var payload models.AnswerPayload
	require.NoError(t, json.Unmarshal(event.Answer, &payload))
	assert.Equal(t, models.AnswerKindShort, payload.Kind)
	require.NotNil(t, payload.Short)
	assert.Equal(t, "42", payload.Short.Text)
	assert.Nil(t, payload.Choice)
}

func TestEventService_RecordAnswerRejectsUnknownKind(t *testing.T) {
	svc, repo := eventFixture()

	_, err := svc.RecordAnswer(context.Background(), &AnswerSubmission{
		LearnerID:  testLearner,
		QuestionID: 4,
		LevelID:    testLevel,
		TopicID:    testTopic,
		AnswerKind: "essay",
	})
	require.Error(t, err)

	events, listErr := repo.EventLog().EventsFor(context.Background(), testLearner, testLevel, testTopic)
	require.NoError(t, listErr)
	assert.Empty(t, events)
}

func TestEventService_RecordAnswerRejectsBadTimestamp(t *testing.T) {
	svc, _ := eventFixture()

	at := "yesterday"
	_, err := svc.RecordAnswer(context.Background(), &AnswerSubmission{
		LearnerID:  testLearner,
		QuestionID: 4,
		LevelID:    testLevel,
		TopicID:    testTopic,
		AnswerKind: string(models.AnswerKindChoice),
		Timestamp:  &at,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timestamp")
}
