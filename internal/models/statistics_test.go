package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopicLevelStatistics_Band(t *testing.T) {
	stats := &TopicLevelStatistics{Mean: 50, Sigma: 10, SampleCount: 20}

	cases := []struct {
		points float64
		want   PerformanceBand
	}{
		{71, BandWellAboveAverage},
		{70, BandWellAboveAverage},
		{65, BandAboveAverage},
		{60, BandAboveAverage},
		{55, BandHighAverage},
		{50, BandHighAverage},
		{45, BandLowAverage},
		{40, BandLowAverage},
		{35, BandBelowAverage},
		{30, BandBelowAverage},
		{29, BandWellBelowAverage},
		{0, BandWellBelowAverage},
	}
	for _, tc := range cases {
		band, ok := stats.Band(tc.points)
		assert.True(t, ok)
		assert.Equal(t, tc.want, band, "points=%v", tc.points)
	}
}

func TestTopicLevelStatistics_BandRefusesInsufficientData(t *testing.T) {
	stats := &TopicLevelStatistics{SampleCount: 1, InsufficientData: true}

	_, ok := stats.Band(42)
	assert.False(t, ok)
}

func TestAttempt_Countable(t *testing.T) {
	assert.True(t, (&Attempt{Class: AttemptComplete}).Countable())
	assert.True(t, (&Attempt{Class: AttemptPartialRetained}).Countable())
	assert.False(t, (&Attempt{Class: AttemptDiscardable}).Countable())
}

func TestAttempt_Accuracy(t *testing.T) {
	assert.InDelta(t, 0.9, (&Attempt{CorrectCount: 18, AnswerCount: 20}).Accuracy(), 1e-9)
	assert.Zero(t, (&Attempt{}).Accuracy())
}

func TestAnswerEvent_Malformed(t *testing.T) {
	valid := &AnswerEvent{LearnerID: "l", QuestionID: 1, LevelID: 2, TopicID: 3}
	assert.False(t, valid.Malformed())

	assert.True(t, (&AnswerEvent{QuestionID: 1, LevelID: 2, TopicID: 3}).Malformed())
	assert.True(t, (&AnswerEvent{LearnerID: "l", LevelID: 2, TopicID: 3}).Malformed())
	assert.True(t, (&AnswerEvent{LearnerID: "l", QuestionID: 1, TopicID: 3}).Malformed())
	assert.True(t, (&AnswerEvent{LearnerID: "l", QuestionID: 1, LevelID: 2}).Malformed())
}
