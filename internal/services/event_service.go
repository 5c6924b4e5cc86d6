package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/errors"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/models"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/repositories"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/utils"
)

// AnswerSubmission is one answer event as the quiz UI reports it.
type AnswerSubmission struct {
	LearnerID      string  `json:"learner_id" validate:"required"`
	QuestionID     uint    `json:"question_id" validate:"required"`
	LevelID        uint    `json:"level_id" validate:"required"`
	TopicID        uint    `json:"topic_id" validate:"required"`
	IsCorrect      bool    `json:"is_correct"`
	AttemptGroupID string  `json:"attempt_group_id" validate:"omitempty,max=64"`
	ElapsedSeconds int     `json:"elapsed_seconds" validate:"gte=0"`
	AnswerKind     string  `json:"answer_kind" validate:"required,answer_kind"`
	SelectedOption string  `json:"selected_option"`
	AnswerText     string  `json:"answer_text"`
	TimeSpent      int     `json:"time_spent" validate:"gte=0"`
	Timestamp      *string `json:"timestamp"`
}

// EventService appends answer events to the log. Correctness is decided
// upstream by the quiz UI; the engine records it as reported.
type EventService interface {
	RecordAnswer(ctx context.Context, submission *AnswerSubmission) (*models.AnswerEvent, error)
}

type eventService struct {
	repo      repositories.Repository
	validator *utils.Validator
	logger    *slog.Logger
}

func NewEventService(repo repositories.Repository, validator *utils.Validator, logger *slog.Logger) EventService {
	return &eventService{
		repo:      repo,
		validator: validator,
		logger:    logger,
	}
}

func (s *eventService) RecordAnswer(ctx context.Context, submission *AnswerSubmission) (*models.AnswerEvent, error) {
	if err := s.validator.Validate(submission); err != nil {
		return nil, err
	}

	payload := models.AnswerPayload{Kind: models.AnswerKind(submission.AnswerKind)}
	switch payload.Kind {
	case models.AnswerKindChoice:
		payload.Choice = &models.ChoiceAnswer{
			SelectedOption: submission.SelectedOption,
			TimeSpent:      submission.TimeSpent,
		}
	case models.AnswerKindShort:
		payload.Short = &models.ShortAnswer{
			Text:      submission.AnswerText,
			TimeSpent: submission.TimeSpent,
		}
	}

	answer, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answer payload: %w", err)
	}

	event := &models.AnswerEvent{
		LearnerID:      submission.LearnerID,
		QuestionID:     submission.QuestionID,
		LevelID:        submission.LevelID,
		TopicID:        submission.TopicID,
		IsCorrect:      submission.IsCorrect,
		AttemptGroupID: submission.AttemptGroupID,
		ElapsedSeconds: submission.ElapsedSeconds,
		Answer:         answer,
	}

	// The UI may report its own event time; otherwise receipt time is
	// the event time.
	if submission.Timestamp != nil {
		at, err := time.Parse(time.RFC3339, *submission.Timestamp)
		if err != nil {
			return nil, apperrors.ValidationErrors{*apperrors.NewValidationError("timestamp", "must be RFC3339", *submission.Timestamp)}
		}
		event.CreatedAt = at
	}

	if err := s.repo.EventLog().Append(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to append answer event: %w", err)
	}

	s.logger.Debug("Recorded answer event",
		"learner_id", event.LearnerID,
		"question_id", event.QuestionID,
		"group_id", event.AttemptGroupID)
	return event, nil
}
