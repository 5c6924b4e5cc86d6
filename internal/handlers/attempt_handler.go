package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/services"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/utils"
)

// AttemptHandler exposes attempt reconstruction and score submission.
type AttemptHandler struct {
	BaseHandler
	reconstruction services.ReconstructionService
	scoring        services.ScoringService
	records        services.RecordService
	validator      *utils.Validator
}

func NewAttemptHandler(
	reconstruction services.ReconstructionService,
	scoring services.ScoringService,
	records services.RecordService,
	validator *utils.Validator,
	logger utils.Logger,
) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		reconstruction: reconstruction,
		scoring:        scoring,
		records:        records,
		validator:      validator,
	}
}

// SubmitScoresRequest asks the engine to reconstruct and score every
// attempt a learner has on one (level, topic).
type SubmitScoresRequest struct {
	LearnerID string `json:"learner_id" validate:"required"`
	LevelID   uint   `json:"level_id" validate:"required"`
	TopicID   uint   `json:"topic_id" validate:"required"`
}

// SubmitScoresResponse reports every countable attempt's submission
// outcome plus how many attempts were too fragmentary to score.
type SubmitScoresResponse struct {
	Results   []*services.SubmitResult `json:"results"`
	Discarded int                      `json:"discarded"`
}

// GetAttempts returns the learner's reconstructed attempts for a pair
// @Summary List reconstructed attempts
// @Tags attempts
// @Produce json
// @Param id path string true "Learner ID"
// @Param level path uint true "Level ID"
// @Param topic path uint true "Topic ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /learners/{id}/levels/{level}/topics/{topic}/attempts [get]
func (h *AttemptHandler) GetAttempts(c *gin.Context) {
	learnerID := ParseStringIDParam(c, "id")
	if learnerID == "" {
		return
	}
	levelID := parseUintParam(c, "level")
	if levelID == 0 {
		return
	}
	topicID := parseUintParam(c, "topic")
	if topicID == 0 {
		return
	}

	h.LogRequest(c, "Listing reconstructed attempts",
		"learner_id", learnerID,
		"level_id", levelID,
		"topic_id", topicID)

	attempts, err := h.reconstruction.ReconstructAttempts(c.Request.Context(), learnerID, levelID, topicID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"learner_id": learnerID,
		"level_id":   levelID,
		"topic_id":   topicID,
		"attempts":   attempts,
	})
}

// SubmitScores reconstructs, scores and submits a learner's attempts
// @Summary Submit scores for a learner's pair
// @Tags scores
// @Accept json
// @Produce json
// @Param submission body SubmitScoresRequest true "Submission target"
// @Success 200 {object} SubmitScoresResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /scores [post]
func (h *AttemptHandler) SubmitScores(c *gin.Context) {
	var req SubmitScoresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Submitting scores",
		"learner_id", req.LearnerID,
		"level_id", req.LevelID,
		"topic_id", req.TopicID)

	attempts, err := h.reconstruction.ReconstructAttempts(c.Request.Context(), req.LearnerID, req.LevelID, req.TopicID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	resp := &SubmitScoresResponse{Results: []*services.SubmitResult{}}
	for _, attempt := range attempts {
		record, err := h.scoring.ScoreAttempt(c.Request.Context(), attempt)
		if err != nil {
			if services.IsNotScorable(err) {
				resp.Discarded++
				continue
			}
			h.handleServiceError(c, err)
			return
		}

		result, err := h.records.Submit(c.Request.Context(), record)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		resp.Results = append(resp.Results, result)
	}

	c.JSON(http.StatusOK, resp)
}

// GetBestRecord returns the learner's standing best for a pair
// @Summary Get best record
// @Tags scores
// @Produce json
// @Router /learners/{id}/levels/{level}/topics/{topic}/best [get]
func (h *AttemptHandler) GetBestRecord(c *gin.Context) {
	learnerID := ParseStringIDParam(c, "id")
	if learnerID == "" {
		return
	}
	levelID := parseUintParam(c, "level")
	if levelID == 0 {
		return
	}
	topicID := parseUintParam(c, "topic")
	if topicID == 0 {
		return
	}

	best, err := h.records.GetBest(c.Request.Context(), learnerID, levelID, topicID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, best)
}

func (h *AttemptHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrLevelNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Level not found",
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
		})
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
