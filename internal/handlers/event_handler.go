package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/services"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/utils"
)

// EventHandler appends answer events reported by the quiz UI.
type EventHandler struct {
	BaseHandler
	events services.EventService
}

func NewEventHandler(events services.EventService, logger utils.Logger) *EventHandler {
	return &EventHandler{
		BaseHandler: NewBaseHandler(logger),
		events:      events,
	}
}

// RecordAnswer appends one answer event to the log
// @Summary Record an answer event
// @Tags events
// @Accept json
// @Produce json
// @Param event body services.AnswerSubmission true "Answer event"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /events [post]
func (h *EventHandler) RecordAnswer(c *gin.Context) {
	var submission services.AnswerSubmission
	if err := c.ShouldBindJSON(&submission); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Recording answer event",
		"learner_id", submission.LearnerID,
		"question_id", submission.QuestionID)

	event, err := h.events.RecordAnswer(c.Request.Context(), &submission)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	h.LogError(c, err, "Failed to record answer event")
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Message: "Internal server error",
	})
}
