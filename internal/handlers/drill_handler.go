package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/drillgen"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/services"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/utils"
)

// DrillHandler exposes parametric question generation for Basic-Facts
// levels.
type DrillHandler struct {
	BaseHandler
	drill services.DrillService
}

func NewDrillHandler(drill services.DrillService, logger utils.Logger) *DrillHandler {
	return &DrillHandler{
		BaseHandler: NewBaseHandler(logger),
		drill:       drill,
	}
}

// ListTiers returns every difficulty tier with its constraints
// @Summary List drill tiers
// @Tags drill
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /drill/tiers [get]
func (h *DrillHandler) ListTiers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tiers": h.drill.ListTiers()})
}

// GenerateQuestions produces a fresh batch for one tier
// @Summary Generate drill questions
// @Tags drill
// @Produce json
// @Param tier path int true "Difficulty tier"
// @Param count query int false "Batch size (default 10, max 100)"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /drill/{tier}/questions [get]
func (h *DrillHandler) GenerateQuestions(c *gin.Context) {
	tierID := parseUintParam(c, "tier")
	if tierID == 0 {
		return
	}

	count := 0
	if countStr := c.Query("count"); countStr != "" {
		parsed, err := strconv.Atoi(countStr)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid count",
				Details: "must be a non-negative integer",
			})
			return
		}
		count = parsed
	}

	h.LogRequest(c, "Generating drill questions", "tier", tierID, "count", count)

	questions, err := h.drill.GenerateQuestions(drillgen.Tier(tierID), count)
	if err != nil {
		if errors.Is(err, services.ErrUnknownDrillTier) || errors.Is(err, drillgen.ErrUnknownTier) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Message: "Unknown drill tier",
			})
			return
		}
		h.LogError(c, err, "Drill generation failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tier":      tierID,
		"questions": questions,
	})
}
