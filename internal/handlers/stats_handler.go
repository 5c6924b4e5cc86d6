package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/services"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/utils"
)

// StatsHandler exposes cohort statistics, banding and recompute passes.
type StatsHandler struct {
	BaseHandler
	statistics services.StatisticsService
	recompute  services.RecomputeService
}

func NewStatsHandler(
	statistics services.StatisticsService,
	recompute services.RecomputeService,
	logger utils.Logger,
) *StatsHandler {
	return &StatsHandler{
		BaseHandler: NewBaseHandler(logger),
		statistics:  statistics,
		recompute:   recompute,
	}
}

// GetStatistics returns mean/sigma/sample_count for a pair, optionally
// banding a point value passed as ?points=
// @Summary Get cohort statistics
// @Tags statistics
// @Produce json
// @Param level path uint true "Level ID"
// @Param topic path uint true "Topic ID"
// @Param points query number false "Point value to band"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /stats/{level}/{topic} [get]
func (h *StatsHandler) GetStatistics(c *gin.Context) {
	levelID := parseUintParam(c, "level")
	if levelID == 0 {
		return
	}
	topicID := parseUintParam(c, "topic")
	if topicID == 0 {
		return
	}

	stats, err := h.statistics.GetStatistics(c.Request.Context(), levelID, topicID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response := gin.H{"statistics": stats}

	if pointsStr := c.Query("points"); pointsStr != "" {
		points, err := strconv.ParseFloat(pointsStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid points",
				Details: "must be a number",
			})
			return
		}
		band, ok := stats.Band(points)
		if ok {
			response["band"] = band
		} else {
			response["band"] = nil
		}
	}

	c.JSON(http.StatusOK, response)
}

// RecomputePair rebuilds one pair's scores, records and statistics
// @Summary Recompute a pair from the event log
// @Tags statistics
// @Produce json
// @Param level path uint true "Level ID"
// @Param topic path uint true "Topic ID"
// @Success 200 {object} services.RecomputeSummary
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /stats/{level}/{topic}/recompute [post]
func (h *StatsHandler) RecomputePair(c *gin.Context) {
	levelID := parseUintParam(c, "level")
	if levelID == 0 {
		return
	}
	topicID := parseUintParam(c, "topic")
	if topicID == 0 {
		return
	}

	h.LogRequest(c, "Recomputing pair", "level_id", levelID, "topic_id", topicID)

	summary, err := h.recompute.RecomputePair(c.Request.Context(), levelID, topicID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// RecomputeAll rebuilds every active pair from the event log
// @Summary Full recompute pass
// @Tags statistics
// @Produce json
// @Success 200 {object} services.RecomputeSummary
// @Failure 500 {object} ErrorResponse
// @Router /recompute [post]
func (h *StatsHandler) RecomputeAll(c *gin.Context) {
	h.LogRequest(c, "Recomputing all pairs")

	summary, err := h.recompute.RecomputeAll(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *StatsHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInsufficientData):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Insufficient data for statistics",
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
