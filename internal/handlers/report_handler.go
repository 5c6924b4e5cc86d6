package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/services"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves xlsx performance workbooks.
type ReportHandler struct {
	BaseHandler
	reports services.ReportService
}

func NewReportHandler(reports services.ReportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler: NewBaseHandler(logger),
		reports:     reports,
	}
}

// ExportLevelReport streams a level's workbook as an attachment. The
// path parameter accepts both "3" and "3.xlsx".
// @Summary Export level report
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param level path string true "Level ID, optionally suffixed .xlsx"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /reports/levels/{level} [get]
func (h *ReportHandler) ExportLevelReport(c *gin.Context) {
	raw := strings.TrimSuffix(c.Param("level"), ".xlsx")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid level",
			Details: "must be a positive integer",
		})
		return
	}
	levelID := uint(id)

	h.LogRequest(c, "Exporting level report", "level_id", levelID)

	data, err := h.reports.ExportLevelReport(c.Request.Context(), levelID)
	if err != nil {
		if errors.Is(err, services.ErrLevelNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Message: "Level not found",
			})
			return
		}
		h.LogError(c, err, "Report export failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
		return
	}

	filename := fmt.Sprintf("level_%d_report.xlsx", levelID)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
