package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/services"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/utils"
)

type HandlerManager struct {
	eventHandler   *EventHandler
	attemptHandler *AttemptHandler
	statsHandler   *StatsHandler
	drillHandler   *DrillHandler
	reportHandler  *ReportHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *utils.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		eventHandler: NewEventHandler(serviceManager.Events(), logger),
		attemptHandler: NewAttemptHandler(
			serviceManager.Reconstruction(),
			serviceManager.Scoring(),
			serviceManager.Records(),
			validator,
			logger,
		),
		statsHandler:  NewStatsHandler(serviceManager.Statistics(), serviceManager.Recompute(), logger),
		drillHandler:  NewDrillHandler(serviceManager.Drill(), logger),
		reportHandler: NewReportHandler(serviceManager.Reports(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Answer event ingest
		v1.POST("/events", hm.eventHandler.RecordAnswer)

		// Learner attempt routes
		learners := v1.Group("/learners")
		{
			learners.GET("/:id/levels/:level/topics/:topic/attempts", hm.attemptHandler.GetAttempts)
			learners.GET("/:id/levels/:level/topics/:topic/best", hm.attemptHandler.GetBestRecord)
		}

		// Score submission
		v1.POST("/scores", hm.attemptHandler.SubmitScores)

		// Statistics routes
		stats := v1.Group("/stats")
		{
			stats.GET("/:level/:topic", hm.statsHandler.GetStatistics)
			stats.POST("/:level/:topic/recompute", hm.statsHandler.RecomputePair)
		}
		v1.POST("/recompute", hm.statsHandler.RecomputeAll)

		// Drill question generation
		drill := v1.Group("/drill")
		{
			drill.GET("/tiers", hm.drillHandler.ListTiers)
			drill.GET("/:tier/questions", hm.drillHandler.GenerateQuestions)
		}

		// Report export
		v1.GET("/reports/levels/:level", hm.reportHandler.ExportLevelReport)
	}
}
