package services

import (
	"log/slog"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/cache"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/config"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/events"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/repositories"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/utils"
)

// ServiceManager bundles the engine's services for handler wiring.
type ServiceManager interface {
	Events() EventService
	Reconstruction() ReconstructionService
	Scoring() ScoringService
	Records() RecordService
	Statistics() StatisticsService
	Recompute() RecomputeService
	Drill() DrillService
	Reports() ReportService
}

type serviceManager struct {
	events         EventService
	reconstruction ReconstructionService
	scoring        ScoringService
	records        RecordService
	statistics     StatisticsService
	recompute      RecomputeService
	drill          DrillService
	reports        ReportService
}

func NewServiceManager(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	cfg config.ReconciliationConfig,
	logger *slog.Logger,
) ServiceManager {
	reconstruction := NewReconstructionService(repo, cfg, logger)
	scoring := NewScoringService(repo, cfg, logger)
	records := NewRecordService(repo, cacheService, publisher, logger)
	statistics := NewStatisticsService(repo, cacheService, publisher, cfg, logger)
	recompute := NewRecomputeService(repo, reconstruction, scoring, records, statistics, cfg, logger)

	return &serviceManager{
		events:         NewEventService(repo, utils.NewValidator(), logger),
		reconstruction: reconstruction,
		scoring:        scoring,
		records:        records,
		statistics:     statistics,
		recompute:      recompute,
		drill:          NewDrillService(logger),
		reports:        NewReportService(repo, statistics, logger),
	}
}

func (m *serviceManager) Events() EventService                  { return m.events }
func (m *serviceManager) Reconstruction() ReconstructionService { return m.reconstruction }
func (m *serviceManager) Scoring() ScoringService               { return m.scoring }
func (m *serviceManager) Records() RecordService                { return m.records }
func (m *serviceManager) Statistics() StatisticsService         { return m.statistics }
func (m *serviceManager) Recompute() RecomputeService           { return m.recompute }
func (m *serviceManager) Drill() DrillService                   { return m.drill }
func (m *serviceManager) Reports() ReportService                { return m.reports }
