package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/repositories"
)

// ReportService exports per-level performance workbooks for teachers:
// one sheet of per-topic cohort statistics, one of best records.
type ReportService interface {
	ExportLevelReport(ctx context.Context, levelID uint) ([]byte, error)
}

type reportService struct {
	repo       repositories.Repository
	statistics StatisticsService
	logger     *slog.Logger
}

func NewReportService(repo repositories.Repository, statistics StatisticsService, logger *slog.Logger) ReportService {
	return &reportService{
		repo:       repo,
		statistics: statistics,
		logger:     logger,
	}
}

func (s *reportService) ExportLevelReport(ctx context.Context, levelID uint) ([]byte, error) {
	level, err := s.repo.QuestionStore().GetLevel(ctx, levelID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to get level: %w", err)
	}

	topics, err := s.repo.BestRecords().TopicsForLevel(ctx, levelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics for level: %w", err)
	}

	f := excelize.NewFile()

	if err := s.writeStatisticsSheet(ctx, f, levelID, topics); err != nil {
		return nil, err
	}
	if err := s.writeBestRecordsSheet(ctx, f, levelID); err != nil {
		return nil, err
	}

	// Drop the default sheet so the workbook opens on statistics.
	f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported level report",
		"level_id", levelID,
		"level_name", level.Name,
		"topics", len(topics))
	return buf.Bytes(), nil
}

func (s *reportService) writeStatisticsSheet(ctx context.Context, f *excelize.File, levelID uint, topics []uint) error {
	sheetName := "Statistics"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"Topic ID", "Sample Count", "Mean", "Sigma",
		"Mean -2σ", "Mean -1σ", "Mean +1σ", "Mean +2σ", "Insufficient Data",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, topicID := range topics {
		stats, err := s.statistics.GetStatistics(ctx, levelID, topicID)
		if err != nil {
			return fmt.Errorf("failed to get statistics for topic %d: %w", topicID, err)
		}

		row := []interface{}{
			stats.TopicID,
			stats.SampleCount,
			stats.Mean,
			stats.Sigma,
			stats.Mean - 2*stats.Sigma,
			stats.Mean - stats.Sigma,
			stats.Mean + stats.Sigma,
			stats.Mean + 2*stats.Sigma,
			stats.InsufficientData,
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}
	return nil
}

func (s *reportService) writeBestRecordsSheet(ctx context.Context, f *excelize.File, levelID uint) error {
	sheetName := "Best Records"

	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	headers := []string{
		"Learner ID", "Topic ID", "Points", "Correct", "Answered",
		"Elapsed (s)", "Achieved At",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	filters := repositories.BestRecordFilters{
		LevelID:   &levelID,
		SortBy:    "points",
		SortOrder: "desc",
		Limit:     10000,
	}
	records, _, err := s.repo.BestRecords().List(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list best records: %w", err)
	}

	for rowIndex, record := range records {
		row := []interface{}{
			record.LearnerID,
			record.TopicID,
			record.Points,
			record.CorrectCount,
			record.AnswerCount,
			record.ElapsedSeconds,
			record.AchievedAt.Format("2006-01-02 15:04:05"),
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}
	return nil
}
