package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"fleetcli/internal/anomaly"
	"fleetcli/internal/dataprocessing"
	apperrors "fleetcli/internal/errors"
	"fleetcli/internal/exporter"
	"fleetcli/internal/infrastructure"
)

// AnomalyService runs the category-month anomaly pipeline end to end
type AnomalyService struct {
	detector   *anomaly.Detector
	vocabulary []string
	csv        *exporter.CSVWriter
	logger     *slog.Logger
}

// NewAnomalyService creates a new anomaly service. An empty vocabulary
// falls back to the default Spanish month abbreviations.
func NewAnomalyService(thresholds anomaly.Thresholds, vocabulary []string, csv *exporter.CSVWriter, logger *slog.Logger) *AnomalyService {
	if logger == nil {
		logger = slog.Default()
	}
	if len(vocabulary) == 0 {
		vocabulary = anomaly.DefaultPeriodVocabulary
	}
	return &AnomalyService{
		detector:   anomaly.NewDetector(thresholds, logger),
		vocabulary: vocabulary,
		csv:        csv,
		logger:     logger,
	}
}

// Detect pivots a raw table into the category-month matrix and runs
// detection over it
func (s *AnomalyService) Detect(ctx context.Context, tbl anomaly.Table, categoryCol, periodCol, measureCol string) (*anomaly.Report, error) {
	start := time.Now()

	report, err := s.detect(ctx, tbl, categoryCol, periodCol, measureCol)
	infrastructure.ObservePipelineRun("anomaly", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, err
	}
	infrastructure.PipelineRecordsProcessed.WithLabelValues("anomaly").Add(float64(len(tbl.Rows)))

	return report, nil
}

func (s *AnomalyService) detect(ctx context.Context, tbl anomaly.Table, categoryCol, periodCol, measureCol string) (*anomaly.Report, error) {
	matrix, err := anomaly.BuildMatrix(tbl, categoryCol, periodCol, measureCol, s.vocabulary)
	if err != nil {
		return nil, err
	}
	return s.detector.Detect(ctx, matrix)
}

// RunFromFile loads a flat CSV, runs detection, and writes the ranked
// summary and detail reports
func (s *AnomalyService) RunFromFile(ctx context.Context, inputPath, categoryCol, periodCol, measureCol, summaryPath, detailPath string) (*anomaly.Report, error) {
	logger := infrastructure.LoggerWithContext(ctx, s.logger)

	f, err := os.Open(inputPath)
	if err != nil {
		return nil, apperrors.NewProcessingError("open anomaly input", fmt.Errorf("open %s: %w", inputPath, err))
	}
	defer f.Close()

	tbl, err := dataprocessing.ParseTableCSV(f)
	if err != nil {
		return nil, apperrors.NewProcessingError("anomaly input parse", err)
	}

	logger.InfoContext(ctx, "anomaly input loaded",
		slog.String("input_path", inputPath),
		slog.Int("rows", len(tbl.Rows)))

	report, err := s.Detect(ctx, tbl, categoryCol, periodCol, measureCol)
	if err != nil {
		return nil, err
	}

	if summaryPath != "" || detailPath != "" {
		if err := s.csv.WriteAnomalyReport(summaryPath, detailPath, report); err != nil {
			return nil, apperrors.NewProcessingError("anomaly report export", err)
		}
	}

	logger.InfoContext(ctx, "anomaly report exported",
		slog.String("summary_path", summaryPath),
		slog.String("detail_path", detailPath),
		slog.Int("flagged_cells", len(report.Detail)),
		slog.Int("categories", len(report.Summary)))

	return report, nil
}
