package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"fleetcli/internal/dataprocessing"
	apperrors "fleetcli/internal/errors"
	"fleetcli/internal/exporter"
	"fleetcli/internal/infrastructure"
	"fleetcli/internal/pricing"
)

// PricingService runs the pricing review pipeline end to end
type PricingService struct {
	engine *pricing.Engine
	csv    *exporter.CSVWriter
	excel  *exporter.ExcelWriter
	logger *slog.Logger
}

// NewPricingService creates a new pricing service
func NewPricingService(params pricing.Params, csv *exporter.CSVWriter, excel *exporter.ExcelWriter, logger *slog.Logger) *PricingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PricingService{
		engine: pricing.NewEngine(params, logger),
		csv:    csv,
		excel:  excel,
		logger: logger,
	}
}

// ComputeReview scores an already-loaded fleet snapshot. Used by the HTTP
// surface, where the inputs arrive in the request body.
func (s *PricingService) ComputeReview(ctx context.Context, vehicles []pricing.Vehicle, leadtimes map[string]pricing.LeadtimeEntry) ([]pricing.ReviewRow, error) {
	start := time.Now()

	rows, err := s.engine.ComputeReview(ctx, vehicles, leadtimes)
	infrastructure.ObservePipelineRun("pricing", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, err
	}
	infrastructure.PipelineRecordsProcessed.WithLabelValues("pricing").Add(float64(len(vehicles)))

	return rows, nil
}

// RunFromFiles loads the stock CSV and the leadtime workbook, scores the
// fleet, and writes the review workbook plus a CSV copy to the reports
// directory.
func (s *PricingService) RunFromFiles(ctx context.Context, stockPath, leadtimePath, workbookPath, csvPath string) ([]pricing.ReviewRow, error) {
	logger := infrastructure.LoggerWithContext(ctx, s.logger)

	vehicles, err := s.loadVehicles(stockPath)
	if err != nil {
		return nil, err
	}
	leadtimes, err := s.loadLeadtimes(leadtimePath)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "pricing inputs loaded",
		slog.String("stock_path", stockPath),
		slog.String("leadtime_path", leadtimePath),
		slog.Int("vehicles", len(vehicles)),
		slog.Int("leadtime_entries", len(leadtimes)))

	rows, err := s.ComputeReview(ctx, vehicles, leadtimes)
	if err != nil {
		return nil, err
	}

	if workbookPath != "" {
		if err := s.excel.WritePricingWorkbook(workbookPath, rows); err != nil {
			return nil, apperrors.NewProcessingError("pricing workbook export", err)
		}
	}
	if csvPath != "" {
		if err := s.csv.WritePricingCSV(csvPath, rows); err != nil {
			return nil, apperrors.NewProcessingError("pricing CSV export", err)
		}
	}

	logger.InfoContext(ctx, "pricing review exported",
		slog.String("workbook_path", workbookPath),
		slog.String("csv_path", csvPath),
		slog.Int("rows", len(rows)))

	return rows, nil
}

func (s *PricingService) loadVehicles(path string) ([]pricing.Vehicle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewProcessingError("open stock export", fmt.Errorf("open %s: %w", path, err))
	}
	defer f.Close()
	return dataprocessing.LoadVehicles(f)
}

func (s *PricingService) loadLeadtimes(path string) (map[string]pricing.LeadtimeEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewProcessingError("open leadtime workbook", fmt.Errorf("open %s: %w", path, err))
	}
	defer f.Close()
	return dataprocessing.LoadLeadtimes(f)
}
