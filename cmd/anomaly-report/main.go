// Command anomaly-report runs category-month anomaly detection over a
// flat CSV export and writes the ranked summary and detail reports.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"fleetcli/internal/anomaly"
	"fleetcli/internal/config"
	"fleetcli/internal/exporter"
	"fleetcli/internal/files"
	"fleetcli/internal/infrastructure"
	"fleetcli/internal/services"
)

func main() {
	inputPath := flag.String("in", "", "path to the flat CSV export (defaults to newest CSV in the data dir)")
	categoryCol := flag.String("category", "", "name of the category column (required)")
	periodCol := flag.String("period", "", "name of the period column (required)")
	measureCol := flag.String("measure", "", "name of the numeric measure column (required)")
	summaryOut := flag.String("summary", "anomaly_summary.csv", "output path of the category summary")
	detailOut := flag.String("detail", "anomaly_detail.csv", "output path of the flagged-cell detail")
	flag.Parse()

	if *categoryCol == "" || *periodCol == "" || *measureCol == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	if *inputPath == "" {
		found, err := files.NewDiscovery(cfg.Paths.DataDir).LatestCSV(".")
		if err != nil {
			logger.Error("no input CSV found", "data_dir", cfg.Paths.DataDir, "error", err)
			os.Exit(1)
		}
		*inputPath = found.Path
		logger.Info("using newest input CSV", "path", *inputPath)
	}

	thresholds := anomaly.Thresholds{
		ZScore:     cfg.Analytics.ZThreshold,
		PctChange:  cfg.Analytics.PctThreshold,
		NoiseFloor: cfg.Analytics.NoiseFloor,
	}

	svc := services.NewAnomalyService(thresholds, cfg.Analytics.PeriodVocabulary,
		exporter.NewCSVWriter(cfg.Paths), logger)

	ctx := infrastructure.EnsureTraceID(context.Background())
	report, err := svc.RunFromFile(ctx, *inputPath, *categoryCol, *periodCol, *measureCol, *summaryOut, *detailOut)
	if err != nil {
		logger.ErrorContext(ctx, "anomaly detection failed", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "anomaly report written",
		"categories", len(report.Summary),
		"flagged_cells", len(report.Detail),
		"summary", *summaryOut,
		"detail", *detailOut)
}
