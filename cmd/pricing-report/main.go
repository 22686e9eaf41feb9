// Command pricing-report scores a fleet snapshot and writes the pricing
// review workbook.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"fleetcli/internal/config"
	"fleetcli/internal/exporter"
	"fleetcli/internal/files"
	"fleetcli/internal/infrastructure"
	"fleetcli/internal/pricing"
	"fleetcli/internal/services"
)

func main() {
	stockPath := flag.String("stock", "", "path to the vehicle stock CSV export (defaults to newest CSV in the data dir)")
	leadtimePath := flag.String("leadtime", "", "path to the leadtime xlsx workbook (defaults to newest xlsx in the data dir)")
	workbookOut := flag.String("out", "revision_pricing_web.xlsx", "output workbook path")
	csvOut := flag.String("csv", "", "optional CSV copy of the review")
	flag.Parse()

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

	discovery := files.NewDiscovery(cfg.Paths.DataDir)
	if *stockPath == "" {
		found, err := discovery.LatestCSV(".")
		if err != nil {
			logger.Error("no stock export found", "data_dir", cfg.Paths.DataDir, "error", err)
			os.Exit(1)
		}
		*stockPath = found.Path
		logger.Info("using newest stock export", "path", *stockPath)
	}
	if *leadtimePath == "" {
		found, err := discovery.LatestExcel(".")
		if err != nil {
			logger.Error("no leadtime workbook found", "data_dir", cfg.Paths.DataDir, "error", err)
			os.Exit(1)
		}
		*leadtimePath = found.Path
		logger.Info("using newest leadtime workbook", "path", *leadtimePath)
	}

	params := pricing.Params{
		ReferenceYear: cfg.Analytics.ReferenceYear,
		CurrentDay:    time.Now().Day(),
	}

	svc := services.NewPricingService(params,
		exporter.NewCSVWriter(cfg.Paths),
		exporter.NewExcelWriter(logger),
		logger)

	ctx := infrastructure.EnsureTraceID(context.Background())
	rows, err := svc.RunFromFiles(ctx, *stockPath, *leadtimePath, *workbookOut, *csvOut)
	if err != nil {
		logger.ErrorContext(ctx, "pricing review failed", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "pricing review written",
		"rows", len(rows),
		"workbook", *workbookOut)
}
