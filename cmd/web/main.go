// Command web serves the analytics API: pricing review and anomaly
// detection over HTTP, plus health and Prometheus metrics endpoints.
package main

import (
	"log/slog"
	"os"

	"fleetcli/internal/app"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application exited with error", "error", err)
		os.Exit(1)
	}
}
