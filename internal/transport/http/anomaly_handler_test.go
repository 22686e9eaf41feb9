package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetcli/internal/anomaly"
	"fleetcli/internal/config"
	"fleetcli/internal/exporter"
	"fleetcli/internal/services"
)

func newAnomalyRouter(t *testing.T) chi.Router {
	t.Helper()

	paths := config.PathsConfig{DataDir: t.TempDir(), ReportsDir: t.TempDir()}
	service := services.NewAnomalyService(
		anomaly.DefaultThresholds(),
		[]string{"ene", "feb", "mar", "abr", "may", "jun"},
		exporter.NewCSVWriter(paths),
		discardLogger(),
	)

	r := chi.NewRouter()
	NewAnomalyHandler(service, discardLogger()).RegisterRoutes(r)
	return r
}

func detectPayload() DetectRequest {
	return DetectRequest{
		Columns: []string{"cuenta", "mes", "importe"},
		Rows: [][]string{
			{"ventas", "ene", "100"},
			{"ventas", "feb", "100"},
			{"ventas", "mar", "100"},
			{"ventas", "abr", "40"},
			{"ventas", "may", "100"},
			{"ventas", "jun", "100"},
		},
		CategoryColumn: "cuenta",
		PeriodColumn:   "mes",
		MeasureColumn:  "importe",
	}
}

func TestAnomalyHandlerDetect(t *testing.T) {
	router := newAnomalyRouter(t)

	t.Run("valid payload returns the ranked report", func(t *testing.T) {
		rec := postJSON(t, router, "/anomaly/detect", detectPayload())

		require.Equal(t, http.StatusOK, rec.Code)

		var resp DetectResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

		assert.Equal(t, 1, resp.Categories)
		assert.Equal(t, len(resp.Detail), resp.FlaggedCells)
		require.NotEmpty(t, resp.Detail)
		assert.Equal(t, "ventas", resp.Detail[0].Category)

		periods := map[string]bool{}
		for _, cell := range resp.Detail {
			periods[cell.Period] = true
		}
		assert.True(t, periods["abr"])
	})

	t.Run("unknown measure column maps to a schema error", func(t *testing.T) {
		payload := detectPayload()
		payload.MeasureColumn = "total"

		rec := postJSON(t, router, "/anomaly/detect", payload)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "SCHEMA_ERROR")
		assert.Contains(t, rec.Body.String(), "total")
	})

	t.Run("too few columns fails validation", func(t *testing.T) {
		payload := detectPayload()
		payload.Columns = []string{"cuenta", "importe"}

		rec := postJSON(t, router, "/anomaly/detect", payload)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
		assert.Contains(t, rec.Body.String(), "columns")
	})

	t.Run("missing rows fails validation", func(t *testing.T) {
		payload := detectPayload()
		payload.Rows = nil

		rec := postJSON(t, router, "/anomaly/detect", payload)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "rows")
	})
}
