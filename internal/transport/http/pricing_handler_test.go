package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetcli/internal/config"
	"fleetcli/internal/exporter"
	"fleetcli/internal/pricing"
	"fleetcli/internal/services"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPricingRouter(t *testing.T) chi.Router {
	t.Helper()

	paths := config.PathsConfig{DataDir: t.TempDir(), ReportsDir: t.TempDir()}
	service := services.NewPricingService(
		pricing.Params{ReferenceYear: 2024, CurrentDay: 15},
		exporter.NewCSVWriter(paths),
		exporter.NewExcelWriter(discardLogger()),
		discardLogger(),
	)

	r := chi.NewRouter()
	NewPricingHandler(service, discardLogger()).RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, router chi.Router, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPricingHandlerComputeReview(t *testing.T) {
	router := newPricingRouter(t)

	t.Run("valid payload returns the scored review", func(t *testing.T) {
		rec := postJSON(t, router, "/pricing/review", ReviewRequest{
			Vehicles: []pricing.Vehicle{
				{Plate: "1111AAA", Brand: "HONDA", Model: "PCX", ModelYear: 2023, Mileage: 5000, BasePrice: 3000},
				{Plate: "2222BBB", Brand: "HONDA", Model: "PCX", ModelYear: 2023, Mileage: 6000, BasePrice: 2900},
			},
			Leadtimes: map[string]pricing.LeadtimeEntry{
				"1111AAA": {LeadtimeDays: 30, PurchaseCost: 2000},
			},
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp ReviewResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 2, resp.Count)
		require.Len(t, resp.Rows, 2)

		for i := 1; i < len(resp.Rows); i++ {
			assert.GreaterOrEqual(t, resp.Rows[i-1].AdjustmentScore, resp.Rows[i].AdjustmentScore)
		}
	})

	t.Run("malformed JSON is a 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/pricing/review", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_REQUEST")
	})

	t.Run("empty fleet fails validation", func(t *testing.T) {
		rec := postJSON(t, router, "/pricing/review", ReviewRequest{
			Vehicles:  []pricing.Vehicle{},
			Leadtimes: map[string]pricing.LeadtimeEntry{},
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
		assert.Contains(t, rec.Body.String(), "vehicles")
	})

	t.Run("missing leadtimes fails validation", func(t *testing.T) {
		rec := postJSON(t, router, "/pricing/review", map[string]interface{}{
			"vehicles": []pricing.Vehicle{{Plate: "1111AAA", Model: "PCX", ModelYear: 2023}},
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "leadtimes")
	})
}
