package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"fleetcli/internal/anomaly"
	apierrors "fleetcli/internal/errors"
	"fleetcli/internal/services"
)

// AnomalyHandler handles anomaly detection HTTP requests
type AnomalyHandler struct {
	service      *services.AnomalyService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewAnomalyHandler creates a new anomaly handler
func NewAnomalyHandler(service *services.AnomalyService, logger *slog.Logger) *AnomalyHandler {
	return &AnomalyHandler{
		service:      service,
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger),
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the anomaly routes
func (h *AnomalyHandler) RegisterRoutes(r chi.Router) {
	r.Route("/anomaly", func(r chi.Router) {
		r.Post("/detect", h.Detect)
	})
}

// DetectRequest is the payload of an anomaly detection request. The table
// arrives in flat form, exactly as exported from the source system.
type DetectRequest struct {
	Columns        []string   `json:"columns" validate:"required,min=3"`
	Rows           [][]string `json:"rows" validate:"required,min=1"`
	CategoryColumn string     `json:"category_column" validate:"required"`
	PeriodColumn   string     `json:"period_column" validate:"required"`
	MeasureColumn  string     `json:"measure_column" validate:"required"`
}

// DetectResponse carries the ranked anomaly report
type DetectResponse struct {
	Categories   int                       `json:"categories"`
	FlaggedCells int                       `json:"flagged_cells"`
	Summary      []anomaly.CategorySummary `json:"summary"`
	Detail       []anomaly.Cell            `json:"detail"`
}

// Detect runs anomaly detection over a table supplied in the request body
func (h *AnomalyHandler) Detect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req DetectRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid anomaly detect payload",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, validationAPIError(err))
		return
	}

	h.logger.InfoContext(ctx, "running anomaly detection",
		slog.Int("rows", len(req.Rows)),
		slog.String("category_column", req.CategoryColumn),
		slog.String("measure_column", req.MeasureColumn))

	tbl := anomaly.Table{Columns: req.Columns, Rows: req.Rows}
	report, err := h.service.Detect(ctx, tbl, req.CategoryColumn, req.PeriodColumn, req.MeasureColumn)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, &DetectResponse{
		Categories:   len(report.Summary),
		FlaggedCells: len(report.Detail),
		Summary:      report.Summary,
		Detail:       report.Detail,
	})
}
