package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "fleetcli/internal/errors"
	"fleetcli/internal/pricing"
	"fleetcli/internal/services"
)

// PricingHandler handles pricing review HTTP requests
type PricingHandler struct {
	service      *services.PricingService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(service *services.PricingService, logger *slog.Logger) *PricingHandler {
	return &PricingHandler{
		service:      service,
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger),
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the pricing routes
func (h *PricingHandler) RegisterRoutes(r chi.Router) {
	r.Route("/pricing", func(r chi.Router) {
		r.Post("/review", h.ComputeReview)
	})
}

// ReviewRequest is the payload of a pricing review request
type ReviewRequest struct {
	Vehicles  []pricing.Vehicle                `json:"vehicles" validate:"required,min=1,dive"`
	Leadtimes map[string]pricing.LeadtimeEntry `json:"leadtimes" validate:"required"`
}

// ReviewResponse carries the scored review table
type ReviewResponse struct {
	Count int                 `json:"count"`
	Rows  []pricing.ReviewRow `json:"rows"`
}

// ComputeReview scores a fleet snapshot supplied in the request body
func (h *PricingHandler) ComputeReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ReviewRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid pricing review payload",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, validationAPIError(err))
		return
	}

	h.logger.InfoContext(ctx, "computing pricing review",
		slog.Int("vehicles", len(req.Vehicles)),
		slog.Int("leadtime_entries", len(req.Leadtimes)))

	rows, err := h.service.ComputeReview(ctx, req.Vehicles, req.Leadtimes)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, &ReviewResponse{
		Count: len(rows),
		Rows:  rows,
	})
}
