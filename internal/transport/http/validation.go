package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "fleetcli/internal/errors"
)

// validationAPIError converts validator failures into a 400 response that
// names every offending field
func validationAPIError(err error) *apierrors.APIError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierrors.ErrValidationFailed
	}

	details := make([]apierrors.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, apierrors.ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: "failed validation rule: " + fe.Tag(),
		})
	}

	return apierrors.NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED",
		"Request validation failed", details)
}
