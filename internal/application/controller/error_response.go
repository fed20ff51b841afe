package controller

import (
	"errors"
	"net/http"

	"go-weather/internal/domain/apierror"
	"go-weather/internal/domain/model"
	"go-weather/pkg/log"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	errorInvalidRequest = "INVALID_REQUEST"
	errorNoData         = "NO_DATA"
	errorInternal       = "INTERNAL_ERROR"
)

// statusFor maps an error kind to the status returned to callers. Upstream
// authentication failures are our misconfiguration, not the caller's, so they
// surface as a bad gateway.
func statusFor(kind apierror.Kind) int {
	switch kind {
	case apierror.KindAddress, apierror.KindInvalidRequest:
		return http.StatusBadRequest
	case apierror.KindRateLimit:
		return http.StatusTooManyRequests
	case apierror.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// writeError renders err as {"error", "message"} without internal detail.
func writeError(c echo.Context, err error) error {
	if apiErr, ok := apierror.As(err); ok {
		return c.JSON(statusFor(apiErr.Kind), model.ErrorResponseDTO{
			Error:   apiErr.Kind.String(),
			Message: apiErr.Message,
		})
	}

	log.Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, model.ErrorResponseDTO{
		Error:   errorInternal,
		Message: "internal error",
	})
}

func writeValidationError(c echo.Context, err error) error {
	message := "invalid request"
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		first := validationErrors[0]
		message = "invalid value for " + first.Field() + " (" + first.Tag() + ")"
	}
	return c.JSON(http.StatusBadRequest, model.ErrorResponseDTO{Error: errorInvalidRequest, Message: message})
}

func writeNoData(c echo.Context) error {
	return c.JSON(http.StatusNotFound, model.ErrorResponseDTO{Error: errorNoData, Message: "no data available"})
}
