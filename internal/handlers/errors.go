package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/disbursement_app/internal/apperrors"
	"github.com/SscSPs/disbursement_app/internal/dto"
	"github.com/SscSPs/disbursement_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// errorStatus maps a service error onto its HTTP status and envelope code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict, "conflict"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperrors.ErrStorage):
		return http.StatusServiceUnavailable, "storage_unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// respondError writes the error envelope for err. Internal failures are logged and
// replaced by fallback so infrastructure details never reach the client.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status, code := errorStatus(err)

	body := dto.ErrorBody{Code: code, Message: err.Error()}
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		body.Message = "The given data was invalid."
		body.Fields = verr.Fields
	}

	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		body.Message = fallback
	} else {
		logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	}

	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: body})
}

// respondBindError writes a 400 for a request that failed binding or validation.
func respondBindError(c *gin.Context, err error) {
	respondError(c, bindingError(err), "Invalid request")
}

func abortUnauthenticated(c *gin.Context) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Error("Actor not found in context")
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: dto.ErrorBody{Code: "unauthorized", Message: "Unauthorized"},
	})
}
