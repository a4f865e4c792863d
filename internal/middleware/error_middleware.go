package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vemac/institute/internal/app/models/dto"
	"github.com/vemac/institute/internal/pkg/apperrors"
	"github.com/vemac/institute/internal/pkg/logger"
)

// MsgPersistenceFailure is shown whenever a write could not be stored
const MsgPersistenceFailure = "could not save; try again"

// HandleAPIError maps an error from the service layer onto the JSON error envelope
func HandleAPIError(c *gin.Context, err error) {
	status, detail := classify(err)

	log := logger.Ctx(c.Request.Context())
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("Request failed")
	} else {
		log.Debug().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("Request rejected")
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func classify(err error) (int, *dto.ErrorDetail) {
	var (
		ve *apperrors.ValidationError
		pe *apperrors.PersistenceError
	)

	switch {
	case errors.As(err, &ve):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, strings.Join(ve.Messages(), " ")).
			WithDetails(ve.Errors)
		if len(ve.Errors) > 0 {
			detail.WithField(ve.Errors[0].Field)
		}
		return http.StatusBadRequest, detail
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")

	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, messageOf(err, "Resource not found"))

	case errors.Is(err, apperrors.ErrAdmissionCodesExhausted):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeCapacityExhausted, apperrors.ErrAdmissionCodesExhausted.Message)
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, messageOf(err, "Resource already exists"))

	case errors.As(err, &pe):
		if pe.Retryable {
			return http.StatusServiceUnavailable, dto.NewErrorDetail(dto.ErrorCodeUnavailable, MsgPersistenceFailure)
		}
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeDatabaseError, MsgPersistenceFailure)
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, dto.NewErrorDetail(dto.ErrorCodeUnavailable, MsgPersistenceFailure)

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrAccountDisabled):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeAccountDisabled, "Account is disabled")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token has expired")
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, messageOf(err, "Permission denied"))

	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, messageOf(err, "Bad request"))

	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}

// messageOf prefers the message of a CustomError in the chain
func messageOf(err error, fallback string) string {
	var ce *apperrors.CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
