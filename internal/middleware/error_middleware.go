package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authz "github.com/yigit/clubportal/internal/app/auth"
	"github.com/yigit/clubportal/internal/app/models/dto"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
	"github.com/yigit/clubportal/internal/pkg/logger"
)

// HandleAPIError writes the error envelope matching err
func HandleAPIError(c *gin.Context, err error) {
	status, detail := describeError(err)

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
		if gin.Mode() != gin.ReleaseMode {
			detail = detail.WithDebugInfo("%v", err)
		}
	}

	resp := dto.NewErrorResponse(detail)
	if status == http.StatusUnauthorized {
		resp = resp.WithRedirect(LoginPath)
	}
	c.JSON(status, resp)
}

func describeError(err error) (int, *dto.ErrorDetail) {
	var verr *apperrors.ValidationError
	var dup *apperrors.DuplicateError
	var custom *apperrors.CustomError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
			WithFields(verr.Fields)
	case errors.As(err, &dup):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, dup.Message).
			WithField(dup.Field).
			WithFields(map[string]string{dup.Field: dup.Message})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, apperrors.ErrInvalidCredentials.Error())
	case errors.Is(err, apperrors.ErrAccountNotApproved):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeNotApproved, apperrors.ErrAccountNotApproved.Error()).
			WithSeverity(dto.ErrorSeverityWarning)
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token has expired")
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrTokenRevoked):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	case errors.Is(err, authz.ErrAdminOnly):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeAdminOnly, authz.ErrAdminOnly.Message)
	case errors.Is(err, authz.ErrNotClub):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeNotClub, authz.ErrNotClub.Message)
	case errors.Is(err, authz.ErrClubNotApproved):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeClubNotApproved, authz.ErrClubNotApproved.Message)
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, messageOr(custom, err, "Permission denied"))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, messageOr(custom, err, "Resource not found"))
	case errors.Is(err, apperrors.ErrStorage):
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeStorageError, "File storage failed")
	case errors.As(err, &custom) && custom.Message != "":
		// the message is user-facing, the wrapped cause is only logged
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, custom.Message)
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}

// messageOr returns the CustomError message carried by err, or fallback
func messageOr(custom *apperrors.CustomError, err error, fallback string) string {
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return fallback
}

// NotFound answers unknown routes
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Page not found")))
	}
}

// Recovery turns panics into an internal error envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	})
}
