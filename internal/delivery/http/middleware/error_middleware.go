package middleware

import (
	"errors"
	"net/http"

	"go-ats-backend/internal/delivery/http/response"
	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"
	"go-ats-backend/pkg/logger"
	"go-ats-backend/pkg/security"
	"go-ats-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorHandler renders the last error a handler attached with c.Error.
func ErrorHandler(secLog *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		reqID := c.GetString(string(domain.KeyRequestID))

		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			// never expose internal error details
			logger.Log.Error("Unhandled error", "error", err, "path", c.FullPath(), "request_id", reqID)
			response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
			return
		}

		switch {
		case appErr.Code >= http.StatusInternalServerError:
			logger.Log.Error("Internal error", "error", appErr.Err, "path", c.FullPath(), "request_id", reqID)
			response.Error(c, appErr.Code, appErr.Message, nil)
		case appErr.Code == http.StatusForbidden:
			secLog.LogUnauthorized(c.Request.Context(), string(Principal(c)), c.ClientIP(), reqID, c.FullPath())
			response.Error(c, appErr.Code, appErr.Message, nil)
		default:
			var ve validator.ValidationErrors
			if errors.As(appErr.Err, &ve) {
				response.Error(c, appErr.Code, appErr.Message, validation.FormatValidationErrors(ve))
				return
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
		}
	}
}
