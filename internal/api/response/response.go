// Package response writes JSON error bodies in the {"error": message} shape.
package response

import (
	"github.com/gin-gonic/gin"

	apperrors "paywall-app/internal/shared/errors"
	"paywall-app/internal/shared/logger"
)

// Error maps err onto its AppError status. Internal and upstream errors are
// logged with their cause; clients only see the message.
func Error(c *gin.Context, log logger.Interface, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr.Type == apperrors.ErrorTypeInternal || appErr.Type == apperrors.ErrorTypeBadGateway {
		log.Errorw("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
	}
	c.AbortWithStatusJSON(appErr.Code, gin.H{"error": appErr.Message})
}
