package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "thaifolio/internal/errors"
	"thaifolio/internal/logger"
)

// abortWithError stops the chain and renders an AppError in the standard
// {"error":{"code","message"}} shape.
func abortWithError(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{"error": gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}})
}

// ErrorHandler converts errors attached to the gin context into JSON error
// responses. AppErrors keep their code and message; anything else is logged
// and reported as an internal error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		log := logger.Component("http")

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Internal != nil {
				log.Errorw("request failed",
					"code", appErr.Code,
					"internal", appErr.Internal.Error(),
					"path", c.Request.URL.Path,
					"request_id", c.GetString(requestIDKey),
				)
			}
			abortWithError(c, appErr)
			return
		}

		if c.Errors.Last().IsType(gin.ErrorTypeBind) {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}

		log.Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", c.GetString(requestIDKey),
		)
		abortWithError(c, apperrors.ErrInternalServer)
	}
}
