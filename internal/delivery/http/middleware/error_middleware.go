package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"anduber-forms-backend/internal/delivery/http/response"
	"anduber-forms-backend/pkg/apperror"
	"anduber-forms-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Err != nil {
				logger.Log.Warn("Request failed", "request_id", c.GetString("RequestID"), "status", appErr.Code, "error", appErr.Err)
			}
			response.Error(c, appErr.Code, appErr.Message)
			return
		}

		// SECURITY: Never expose internal error details to clients.
		logger.Log.Error("Internal server error", "request_id", c.GetString("RequestID"), "path", c.FullPath(), "error", err)
		response.Error(c, http.StatusInternalServerError, apperror.UnexpectedMessage)
	}
}

// Recovery turns a panic into the generic 500 body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Log.Error("Panic recovered",
			"request_id", c.GetString("RequestID"),
			"path", c.Request.URL.Path,
			"panic", fmt.Sprint(recovered),
		)
		response.Error(c, http.StatusInternalServerError, apperror.UnexpectedMessage)
		c.Abort()
	})
}
