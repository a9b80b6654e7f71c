package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Haleralex/quefilme/internal/adapters/http/common"
)

// ErrorInterceptor translates the last error a handler attached with c.Error
// into the public error body. It must be registered before the handlers run.
//
//	DomainError        → its status, {status:"Error", message:<code>}
//	ValidationError(s) → 400, {status:"Validation error", message:[...]}
//	anything else      → 500, {status:"Error", message:"Internal Server Error"}
func ErrorInterceptor(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, body := common.ErrorResponse(err)
		body.RequestID = common.GetRequestID(c)

		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request.Context(), "Request failed",
				slog.String("path", c.FullPath()),
				slog.Int("status", status),
				slog.String("error", err.Error()),
			)
		}

		c.AbortWithStatusJSON(status, body)
	}
}
