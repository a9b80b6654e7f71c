// Package middleware содержит HTTP middleware для обработки запросов.
//
// Middleware в Gin - это функции, которые выполняются до/после handlers.
// Они используются для cross-cutting concerns: логирование, auth, tracing.
//
// Pattern: Chain of Responsibility
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Haleralex/quefilme/internal/adapters/http/common"
	"github.com/Haleralex/quefilme/internal/pkg/logger"
)

const (
	// RequestIDHeader - имя заголовка для Request ID
	RequestIDHeader = common.RequestIDKey
	// CorrelationIDHeader - заголовок для сквозного ID между сервисами
	CorrelationIDHeader = "X-Correlation-ID"
)

// RequestID middleware добавляет уникальный ID к каждому запросу.
//
// Если клиент передаёт X-Request-ID - используем его, иначе генерируем UUID.
// ID попадает в gin context, в response header и в context.Context,
// so every log record of the request carries it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		common.SetRequestID(c, requestID)

		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		if correlationID := c.GetHeader(CorrelationIDHeader); correlationID != "" {
			ctx = logger.WithCorrelationID(ctx, correlationID)
			c.Header(CorrelationIDHeader, correlationID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID извлекает Request ID из контекста Gin.
func GetRequestID(c *gin.Context) string {
	return common.GetRequestID(c)
}
