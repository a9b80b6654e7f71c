// Package common содержит общие типы для HTTP слоя.
//
// Вынесен в отдельный пакет чтобы избежать циклических импортов
// между handlers, middleware и основным http пакетом.
package common

import (
	"errors"
	"net/http"

	domainerrors "github.com/Haleralex/quefilme/internal/domain/errors"
	"github.com/gin-gonic/gin"
)

// ============================================
// Error Response Format
// ============================================

// Public status values of an error body.
const (
	StatusError      = "Error"
	StatusValidation = "Validation error"

	// InternalServerErrorMessage hides the cause of untyped failures.
	InternalServerErrorMessage = "Internal Server Error"
)

// ErrorBody - тело ответа с ошибкой.
//
// Message is the error code for typed errors ("NotFoundError"), a list of
// FieldError for validation failures, or InternalServerErrorMessage.
type ErrorBody struct {
	Status    string `json:"status"`
	Message   any    `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// FieldError - ошибка конкретного поля.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ============================================
// Request ID
// ============================================

const RequestIDKey = "X-Request-ID"

// GetRequestID возвращает Request ID из контекста.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// SetRequestID устанавливает Request ID в контекст.
func SetRequestID(c *gin.Context, id string) {
	c.Set(RequestIDKey, id)
	c.Header(RequestIDKey, id)
}

// ============================================
// Error Translation
// ============================================

// StatusFor maps an error to its HTTP status.
//
//	NotFound → 404, BadRequest → 400, AccessDenied → 401, Unexpected → 500,
//	validation → 400, anything else → 500.
func StatusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case domainerrors.IsValidationError(err):
		return http.StatusBadRequest
	case domainerrors.IsNotFound(err):
		return http.StatusNotFound
	case domainerrors.IsBadRequest(err):
		return http.StatusBadRequest
	case domainerrors.IsAccessDenied(err):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse builds the status and body for err.
func ErrorResponse(err error) (int, ErrorBody) {
	if fields, ok := validationFields(err); ok {
		return http.StatusBadRequest, ErrorBody{Status: StatusValidation, Message: fields}
	}

	if de, ok := domainerrors.AsDomainError(err); ok {
		return StatusFor(de), ErrorBody{Status: StatusError, Message: de.Code}
	}

	return http.StatusInternalServerError, ErrorBody{Status: StatusError, Message: InternalServerErrorMessage}
}

// HandleError writes the error body and aborts the chain.
func HandleError(c *gin.Context, err error) {
	status, body := ErrorResponse(err)
	body.RequestID = GetRequestID(c)
	c.AbortWithStatusJSON(status, body)
}

// ErrorName is the short type name of err for logs: the domain code, "ValidationError" or "Error".
func ErrorName(err error) string {
	if de, ok := domainerrors.AsDomainError(err); ok {
		return de.Code
	}
	if domainerrors.IsValidationError(err) {
		return "ValidationError"
	}
	return "Error"
}

func validationFields(err error) ([]FieldError, bool) {
	var many domainerrors.ValidationErrors
	if errors.As(err, &many) {
		fields := make([]FieldError, len(many))
		for i, ve := range many {
			fields[i] = FieldError{Field: ve.Field, Message: ve.Message, Code: ve.Code}
		}
		return fields, true
	}

	var one domainerrors.ValidationError
	if errors.As(err, &one) {
		return []FieldError{{Field: one.Field, Message: one.Message, Code: one.Code}}, true
	}

	return nil, false
}

// ============================================
// Response Helpers
// ============================================

// Success отправляет успешный ответ: the DTO itself, without an envelope.
func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}

// TooManyRequests отправляет 429.
func TooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorBody{
		Status:    StatusError,
		Message:   "Too Many Requests",
		RequestID: GetRequestID(c),
	})
}

// InternalError отправляет 500 без деталей.
func InternalError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody{
		Status:    StatusError,
		Message:   InternalServerErrorMessage,
		RequestID: GetRequestID(c),
	})
}
