// Package presenters форматирует данные HTTP слоя для логов.
package presenters

import (
	"fmt"
	"log/slog"
	"time"
)

// События жизненного цикла метода контроллера.
const (
	EventRequestStarted   = "REQUEST_STARTED"
	EventRequestCompleted = "REQUEST_COMPLETED"
	EventRequestError     = "REQUEST_ERROR"
)

// ErrorInfo - краткое описание ошибки для лога.
type ErrorInfo struct {
	Name    string
	Message string
}

// ControllerLogMetadata - метаданные одного вызова метода контроллера.
type ControllerLogMetadata struct {
	Controller    string
	Method        string
	Path          string // шаблон маршрута, e.g. /movies/:imdbId
	Timestamp     time.Time
	Event         string
	UserID        string
	UserAgent     string
	IP            string
	RequestBody   string
	RequestParams map[string]string
	RequestQuery  map[string][]string

	StatusCode    int
	ExecutionTime time.Duration
	Error         *ErrorInfo
}

// Started returns the metadata of the REQUEST_STARTED event.
func (m ControllerLogMetadata) Started(at time.Time) ControllerLogMetadata {
	m.Event = EventRequestStarted
	m.Timestamp = at
	return m
}

// Completed returns the metadata of the REQUEST_COMPLETED event.
func (m ControllerLogMetadata) Completed(at time.Time, status int, elapsed time.Duration) ControllerLogMetadata {
	m.Event = EventRequestCompleted
	m.Timestamp = at
	m.StatusCode = status
	m.ExecutionTime = elapsed
	return m
}

// Failed returns the metadata of the REQUEST_ERROR event.
func (m ControllerLogMetadata) Failed(at time.Time, status int, elapsed time.Duration, info ErrorInfo) ControllerLogMetadata {
	m.Event = EventRequestError
	m.Timestamp = at
	m.StatusCode = status
	m.ExecutionTime = elapsed
	m.Error = &info
	return m
}

// Message - текст записи: "MovieController.getMovie REQUEST_STARTED".
func (m ControllerLogMetadata) Message() string {
	return fmt.Sprintf("%s.%s %s", m.Controller, m.Method, m.Event)
}

// Attrs converts the metadata to log attributes. Empty optional fields are left out.
func (m ControllerLogMetadata) Attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("controller", m.Controller),
		slog.String("method", m.Method),
		slog.String("path", m.Path),
		slog.String("timestamp", m.Timestamp.UTC().Format(time.RFC3339Nano)),
		slog.String("event", m.Event),
		slog.String("userAgent", m.UserAgent),
		slog.String("ip", m.IP),
	}

	if m.UserID != "" {
		attrs = append(attrs, slog.String("userId", m.UserID))
	}
	if m.RequestBody != "" {
		attrs = append(attrs, slog.String("requestBody", m.RequestBody))
	}
	if len(m.RequestParams) > 0 {
		attrs = append(attrs, slog.Any("requestParams", m.RequestParams))
	}
	if len(m.RequestQuery) > 0 {
		attrs = append(attrs, slog.Any("requestQuery", m.RequestQuery))
	}

	if m.Event == EventRequestStarted {
		return attrs
	}

	attrs = append(attrs,
		slog.Int("statusCode", m.StatusCode),
		slog.Int64("executionTime", m.ExecutionTime.Milliseconds()),
	)
	if m.Error != nil {
		attrs = append(attrs, slog.Group("error",
			slog.String("name", m.Error.Name),
			slog.String("message", m.Error.Message),
		))
	}
	return attrs
}
