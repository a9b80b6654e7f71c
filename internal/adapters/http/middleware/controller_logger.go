package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Haleralex/quefilme/internal/adapters/http/common"
	"github.com/Haleralex/quefilme/internal/adapters/http/presenters"
)

// UserIDHeader - заголовок с идентификатором пользователя для неавторизованных запросов.
const UserIDHeader = "X-User-Id"

// DefaultMaxLoggedBody - сколько байт тела запроса попадает в лог.
const DefaultMaxLoggedBody = 2048

// ControllerLogger декорирует методы контроллеров: логирует начало,
// успешное завершение или ошибку каждого вызова.
//
// Pattern: Decorator
type ControllerLogger struct {
	logger  *slog.Logger
	maxBody int
	now     func() time.Time
}

// NewControllerLogger creates a decorator writing to logger.
func NewControllerLogger(logger *slog.Logger) *ControllerLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &ControllerLogger{
		logger:  logger,
		maxBody: DefaultMaxLoggedBody,
		now:     time.Now,
	}
}

// Wrap decorates handler, the method of controller.
//
// A call is an error when the handler attached a new error with c.Error.
// Its status comes from common.StatusFor, the same translation the client sees.
func (l *ControllerLogger) Wrap(controller, method string, handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := l.now()
		meta := l.describe(c, controller, method)

		ctx := c.Request.Context()
		started := meta.Started(start)
		l.logger.LogAttrs(ctx, slog.LevelInfo, started.Message(), started.Attrs()...)

		errorsBefore := len(c.Errors)
		handler(c)

		end := l.now()
		elapsed := end.Sub(start)

		if len(c.Errors) > errorsBefore {
			err := c.Errors.Last().Err
			failed := meta.Failed(end, common.StatusFor(err), elapsed, presenters.ErrorInfo{
				Name:    common.ErrorName(err),
				Message: err.Error(),
			})
			l.logger.LogAttrs(ctx, slog.LevelError, failed.Message(), failed.Attrs()...)
			return
		}

		completed := meta.Completed(end, c.Writer.Status(), elapsed)
		l.logger.LogAttrs(ctx, slog.LevelInfo, completed.Message(), completed.Attrs()...)
	}
}

func (l *ControllerLogger) describe(c *gin.Context, controller, method string) presenters.ControllerLogMetadata {
	userID := GetAuthUserID(c)
	if userID == "" {
		userID = c.GetHeader(UserIDHeader)
	}

	var params map[string]string
	if len(c.Params) > 0 {
		params = make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}
	}

	return presenters.ControllerLogMetadata{
		Controller:    controller,
		Method:        method,
		Path:          c.FullPath(),
		UserID:        userID,
		UserAgent:     c.Request.UserAgent(),
		IP:            c.ClientIP(),
		RequestBody:   l.peekBody(c),
		RequestParams: params,
		RequestQuery:  c.Request.URL.Query(),
	}
}

// peekBody reads the body for the log and puts it back for the handler.
func (l *ControllerLogger) peekBody(c *gin.Context) string {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return ""
	}
	raw, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	return truncateString(string(raw), l.maxBody)
}
