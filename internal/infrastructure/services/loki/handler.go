package loki

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sinkFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "quefilme",
	Subsystem: "log_sink",
	Name:      "failures_total",
	Help:      "Log entries that could not be delivered to the log sink",
})

// Pusher delivers a batch of entries.
type Pusher interface {
	Push(ctx context.Context, entries []Entry) error
}

// HandlerConfig - настройки очереди.
type HandlerConfig struct {
	Level         slog.Level
	BatchSize     int
	FlushInterval time.Duration
	QueueSize     int
	PushTimeout   time.Duration
}

// DefaultHandlerConfig возвращает конфигурацию по умолчанию.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		Level:         slog.LevelInfo,
		BatchSize:     100,
		FlushInterval: 2 * time.Second,
		QueueSize:     1000,
		PushTimeout:   5 * time.Second,
	}
}

// sink is shared by a Handler and all handlers derived from it.
type sink struct {
	pusher Pusher
	cfg    HandlerConfig
	queue  chan Entry
	done   chan struct{}
	once   sync.Once
	mu     sync.RWMutex
	closed bool
}

// Handler is a slog.Handler that ships records to Loki asynchronously.
type Handler struct {
	sink   *sink
	attrs  []slog.Attr
	groups []string
}

var _ slog.Handler = (*Handler)(nil)

// NewHandler starts the background sender. Close must be called to flush.
func NewHandler(pusher Pusher, cfg HandlerConfig) *Handler {
	def := DefaultHandlerConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = def.FlushInterval
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.PushTimeout <= 0 {
		cfg.PushTimeout = def.PushTimeout
	}

	s := &sink{
		pusher: pusher,
		cfg:    cfg,
		queue:  make(chan Entry, cfg.QueueSize),
		done:   make(chan struct{}),
	}
	go s.run()

	return &Handler{sink: s}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.sink.cfg.Level
}

// Handle encodes the record and enqueues it. A full queue drops the entry.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	fields := make(map[string]any, r.NumAttrs()+len(h.attrs))
	target := fields
	for _, g := range h.groups {
		sub := make(map[string]any)
		target[g] = sub
		target = sub
	}
	for _, a := range h.attrs {
		addAttr(target, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(target, a)
		return true
	})

	fields["description"] = r.Message
	fields["type"] = entryType(r.Level)

	line, err := json.Marshal(fields)
	if err != nil {
		line, _ = json.Marshal(map[string]string{
			"description": r.Message,
			"type":        entryType(r.Level),
			"encodeError": err.Error(),
		})
	}

	h.sink.enqueue(Entry{Time: r.Time, Level: levelLabel(r.Level), Line: line})
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(append([]string{}, h.groups...), name)
	return &next
}

// Close stops accepting entries and flushes the queue, bounded by ctx.
func (h *Handler) Close(ctx context.Context) error {
	s := h.sink
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.queue)
		s.mu.Unlock()
	})

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("log sink flush interrupted: %w", ctx.Err())
	}
}

func (s *sink) enqueue(e Entry) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}

	select {
	case s.queue <- e:
	default:
		sinkFailures.Inc()
	}
}

func (s *sink) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]Entry, 0, s.cfg.BatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		s.push(batch)
		batch = make([]Entry, 0, s.cfg.BatchSize)
	}

	for {
		select {
		case e, ok := <-s.queue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, e)
			if len(batch) >= s.cfg.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// push never fails the caller: errors go to stderr and the failure counter.
func (s *sink) push(batch []Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.PushTimeout)
	defer cancel()

	if err := s.pusher.Push(ctx, batch); err != nil {
		sinkFailures.Add(float64(len(batch)))
		fmt.Fprintf(os.Stderr, "failed to send %d log entries: %v\n", len(batch), err)
	}
}

func addAttr(m map[string]any, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		if len(attrs) == 0 {
			return
		}
		target := m
		if a.Key != "" {
			sub, ok := m[a.Key].(map[string]any)
			if !ok {
				sub = make(map[string]any, len(attrs))
				m[a.Key] = sub
			}
			target = sub
		}
		for _, ga := range attrs {
			addAttr(target, ga)
		}
		return
	}

	m[a.Key] = attrValue(a.Value)
}

func attrValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339Nano)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return v.Any()
	default:
		return v.Any()
	}
}

func entryType(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARN"
	case l >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

func levelLabel(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "error"
	case l >= slog.LevelWarn:
		return "warn"
	case l >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}
