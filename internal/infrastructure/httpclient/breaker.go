package httpclient

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerConfig - настройки circuit breaker (один на upstream).
type BreakerConfig struct {
	Enabled          bool
	MaxRequests      uint32        // requests allowed in half-open state
	Interval         time.Duration // closed-state window after which counts reset
	OpenTimeout      time.Duration // time in open state before half-open
	FailureThreshold uint32        // consecutive failures that open the breaker
}

// DefaultBreakerConfig возвращает конфигурацию по умолчанию (выключен).
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:          false,
		MaxRequests:      3,
		Interval:         time.Minute,
		OpenTimeout:      30 * time.Second,
		FailureThreshold: 5,
	}
}

type breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker[*Response]
}

func newBreaker(name string, cfg BreakerConfig, logger *slog.Logger) *breaker {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	cb := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				slog.String("upstream", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			breakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
	breakerState.WithLabelValues(name).Set(0)

	return &breaker{name: name, cb: cb}
}

// execute runs send through the breaker. Transport failures and 5xx count as failures.
// A rejected call becomes a 503 response.
func (b *breaker) execute(send func() *Response) *Response {
	resp, err := b.cb.Execute(func() (*Response, error) {
		r := send()
		if r.StatusCode == 0 || r.StatusCode >= http.StatusInternalServerError {
			return r, errUpstreamFailure
		}
		return r, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &Response{StatusCode: http.StatusServiceUnavailable, Err: err}
	}
	return resp
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
