// Package httpclient - общий HTTP клиент для внешних сервисов (OMDb, Translate, AI, Loki).
//
// Сбой транспорта не возвращается как error: он нормализуется в Response
// со StatusCode 0, и дальше его разбирает HandleResponse.
package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

// maxBodySize caps how much of an upstream body is read.
const maxBodySize = 10 << 20

// errUpstreamFailure marks a response the circuit breaker counts as a failure.
var errUpstreamFailure = errors.New("upstream failure")

// Request - исходящий запрос.
type Request struct {
	Service string // upstream name, used for metrics and the circuit breaker
	Method  string
	URL     string
	Headers map[string]string
	Body    any // JSON-encoded when not nil
}

// Response - нормализованный ответ.
// StatusCode 0 means the request never got a response; Err holds the cause.
type Response struct {
	StatusCode int
	Body       []byte
	Err        error
}

// Client выполняет исходящие запросы.
type Client interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// Config - настройки клиента.
type Config struct {
	Timeout        time.Duration
	Breaker        BreakerConfig
	Transport      http.RoundTripper    // nil means http.DefaultTransport
	TracerProvider trace.TracerProvider // nil means the global provider
	Logger         *slog.Logger         // breaker state changes; nil means slog.Default()
}

// HTTPClient is the net/http implementation of Client.
type HTTPClient struct {
	http    *http.Client
	breaker BreakerConfig
	logger  *slog.Logger

	mu       sync.Mutex
	breakers map[string]*breaker
}

var _ Client = (*HTTPClient)(nil)

// NewClient создаёт клиент.
func NewClient(cfg Config) *HTTPClient {
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	var opts []otelhttp.Option
	if cfg.TracerProvider != nil {
		opts = append(opts, otelhttp.WithTracerProvider(cfg.TracerProvider))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPClient{
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(base, opts...),
		},
		breaker:  cfg.Breaker,
		logger:   logger,
		breakers: make(map[string]*breaker),
	}
}

// Do выполняет запрос. The returned error is only set when the request cannot be built.
func (c *HTTPClient) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.build(ctx, req)
	if err != nil {
		return nil, err
	}

	service := req.Service
	if service == "" {
		service = httpReq.URL.Host
	}

	start := time.Now()
	var resp *Response
	if c.breaker.Enabled {
		resp = c.breakerFor(service).execute(func() *Response { return c.send(httpReq) })
	} else {
		resp = c.send(httpReq)
	}

	recordUpstream(service, resp.StatusCode, time.Since(start))
	return resp, nil
}

func (c *HTTPClient) build(ctx context.Context, req Request) (*http.Request, error) {
	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

func (c *HTTPClient) send(req *http.Request) *Response {
	resp, err := c.http.Do(req)
	if err != nil {
		return &Response{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &Response{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}
}

func (c *HTTPClient) breakerFor(service string) *breaker {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.breakers[service]
	if !ok {
		b = newBreaker(service, c.breaker, c.logger)
		c.breakers[service] = b
	}
	return b
}

// DecodeJSON decodes an upstream body.
func DecodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

func statusLabel(code int) string {
	if code == 0 {
		return "error"
	}
	return strconv.Itoa(code)
}
