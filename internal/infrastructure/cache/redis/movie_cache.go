// Package redis - кэш каталога фильмов в Redis (опционально).
//
// CachedCatalog decorates a ports.MovieCatalog: GetOne hits are cached by id for a TTL.
// Searches are not cached. A Redis failure is logged and the call falls through to the catalog.
package redis

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/Haleralex/quefilme/internal/application/ports"
	"github.com/Haleralex/quefilme/internal/domain/entities"
)

var cacheRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "quefilme",
		Subsystem: "cache",
		Name:      "requests_total",
		Help:      "Movie cache lookups by result (hit, miss, error)",
	},
	[]string{"result"},
)

// CachedCatalog реализует ports.MovieCatalog с кэшированием.
type CachedCatalog struct {
	next   ports.MovieCatalog
	rdb    *redis.Client
	logger *slog.Logger
	prefix string
	ttl    time.Duration
}

var _ ports.MovieCatalog = (*CachedCatalog)(nil)

// Option настраивает CachedCatalog.
type Option func(*CachedCatalog)

// WithPrefix sets the key prefix (default "quefilme:movie").
func WithPrefix(prefix string) Option {
	return func(c *CachedCatalog) { c.prefix = strings.Trim(prefix, ":") }
}

// WithTTL sets how long a record stays cached (default 1h).
func WithTTL(ttl time.Duration) Option {
	return func(c *CachedCatalog) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewCachedCatalog оборачивает каталог.
func NewCachedCatalog(next ports.MovieCatalog, rdb *redis.Client, logger *slog.Logger, opts ...Option) *CachedCatalog {
	c := &CachedCatalog{
		next:   next,
		rdb:    rdb,
		logger: logger,
		prefix: "quefilme:movie",
		ttl:    time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedCatalog) key(imdbID string) string {
	return c.prefix + ":" + strings.TrimSpace(imdbID)
}

// GetOne returns a cached record or asks the wrapped catalog and caches a hit.
func (c *CachedCatalog) GetOne(ctx context.Context, imdbID string) (*ports.CatalogRecord, error) {
	key := c.key(imdbID)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var props entities.MovieProps
		if err := json.Unmarshal(raw, &props); err == nil {
			cacheRequests.WithLabelValues("hit").Inc()
			return &ports.CatalogRecord{Found: true, Movie: props}, nil
		}
		c.logger.WarnContext(ctx, "Discarding unreadable cache entry", slog.String("key", key))
		cacheRequests.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		cacheRequests.WithLabelValues("miss").Inc()
	default:
		c.logger.WarnContext(ctx, "Movie cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		cacheRequests.WithLabelValues("error").Inc()
	}

	record, err := c.next.GetOne(ctx, imdbID)
	if err != nil || record == nil || !record.Found {
		return record, err
	}

	payload, err := json.Marshal(record.Movie)
	if err == nil {
		err = c.rdb.Set(ctx, key, payload, c.ttl).Err()
	}
	if err != nil {
		c.logger.WarnContext(ctx, "Movie cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	return record, nil
}

// Search is passed through.
func (c *CachedCatalog) Search(ctx context.Context, title string) (*ports.CatalogSearch, error) {
	return c.next.Search(ctx, title)
}

// Ping проверяет доступность Redis (readiness probe).
func (c *CachedCatalog) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
