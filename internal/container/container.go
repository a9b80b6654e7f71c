// Package container - Dependency Injection container for the application.
//
// Container управляет жизненным циклом всех зависимостей:
// - Создание (Initialize)
// - Доступ (getters)
// - Закрытие (Shutdown: Redis, Loki flush, tracing)
//
// Pattern: Composition Root
package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Haleralex/quefilme/internal/adapters/http"
	"github.com/Haleralex/quefilme/internal/adapters/http/handlers"
	"github.com/Haleralex/quefilme/internal/adapters/http/middleware"
	"github.com/Haleralex/quefilme/internal/application/ports"
	"github.com/Haleralex/quefilme/internal/application/usecases/health"
	"github.com/Haleralex/quefilme/internal/application/usecases/movie"
	"github.com/Haleralex/quefilme/internal/config"
	moviecache "github.com/Haleralex/quefilme/internal/infrastructure/cache/redis"
	"github.com/Haleralex/quefilme/internal/infrastructure/httpclient"
	"github.com/Haleralex/quefilme/internal/infrastructure/services/assistant"
	"github.com/Haleralex/quefilme/internal/infrastructure/services/loki"
	"github.com/Haleralex/quefilme/internal/infrastructure/services/omdb"
	"github.com/Haleralex/quefilme/internal/infrastructure/services/translate"
	"github.com/Haleralex/quefilme/internal/pkg/logger"
	"github.com/Haleralex/quefilme/internal/pkg/tracing"
)

// ============================================
// Container
// ============================================

// Container - DI контейнер приложения.
type Container struct {
	config *config.Config
	output io.Writer

	logger  *slog.Logger
	tracing *tracing.Provider
	loki    *loki.Handler
	redis   *redis.Client

	// Outbound
	httpClient *httpclient.HTTPClient
	catalog    ports.MovieCatalog
	translator ports.Translator
	assistant  ports.Assistant

	// Use Cases
	getMovieUC     *movie.GetMovieUseCase
	listMoviesUC   *movie.ListMoviesUseCase
	suggestMovieUC *movie.SuggestMovieUseCase
	checkHealthUC  *health.CheckHealthUseCase

	readiness map[string]handlers.Pinger

	// HTTP
	httpServer *http.Server
}

// Option настраивает контейнер.
type Option func(*Container)

// WithOutput redirects the console log output (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(c *Container) { c.output = w }
}

// New создаёт новый контейнер с заданной конфигурацией.
func New(cfg *config.Config, opts ...Option) *Container {
	c := &Container{
		config:    cfg,
		output:    os.Stdout,
		readiness: make(map[string]handlers.Pinger),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ============================================
// Initialization
// ============================================

// Initialize инициализирует все зависимости.
func (c *Container) Initialize(ctx context.Context) error {
	// 1. Tracing
	if err := c.initTracing(ctx); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	// 2. Logger (console + optional Loki sink)
	c.initLogger()
	c.logger.Info("Initializing application container...",
		slog.String("environment", c.config.App.Environment),
		slog.Bool("loki", c.loki != nil),
	)

	// 3. Outbound services
	c.initServices()
	c.logger.Info("Upstream services initialized")

	// 4. Cache
	if err := c.initCache(ctx); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	// 5. Use Cases
	c.initUseCases()
	c.logger.Info("Use cases initialized")

	// 6. HTTP Server
	if err := c.initHTTPServer(); err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}
	c.logger.Info("HTTP server initialized")

	c.logger.Info("Container initialization complete")
	return nil
}

// initTracing инициализирует OpenTelemetry.
func (c *Container) initTracing(ctx context.Context) error {
	provider, err := tracing.Init(ctx, tracing.Config{
		Enabled:        c.config.Tracing.Enabled,
		ServiceName:    c.config.App.Name,
		ServiceVersion: c.config.App.Version,
		Environment:    c.config.App.Environment,
		Endpoint:       c.config.Tracing.Endpoint,
		Insecure:       c.config.Tracing.Insecure,
		SampleRatio:    c.config.Tracing.SampleRatio,
	})
	if err != nil {
		return err
	}
	c.tracing = provider
	return nil
}

// initLogger инициализирует логгер.
// The Loki client itself logs to the console only.
func (c *Container) initLogger() {
	logCfg := &logger.Config{
		Level:     c.config.Log.Level,
		Format:    c.config.Log.Format,
		Output:    c.output,
		AddSource: c.config.Log.AddSource,
	}
	console := logger.New(logCfg)

	if c.config.Log.Loki.Enabled {
		lokiCfg := c.config.Log.Loki
		client := httpclient.NewClient(httpclient.Config{
			Timeout:        lokiCfg.PushTimeout,
			TracerProvider: c.tracing.TracerProvider(),
			Logger:         console,
		})
		pusher := loki.NewClient(client, lokiCfg.URL, lokiCfg.APIKey, loki.Labels{
			App:         c.config.App.Name,
			Environment: c.config.App.Environment,
		})
		c.loki = loki.NewHandler(pusher, loki.HandlerConfig{
			Level:         logger.ParseLevel(lokiCfg.Level),
			BatchSize:     lokiCfg.BatchSize,
			FlushInterval: lokiCfg.FlushInterval,
			QueueSize:     lokiCfg.QueueSize,
			PushTimeout:   lokiCfg.PushTimeout,
		})
		logCfg.Sinks = []slog.Handler{c.loki}
	}

	c.logger = logger.Setup(logCfg)
}

// initServices создаёт HTTP клиент и адаптеры внешних провайдеров.
func (c *Container) initServices() {
	breaker := c.config.HTTPClient.Breaker
	c.httpClient = httpclient.NewClient(httpclient.Config{
		Timeout: c.config.HTTPClient.Timeout,
		Breaker: httpclient.BreakerConfig{
			Enabled:          breaker.Enabled,
			MaxRequests:      breaker.MaxRequests,
			Interval:         breaker.Interval,
			OpenTimeout:      breaker.OpenTimeout,
			FailureThreshold: breaker.FailureThreshold,
		},
		TracerProvider: c.tracing.TracerProvider(),
		Logger:         c.logger,
	})

	services := c.config.Services
	c.catalog = omdb.NewCatalog(c.httpClient, omdb.Config{
		BaseURL: services.Movies.BaseURL,
		APIKey:  services.Movies.APIKey,
	})
	c.translator = translate.NewTranslator(c.httpClient, translate.Config{
		BaseURL: services.Translator.BaseURL,
		APIKey:  services.Translator.APIKey,
	})
	c.assistant = assistant.NewAssistant(c.httpClient, assistant.Config{
		BaseURL: services.Assistant.BaseURL,
		APIKey:  services.Assistant.APIKey,
		Model:   services.Assistant.Model,
	})
}

// initCache оборачивает каталог кэшем Redis, если он включён.
// An unreachable Redis is logged, not fatal.
func (c *Container) initCache(ctx context.Context) error {
	if !c.config.Cache.Enabled {
		return nil
	}

	opts := &redis.Options{
		Addr:     c.config.Cache.Addr,
		Password: c.config.Cache.Password,
		DB:       c.config.Cache.DB,
	}
	if opts.Addr == "" {
		return errors.New("cache address is empty")
	}
	c.redis = redis.NewClient(opts)

	cached := moviecache.NewCachedCatalog(c.catalog, c.redis, c.logger,
		moviecache.WithPrefix(c.config.Cache.Prefix),
		moviecache.WithTTL(c.config.Cache.TTL),
	)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := cached.Ping(pingCtx); err != nil {
		c.logger.Warn("Redis is unreachable, movie cache will miss until it recovers",
			slog.String("addr", opts.Addr),
			slog.String("error", err.Error()),
		)
	} else {
		c.logger.Info("Redis connected", slog.String("addr", opts.Addr))
	}

	c.catalog = cached
	c.readiness["redis"] = cached
	return nil
}

// initUseCases инициализирует use cases.
func (c *Container) initUseCases() {
	c.getMovieUC = movie.NewGetMovieUseCase(c.catalog, c.logger)
	c.listMoviesUC = movie.NewListMoviesUseCase(c.catalog, c.translator, c.logger)
	c.suggestMovieUC = movie.NewSuggestMovieUseCase(c.catalog, c.assistant, c.logger)
	c.checkHealthUC = health.NewCheckHealthUseCase(c.config.App.Version, c.config.App.Environment)
}

// routerConfig собирает конфигурацию роутера из конфигурации приложения.
func (c *Container) routerConfig() (*http.RouterConfig, error) {
	routerConfig := &http.RouterConfig{
		Logger:          c.logger,
		ServiceName:     c.config.App.Name,
		Environment:     c.config.App.Environment,
		AllowedOrigins:  c.config.CORS.AllowedOrigins,
		TracerProvider:  c.tracing.TracerProvider(),
		ReadinessChecks: c.readiness,
	}

	if rl := c.config.RateLimit; rl.Enabled {
		global := middleware.DefaultRateLimitConfig()
		global.RPS, global.Burst = rl.RPS, rl.Burst
		routerConfig.RateLimit = global

		suggestion := middleware.SuggestionRateLimitConfig()
		suggestion.RPS, suggestion.Burst = rl.SuggestionRPS, rl.SuggestionBurst
		routerConfig.SuggestionRateLimit = suggestion
	}

	if c.config.Auth.Enabled {
		validator, err := middleware.NewJWTValidator(c.config.Auth.JWTSecret, c.config.Auth.JWTIssuer)
		if err != nil {
			return nil, err
		}
		routerConfig.TokenValidator = validator
	}

	return routerConfig, nil
}

// initHTTPServer инициализирует HTTP сервер.
func (c *Container) initHTTPServer() error {
	routerConfig, err := c.routerConfig()
	if err != nil {
		return err
	}

	router := http.NewRouter(routerConfig, &http.MovieUseCases{
		GetMovie:     c.getMovieUC,
		ListMovies:   c.listMoviesUC,
		SuggestMovie: c.suggestMovieUC,
	}, c.checkHealthUC)

	serverConfig := &http.ServerConfig{
		Host:              c.config.Server.Host,
		Port:              strconv.Itoa(c.config.Server.Port),
		ReadHeaderTimeout: c.config.Server.ReadHeaderTimeout,
		ReadTimeout:       c.config.Server.ReadTimeout,
		WriteTimeout:      c.config.Server.WriteTimeout,
		IdleTimeout:       c.config.Server.IdleTimeout,
		ShutdownTimeout:   c.config.Server.ShutdownTimeout,
		Logger:            c.logger,
	}

	c.httpServer = http.NewServer(serverConfig, router)
	return nil
}

// ============================================
// Getters
// ============================================

// Config возвращает конфигурацию.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger возвращает логгер.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// HTTPServer возвращает HTTP сервер.
func (c *Container) HTTPServer() *http.Server {
	return c.httpServer
}

// Catalog возвращает каталог фильмов (с кэшем, если он включён).
func (c *Container) Catalog() ports.MovieCatalog {
	return c.catalog
}

// GetMovieUseCase возвращает use case получения фильма.
func (c *Container) GetMovieUseCase() *movie.GetMovieUseCase {
	return c.getMovieUC
}

// ListMoviesUseCase возвращает use case поиска фильмов.
func (c *Container) ListMoviesUseCase() *movie.ListMoviesUseCase {
	return c.listMoviesUC
}

// SuggestMovieUseCase возвращает use case подбора фильма.
func (c *Container) SuggestMovieUseCase() *movie.SuggestMovieUseCase {
	return c.suggestMovieUC
}

// ============================================
// Shutdown
// ============================================

// Shutdown освобождает ресурсы. The HTTP server is stopped by Run itself.
// Порядок: Redis → Loki flush → tracing.
func (c *Container) Shutdown(ctx context.Context) error {
	if c.logger != nil {
		c.logger.Info("Shutting down container...")
	}

	var errs []error

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}

	if c.logger != nil {
		c.logger.Info("Container shutdown complete")
	}

	if c.loki != nil {
		if err := c.loki.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("loki flush: %w", err))
		}
	}

	if c.tracing != nil {
		if err := c.tracing.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
		}
	}

	return errors.Join(errs...)
}

// ============================================
// Run
// ============================================

// Run запускает HTTP сервер и блокируется до SIGINT/SIGTERM или отмены ctx.
func (c *Container) Run(ctx context.Context) error {
	if c.httpServer == nil {
		return errors.New("container is not initialized")
	}

	c.logger.Info("Starting quefilme API server",
		slog.String("version", c.config.App.Version),
		slog.String("environment", c.config.App.Environment),
		slog.String("address", c.config.Server.Address()),
	)

	return c.httpServer.Run(ctx)
}
