// Package http содержит HTTP адаптер (REST API).
//
// Структура пакета:
// - common/: формат ответов и перевод ошибок в статусы
// - middleware/: request id, логирование, auth, rate limit, error interceptor
// - presenters/: метаданные логов контроллеров
// - handlers/: контроллеры
// - router.go: сборка маршрутов
// - server.go: HTTP server lifecycle
//
// Pattern: Composition Root для HTTP слоя
package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	"github.com/Haleralex/quefilme/internal/adapters/http/common"
	"github.com/Haleralex/quefilme/internal/adapters/http/handlers"
	"github.com/Haleralex/quefilme/internal/adapters/http/middleware"
	domainerrors "github.com/Haleralex/quefilme/internal/domain/errors"
)

// ============================================
// Router Configuration
// ============================================

// RouterConfig - конфигурация роутера.
type RouterConfig struct {
	Logger      *slog.Logger
	ServiceName string
	// Environment (development, test, production)
	Environment string
	// AllowedOrigins для CORS; пусто или "*" - открыто для всех
	AllowedOrigins []string
	// TracerProvider для otelgin; nil - глобальный провайдер
	TracerProvider trace.TracerProvider
	// TokenValidator включает JWT guard на /movies; nil - без авторизации
	TokenValidator middleware.TokenValidator
	// RateLimit - общий лимит; nil отключает
	RateLimit *middleware.RateLimitConfig
	// SuggestionRateLimit - отдельный лимит POST /movies; nil отключает
	SuggestionRateLimit *middleware.RateLimitConfig
	// ReadinessChecks - зависимости для /health/ready
	ReadinessChecks map[string]handlers.Pinger
}

// DefaultRouterConfig - конфигурация по умолчанию для development.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		Logger:              slog.Default(),
		ServiceName:         "quefilme-api",
		Environment:         "development",
		AllowedOrigins:      []string{"*"},
		RateLimit:           middleware.DefaultRateLimitConfig(),
		SuggestionRateLimit: middleware.SuggestionRateLimitConfig(),
	}
}

// ============================================
// Use Case Providers
// ============================================

// MovieUseCases - provider для movie use cases.
type MovieUseCases struct {
	GetMovie     handlers.GetMovieUseCase
	ListMovies   handlers.ListMoviesUseCase
	SuggestMovie handlers.SuggestMovieUseCase
}

// ============================================
// Router Builder
// ============================================

// RouterBuilder - builder для создания роутера.
type RouterBuilder struct {
	config *RouterConfig
	movies *MovieUseCases
	health handlers.CheckHealthUseCase
}

// NewRouterBuilder создаёт новый builder.
func NewRouterBuilder(config *RouterConfig) *RouterBuilder {
	if config == nil {
		config = DefaultRouterConfig()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.ServiceName == "" {
		config.ServiceName = "quefilme-api"
	}
	return &RouterBuilder{config: config}
}

// WithMovieUseCases добавляет movie use cases.
func (b *RouterBuilder) WithMovieUseCases(useCases *MovieUseCases) *RouterBuilder {
	b.movies = useCases
	return b
}

// WithHealthUseCase добавляет health check.
func (b *RouterBuilder) WithHealthUseCase(useCase handlers.CheckHealthUseCase) *RouterBuilder {
	b.health = useCase
	return b
}

// Build создаёт сконфигурированный Gin Engine.
//
// Порядок middleware:
// Recovery → tracing → RequestID → security headers → CORS → access log →
// metrics → rate limit → error interceptor → [auth] → handlers
func (b *RouterBuilder) Build() *gin.Engine {
	cfg := b.config

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupValidator()

	// ============================================
	// Global Middleware
	// ============================================

	router.Use(middleware.Recovery(&middleware.RecoveryConfig{
		Logger:           cfg.Logger,
		EnableStackTrace: cfg.Environment != "production",
	}))

	var otelOpts []otelgin.Option
	if cfg.TracerProvider != nil {
		otelOpts = append(otelOpts, otelgin.WithTracerProvider(cfg.TracerProvider))
	}
	router.Use(otelgin.Middleware(cfg.ServiceName, otelOpts...))

	router.Use(middleware.RequestID())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(middleware.CORSConfigFor(cfg.AllowedOrigins)))
	router.Use(middleware.Logging(&middleware.LoggingConfig{
		Logger:    cfg.Logger,
		SkipPaths: []string{"/metrics", "/health/live", "/health/ready"},
	}))
	router.Use(middleware.Metrics())
	if cfg.RateLimit != nil {
		router.Use(middleware.RateLimit(cfg.RateLimit))
	}
	router.Use(middleware.ErrorInterceptor(cfg.Logger))

	// ============================================
	// Operational Routes (no auth)
	// ============================================

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	decorator := middleware.NewControllerLogger(cfg.Logger)

	if b.health != nil {
		handlers.NewHealthHandler(b.health, cfg.ReadinessChecks).RegisterRoutes(router, decorator)
	}

	// ============================================
	// Movie Routes
	// ============================================

	if b.movies != nil {
		movies := router.Group("")
		if cfg.TokenValidator != nil {
			movies.Use(middleware.Auth(&middleware.AuthConfig{Validator: cfg.TokenValidator}))
		}

		var suggestGuards []gin.HandlerFunc
		if cfg.SuggestionRateLimit != nil {
			suggestGuards = append(suggestGuards, middleware.RateLimit(cfg.SuggestionRateLimit))
		}

		handlers.NewMovieHandler(b.movies.GetMovie, b.movies.ListMovies, b.movies.SuggestMovie).
			RegisterRoutes(movies, decorator, suggestGuards...)
	}

	// ============================================
	// 404 Handler
	// ============================================

	router.NoRoute(func(c *gin.Context) {
		common.HandleError(c, domainerrors.NotFound())
	})

	return router
}

// NewRouter создаёт роутер со всеми use cases.
func NewRouter(config *RouterConfig, movies *MovieUseCases, health handlers.CheckHealthUseCase) *gin.Engine {
	return NewRouterBuilder(config).
		WithMovieUseCases(movies).
		WithHealthUseCase(health).
		Build()
}
