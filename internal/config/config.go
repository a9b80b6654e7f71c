// Package config - Application configuration management.
//
// Использует Viper для:
// - Загрузки из YAML файлов
// - Переменных окружения (в том числе .env / .env.local через godotenv)
// - Значений по умолчанию
//
// Порядок приоритета (от высшего к низшему):
// 1. Environment variables
// 2. .env file (does not override variables that are already set)
// 3. Config file
// 4. Default values
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// EnvPrefix is the prefix of every namespaced environment variable.
const EnvPrefix = "QUEFILME"

const defaultJWTSecret = "change-me-in-production"

// ============================================
// Main Configuration
// ============================================

// Config - главная структура конфигурации приложения.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Services   ServicesConfig   `mapstructure:"services"`
	HTTPClient HTTPClientConfig `mapstructure:"http_client"`
	Log        LogConfig        `mapstructure:"log"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Auth       AuthConfig       `mapstructure:"auth"`
	CORS       CORSConfig       `mapstructure:"cors"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
}

// ============================================
// App Configuration
// ============================================

// AppConfig - конфигурация приложения.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"` // development, production, test
}

// IsDevelopment возвращает true если окружение development.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// IsProduction возвращает true если окружение production.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// IsTest возвращает true если окружение test.
func (c *AppConfig) IsTest() bool {
	return c.Environment == EnvTest
}

// ============================================
// Server Configuration
// ============================================

// ServerConfig - конфигурация HTTP сервера.
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

// Address возвращает полный адрес сервера.
func (c *ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ============================================
// Upstream Services
// ============================================

// ServiceConfig - адрес и ключ внешнего провайдера.
type ServiceConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// AssistantConfig - AI провайдер.
type AssistantConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// ServicesConfig groups the three upstream providers.
type ServicesConfig struct {
	Movies     ServiceConfig   `mapstructure:"movies"`
	Translator ServiceConfig   `mapstructure:"translator"`
	Assistant  AssistantConfig `mapstructure:"assistant"`
}

// HTTPClientConfig - исходящие запросы.
type HTTPClientConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Breaker BreakerConfig `mapstructure:"breaker"`
}

// BreakerConfig - circuit breaker per upstream host.
type BreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	OpenTimeout      time.Duration `mapstructure:"open_timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
}

// ============================================
// Log Configuration
// ============================================

// LogConfig - конфигурация логирования.
type LogConfig struct {
	Level     string     `mapstructure:"level"`  // debug, info, warn, error
	Format    string     `mapstructure:"format"` // json, text
	AddSource bool       `mapstructure:"add_source"`
	Loki      LokiConfig `mapstructure:"loki"`
}

// LokiConfig - удалённый приёмник логов (Grafana Loki).
type LokiConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	URL           string        `mapstructure:"url"`
	APIKey        string        `mapstructure:"api_key"`
	Level         string        `mapstructure:"level"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
	QueueSize     int           `mapstructure:"queue_size"`
	PushTimeout   time.Duration `mapstructure:"push_timeout"`
}

// TracingConfig - OpenTelemetry.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// CacheConfig - Redis cache for single-movie lookups.
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
	Prefix   string        `mapstructure:"prefix"`
}

// ============================================
// Auth Configuration
// ============================================

// AuthConfig - конфигурация аутентификации.
type AuthConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	JWTSecret string `mapstructure:"jwt_secret"`
	JWTIssuer string `mapstructure:"jwt_issuer"`
}

// CORSConfig - конфигурация CORS.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig - конфигурация rate limiting.
type RateLimitConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	RPS             float64 `mapstructure:"rps"`
	Burst           int     `mapstructure:"burst"`
	SuggestionRPS   float64 `mapstructure:"suggestion_rps"`
	SuggestionBurst int     `mapstructure:"suggestion_burst"`
}

// ============================================
// Configuration Loading
// ============================================

// Load загружает конфигурацию.
//
// configFile - optional path to a YAML file. When empty, "config.yaml" is searched in
// ".", "./configs" and "/etc/quefilme"; a missing file is not an error.
func Load(configFile string) (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	v := newViper()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/quefilme")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Файл не найден - используем defaults и env vars
	}

	return build(v)
}

// LoadFromEnv загружает конфигурацию только из переменных окружения.
func LoadFromEnv() (*Config, error) {
	return build(newViper())
}

// LoadDotEnv loads ".env" in production and ".env.local" otherwise.
// Variables already present in the process environment win. A missing file is ignored.
func LoadDotEnv() error {
	file := ".env.local"
	if normalizeEnvironment(currentEnvironment()) == EnvProduction {
		file = ".env"
	}

	if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", file, err)
	}
	return nil
}

func currentEnvironment() string {
	for _, key := range []string{EnvPrefix + "_APP_ENVIRONMENT", "NODE_ENV", "APP_ENV"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return EnvDevelopment
}

func newViper() *viper.Viper {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)

	return v
}

func build(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.App.Environment = normalizeEnvironment(cfg.App.Environment)

	// Loki включён по умолчанию только в production.
	if !v.IsSet("log.loki.enabled") {
		cfg.Log.Loki.Enabled = cfg.App.IsProduction()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func normalizeEnvironment(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "prod", EnvProduction:
		return EnvProduction
	case EnvTest:
		return EnvTest
	case "dev", EnvDevelopment, "":
		return EnvDevelopment
	default:
		return strings.ToLower(strings.TrimSpace(env))
	}
}

// setDefaults устанавливает значения по умолчанию.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "quefilme-api")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", EnvDevelopment)

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_header_timeout", "5s")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Upstream defaults
	v.SetDefault("services.movies.base_url", "https://www.omdbapi.com")
	v.SetDefault("services.movies.api_key", "")
	v.SetDefault("services.translator.base_url", "https://translation.googleapis.com")
	v.SetDefault("services.translator.api_key", "")
	v.SetDefault("services.assistant.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("services.assistant.api_key", "")
	v.SetDefault("services.assistant.model", "")

	v.SetDefault("http_client.timeout", "30s")
	v.SetDefault("http_client.breaker.enabled", false)
	v.SetDefault("http_client.breaker.max_requests", 3)
	v.SetDefault("http_client.breaker.interval", "60s")
	v.SetDefault("http_client.breaker.open_timeout", "30s")
	v.SetDefault("http_client.breaker.failure_threshold", 5)

	// Log defaults. log.loki.enabled is resolved in build.
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.add_source", false)
	v.SetDefault("log.loki.url", "http://#")
	v.SetDefault("log.loki.api_key", "example-api-key")
	v.SetDefault("log.loki.level", "info")
	v.SetDefault("log.loki.batch_size", 100)
	v.SetDefault("log.loki.flush_interval", "2s")
	v.SetDefault("log.loki.queue_size", 1000)
	v.SetDefault("log.loki.push_timeout", "5s")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.prefix", "quefilme:movie")

	// Auth defaults
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.jwt_secret", defaultJWTSecret)
	v.SetDefault("auth.jwt_issuer", "quefilme")

	// CORS defaults
	v.SetDefault("cors.allowed_origins", []string{"*"})

	// Rate Limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rps", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("rate_limit.suggestion_rps", 0.2)
	v.SetDefault("rate_limit.suggestion_burst", 3)
}

// bindEnvVars привязывает переменные окружения, включая исторические имена без префикса.
func bindEnvVars(v *viper.Viper) {
	bind := func(key string, aliases ...string) {
		names := append([]string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, aliases...)
		_ = v.BindEnv(append([]string{key}, names...)...)
	}

	// App
	bind("app.name", "APP_NAME")
	bind("app.environment", "NODE_ENV", "APP_ENV")

	// Server
	bind("server.port", "PORT")

	// Upstream providers
	bind("services.movies.base_url", "BASE_URL_MOVIES_SERVICE")
	bind("services.movies.api_key", "ACCESS_KEY_MOVIES_SERVICE")
	bind("services.translator.base_url", "BASE_URL_TRANSLATOR")
	bind("services.translator.api_key", "ACCESS_KEY_TRANSLATOR")
	bind("services.assistant.base_url", "BASE_URL_AI_SERVICE")
	bind("services.assistant.api_key", "AI_SERVICE_KEY")

	// Log sink
	bind("log.loki.enabled")
	bind("log.loki.url", "GRAFANA_URL")
	bind("log.loki.api_key", "GRAFANA_API_KEY")

	// Auth
	bind("auth.jwt_secret", "JWT_SECRET")

	// Cache
	bind("cache.addr", "REDIS_ADDR")
	bind("cache.password", "REDIS_PASSWORD")
}

// ============================================
// Configuration Validation
// ============================================

// Validate валидирует конфигурацию.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("invalid environment %q: expected development, production or test", c.App.Environment)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	services := []struct {
		name    string
		baseURL string
	}{
		{"movies", c.Services.Movies.BaseURL},
		{"translator", c.Services.Translator.BaseURL},
		{"assistant", c.Services.Assistant.BaseURL},
	}
	for _, s := range services {
		if err := validateURL(s.baseURL); err != nil {
			return fmt.Errorf("services.%s.base_url: %w", s.name, err)
		}
	}

	if c.Log.Loki.Enabled {
		if err := validateURL(c.Log.Loki.URL); err != nil {
			return fmt.Errorf("log.loki.url: %w", err)
		}
	}

	if c.Cache.Enabled && c.Cache.Addr == "" {
		return errors.New("cache.addr is required when the cache is enabled")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 || c.RateLimit.SuggestionRPS <= 0 {
			return errors.New("rate limits must be positive")
		}
		if c.RateLimit.Burst <= 0 || c.RateLimit.SuggestionBurst <= 0 {
			return errors.New("rate limit bursts must be positive")
		}
	}

	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("invalid tracing sample ratio: %v", c.Tracing.SampleRatio)
	}

	// Проверяем критичные настройки в production
	if c.App.IsProduction() {
		if c.Services.Movies.APIKey == "" || c.Services.Translator.APIKey == "" || c.Services.Assistant.APIKey == "" {
			return errors.New("upstream API keys are required in production")
		}
		if c.Auth.Enabled && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == defaultJWTSecret) {
			return errors.New("JWT secret must be changed in production")
		}
	}

	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return errors.New("JWT secret is required when auth is enabled")
	}

	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid URL %q: absolute http(s) URL expected", raw)
	}
	return nil
}

// ============================================
// Development Helpers
// ============================================

// Development возвращает конфигурацию для разработки.
func Development() *Config {
	return &Config{
		App: AppConfig{
			Name:        "quefilme-api",
			Version:     "dev",
			Environment: EnvDevelopment,
		},
		Server: ServerConfig{
			Host:              "localhost",
			Port:              3000,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   30 * time.Second,
		},
		Services: ServicesConfig{
			Movies:     ServiceConfig{BaseURL: "https://www.omdbapi.com"},
			Translator: ServiceConfig{BaseURL: "https://translation.googleapis.com"},
			Assistant:  AssistantConfig{BaseURL: "https://openrouter.ai/api/v1"},
		},
		HTTPClient: HTTPClientConfig{
			Timeout: 30 * time.Second,
			Breaker: BreakerConfig{
				MaxRequests:      3,
				Interval:         time.Minute,
				OpenTimeout:      30 * time.Second,
				FailureThreshold: 5,
			},
		},
		Log: LogConfig{
			Level:  "debug",
			Format: "text",
			Loki: LokiConfig{
				URL:           "http://#",
				Level:         "info",
				BatchSize:     100,
				FlushInterval: 2 * time.Second,
				QueueSize:     1000,
				PushTimeout:   5 * time.Second,
			},
		},
		Tracing: TracingConfig{
			Endpoint:    "localhost:4318",
			Insecure:    true,
			SampleRatio: 1,
		},
		Cache: CacheConfig{
			Addr:   "localhost:6379",
			TTL:    time.Hour,
			Prefix: "quefilme:movie",
		},
		Auth: AuthConfig{
			JWTSecret: "dev-secret-key",
			JWTIssuer: "quefilme-dev",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		RateLimit: RateLimitConfig{
			Enabled:         true,
			RPS:             10,
			Burst:           20,
			SuggestionRPS:   0.2,
			SuggestionBurst: 3,
		},
	}
}

// Test возвращает конфигурацию для тестов.
func Test() *Config {
	cfg := Development()
	cfg.App.Environment = EnvTest
	cfg.App.Version = "test"
	cfg.Log.Level = "error"
	cfg.Log.Format = "json"
	cfg.RateLimit.Enabled = false
	return cfg
}
