package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_Environment(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		dev         bool
		prod        bool
		test        bool
	}{
		{"development", "development", true, false, false},
		{"production", "production", false, true, false},
		{"test", "test", false, false, true},
		{"empty", "", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &AppConfig{Environment: tt.environment}
			assert.Equal(t, tt.dev, cfg.IsDevelopment())
			assert.Equal(t, tt.prod, cfg.IsProduction())
			assert.Equal(t, tt.test, cfg.IsTest())
		})
	}
}

func TestServerConfig_Address(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		port     int
		expected string
	}{
		{"localhost", "localhost", 3000, "localhost:3000"},
		{"all interfaces", "0.0.0.0", 8080, "0.0.0.0:8080"},
		{"ipv6", "::1", 9000, "[::1]:9000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &ServerConfig{Host: tt.host, Port: tt.port}
			assert.Equal(t, tt.expected, cfg.Address())
		})
	}
}

func TestNormalizeEnvironment(t *testing.T) {
	tests := map[string]string{
		"":            EnvDevelopment,
		"dev":         EnvDevelopment,
		"Development": EnvDevelopment,
		"PROD":        EnvProduction,
		" production": EnvProduction,
		"test":        EnvTest,
		"staging":     "staging",
	}

	for in, want := range tests {
		assert.Equal(t, want, normalizeEnvironment(in), "input %q", in)
	}
}

func TestConfig_Validate_Development(t *testing.T) {
	assert.NoError(t, Development().Validate())
	assert.NoError(t, Test().Validate())
}

func TestConfig_Validate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.App.Environment = "staging" },
			wantErr: "invalid environment",
		},
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "relative movies URL",
			mutate:  func(c *Config) { c.Services.Movies.BaseURL = "/omdb" },
			wantErr: "services.movies.base_url",
		},
		{
			name:    "ftp translator URL",
			mutate:  func(c *Config) { c.Services.Translator.BaseURL = "ftp://example.com" },
			wantErr: "services.translator.base_url",
		},
		{
			name:    "empty assistant URL",
			mutate:  func(c *Config) { c.Services.Assistant.BaseURL = "" },
			wantErr: "services.assistant.base_url",
		},
		{
			name: "loki enabled without URL",
			mutate: func(c *Config) {
				c.Log.Loki.Enabled = true
				c.Log.Loki.URL = ""
			},
			wantErr: "log.loki.url",
		},
		{
			name: "cache enabled without address",
			mutate: func(c *Config) {
				c.Cache.Enabled = true
				c.Cache.Addr = ""
			},
			wantErr: "cache.addr",
		},
		{
			name:    "non-positive rate",
			mutate:  func(c *Config) { c.RateLimit.SuggestionRPS = 0 },
			wantErr: "rate limits must be positive",
		},
		{
			name:    "non-positive burst",
			mutate:  func(c *Config) { c.RateLimit.Burst = 0 },
			wantErr: "bursts must be positive",
		},
		{
			name:    "sample ratio out of range",
			mutate:  func(c *Config) { c.Tracing.SampleRatio = 1.5 },
			wantErr: "sample ratio",
		},
		{
			name: "auth without secret",
			mutate: func(c *Config) {
				c.Auth.Enabled = true
				c.Auth.JWTSecret = ""
			},
			wantErr: "JWT secret is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Development()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_RateLimitDisabled(t *testing.T) {
	cfg := Development()
	cfg.RateLimit.Enabled = false
	cfg.RateLimit.RPS = 0

	assert.NoError(t, cfg.Validate())
}

func productionConfig() *Config {
	cfg := Development()
	cfg.App.Environment = EnvProduction
	cfg.Services.Movies.APIKey = "omdb-key"
	cfg.Services.Translator.APIKey = "translator-key"
	cfg.Services.Assistant.APIKey = "ai-key"
	return cfg
}

func TestConfig_Validate_Production(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, productionConfig().Validate())
	})

	t.Run("MissingAPIKey", func(t *testing.T) {
		cfg := productionConfig()
		cfg.Services.Translator.APIKey = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API keys are required")
	})

	t.Run("DefaultJWTSecret", func(t *testing.T) {
		cfg := productionConfig()
		cfg.Auth.Enabled = true
		cfg.Auth.JWTSecret = "change-me-in-production"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT secret must be changed")
	})

	t.Run("DefaultJWTSecretWithAuthDisabled", func(t *testing.T) {
		cfg := productionConfig()
		cfg.Auth.JWTSecret = "change-me-in-production"

		assert.NoError(t, cfg.Validate())
	})
}

func TestDevelopment(t *testing.T) {
	cfg := Development()

	assert.Equal(t, "quefilme-api", cfg.App.Name)
	assert.True(t, cfg.App.IsDevelopment())
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.False(t, cfg.Log.Loki.Enabled)
	assert.False(t, cfg.Cache.Enabled)
	assert.False(t, cfg.Auth.Enabled)
}

func TestTest(t *testing.T) {
	cfg := Test()

	assert.True(t, cfg.App.IsTest())
	assert.Equal(t, "error", cfg.Log.Level)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("NODE_ENV", "")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "quefilme-api", cfg.App.Name)
	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "http://#", cfg.Log.Loki.URL)
	assert.False(t, cfg.Log.Loki.Enabled, "loki is off outside production by default")
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 0.2, cfg.RateLimit.SuggestionRPS)
	assert.Equal(t, uint32(5), cfg.HTTPClient.Breaker.FailureThreshold)
}

func TestLoadFromEnv_LegacyNames(t *testing.T) {
	t.Setenv("NODE_ENV", "development")
	t.Setenv("PORT", "4000")
	t.Setenv("APP_NAME", "quefilme-staging")
	t.Setenv("BASE_URL_MOVIES_SERVICE", "https://movies.example.com")
	t.Setenv("ACCESS_KEY_MOVIES_SERVICE", "movies-key")
	t.Setenv("BASE_URL_TRANSLATOR", "https://translate.example.com")
	t.Setenv("ACCESS_KEY_TRANSLATOR", "translate-key")
	t.Setenv("BASE_URL_AI_SERVICE", "https://ai.example.com/v1")
	t.Setenv("AI_SERVICE_KEY", "ai-key")
	t.Setenv("GRAFANA_URL", "https://logs.example.com/loki/api/v1/push")
	t.Setenv("GRAFANA_API_KEY", "grafana-key")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "quefilme-staging", cfg.App.Name)
	assert.Equal(t, "https://movies.example.com", cfg.Services.Movies.BaseURL)
	assert.Equal(t, "movies-key", cfg.Services.Movies.APIKey)
	assert.Equal(t, "https://translate.example.com", cfg.Services.Translator.BaseURL)
	assert.Equal(t, "translate-key", cfg.Services.Translator.APIKey)
	assert.Equal(t, "https://ai.example.com/v1", cfg.Services.Assistant.BaseURL)
	assert.Equal(t, "ai-key", cfg.Services.Assistant.APIKey)
	assert.Equal(t, "https://logs.example.com/loki/api/v1/push", cfg.Log.Loki.URL)
	assert.Equal(t, "grafana-key", cfg.Log.Loki.APIKey)
}

func TestLoadFromEnv_PrefixedWinsOverLegacy(t *testing.T) {
	t.Setenv("QUEFILME_SERVER_PORT", "5000")
	t.Setenv("PORT", "4000")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
}

func TestLoadFromEnv_Production(t *testing.T) {
	t.Setenv("NODE_ENV", "production")
	t.Setenv("ACCESS_KEY_MOVIES_SERVICE", "movies-key")
	t.Setenv("ACCESS_KEY_TRANSLATOR", "translate-key")
	t.Setenv("AI_SERVICE_KEY", "ai-key")
	t.Setenv("GRAFANA_URL", "https://logs.example.com/loki/api/v1/push")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProduction())
	assert.True(t, cfg.Log.Loki.Enabled, "loki defaults to on in production")

	t.Run("ExplicitlyDisabled", func(t *testing.T) {
		t.Setenv("QUEFILME_LOG_LOKI_ENABLED", "false")

		cfg, err := LoadFromEnv()
		require.NoError(t, err)
		assert.False(t, cfg.Log.Loki.Enabled)
	})
}

func TestLoadFromEnv_ProductionMissingKeys(t *testing.T) {
	t.Setenv("NODE_ENV", "production")
	t.Setenv("ACCESS_KEY_MOVIES_SERVICE", "")
	t.Setenv("GRAFANA_URL", "https://logs.example.com")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoadFromEnv_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "99999")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server port")
}

func TestLoad_FileNotFound(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("NODE_ENV", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "quefilme-api", cfg.App.Name)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("NODE_ENV", "")

	yaml := []byte(`
server:
  port: 8081
cache:
  enabled: true
  addr: redis:6379
  ttl: 10m
rate_limit:
  suggestion_rps: 0.5
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis:6379", cfg.Cache.Addr)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 0.5, cfg.RateLimit.SuggestionRPS)

	t.Run("EnvOverridesFile", func(t *testing.T) {
		t.Setenv("QUEFILME_SERVER_PORT", "9090")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
	})
}

func TestLoad_DotEnvLocal(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("NODE_ENV", "")
	// t.Setenv restores the variable that godotenv sets below.
	t.Setenv("BASE_URL_TRANSLATOR", "")
	require.NoError(t, os.Unsetenv("BASE_URL_TRANSLATOR"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"),
		[]byte("BASE_URL_TRANSLATOR=https://local-translate.example.com\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("BASE_URL_TRANSLATOR=https://prod-translate.example.com\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://local-translate.example.com", cfg.Services.Translator.BaseURL)
}

func TestLoadDotEnv_ProductionUsesDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("NODE_ENV", "production")
	t.Setenv("AI_SERVICE_KEY", "")
	require.NoError(t, os.Unsetenv("AI_SERVICE_KEY"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("AI_SERVICE_KEY=from-dotenv\n"), 0o600))

	require.NoError(t, LoadDotEnv())
	assert.Equal(t, "from-dotenv", os.Getenv("AI_SERVICE_KEY"))
}

func TestLoadDotEnv_ExistingVariableWins(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("NODE_ENV", "")
	t.Setenv("AI_SERVICE_KEY", "from-process")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("AI_SERVICE_KEY=from-dotenv\n"), 0o600))

	require.NoError(t, LoadDotEnv())
	assert.Equal(t, "from-process", os.Getenv("AI_SERVICE_KEY"))
}

// chdir changes the working directory for the duration of the test,
// restoring the previous one on cleanup (equivalent to testing.T.Chdir).
func chdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(prev))
	})
}
