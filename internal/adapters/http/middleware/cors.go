// Package middleware - CORS middleware.
package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSConfig - конфигурация CORS.
type CORSConfig struct {
	// AllowOrigins - разрешённые origins; "*" разрешает все
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int // секунды
}

// DefaultCORSConfig - открытый API: любой origin, методы каталога фильмов.
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			RequestIDHeader,
			CorrelationIDHeader,
			"X-User-Id",
		},
		ExposeHeaders: []string{
			RequestIDHeader,
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"Retry-After",
		},
		MaxAge: 86400,
	}
}

// CORSConfigFor restricts the default config to the given origins.
// An empty list or a single "*" keeps the API open.
func CORSConfigFor(origins []string) *CORSConfig {
	config := DefaultCORSConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		return config
	}
	config.AllowOrigins = origins
	config.AllowCredentials = true
	return config
}

// CORS middleware для обработки Cross-Origin запросов.
// Preflight (OPTIONS) отвечает 204 без вызова handlers.
func CORS(config *CORSConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultCORSConfig()
	}

	headers := map[string]string{
		"Access-Control-Allow-Methods":  strings.Join(config.AllowMethods, ", "),
		"Access-Control-Allow-Headers":  strings.Join(config.AllowHeaders, ", "),
		"Access-Control-Expose-Headers": strings.Join(config.ExposeHeaders, ", "),
		"Access-Control-Max-Age":        strconv.Itoa(config.MaxAge),
	}
	wildcard := slices.Contains(config.AllowOrigins, "*")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := "*"
		if !wildcard {
			if !slices.Contains(config.AllowOrigins, origin) {
				c.Next()
				return
			}
			allowed = origin
			c.Header("Vary", "Origin")
		}

		c.Header("Access-Control-Allow-Origin", allowed)
		for name, value := range headers {
			c.Header(name, value)
		}
		if config.AllowCredentials && !wildcard {
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
