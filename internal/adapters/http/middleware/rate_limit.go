// Package middleware - Rate Limiting middleware.
//
// Token bucket на ключ (по умолчанию IP клиента), golang.org/x/time/rate.
// Состояние хранится в памяти процесса.
package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Haleralex/quefilme/internal/adapters/http/common"
)

// RateLimitConfig - конфигурация для rate limiting.
type RateLimitConfig struct {
	RPS   float64 // пополнение корзины, запросов в секунду
	Burst int     // размер корзины
	// KeyFunc - ключ лимитирования, по умолчанию IP адрес
	KeyFunc func(*gin.Context) string
	// IdleTTL - через сколько неактивный ключ удаляется из памяти
	IdleTTL time.Duration
}

// DefaultRateLimitConfig - общий лимит API.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RPS:     10,
		Burst:   20,
		KeyFunc: clientIPKey,
		IdleTTL: 15 * time.Minute,
	}
}

// SuggestionRateLimitConfig - лимит для POST /movies: каждый запрос стоит вызова AI модели.
func SuggestionRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RPS:     0.2, // 12 в минуту
		Burst:   3,
		KeyFunc: clientIPKey,
		IdleTTL: 15 * time.Minute,
	}
}

func clientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// LimiterStore хранит по одному rate.Limiter на ключ и удаляет простаивающие.
type LimiterStore struct {
	mu          sync.Mutex
	entries     map[string]*limiterEntry
	limit       rate.Limit
	burst       int
	idleTTL     time.Duration
	lastCleanup time.Time
	now         func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiterStore creates a store; idleTTL <= 0 keeps keys forever.
func NewLimiterStore(rps float64, burst int, idleTTL time.Duration) *LimiterStore {
	return &LimiterStore{
		entries:     make(map[string]*limiterEntry),
		limit:       rate.Limit(rps),
		burst:       burst,
		idleTTL:     idleTTL,
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

// Get возвращает limiter для ключа, создавая его при первом обращении.
// Раз в idleTTL попутно выполняется очистка.
func (s *LimiterStore) Get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.idleTTL > 0 && now.Sub(s.lastCleanup) >= s.idleTTL {
		s.sweep(now)
	}

	if entry, ok := s.entries[key]; ok {
		entry.lastSeen = now
		return entry.limiter
	}

	lim := rate.NewLimiter(s.limit, s.burst)
	s.entries[key] = &limiterEntry{limiter: lim, lastSeen: now}
	return lim
}

// Cleanup удаляет ключи, не использовавшиеся дольше idleTTL.
func (s *LimiterStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(s.now())
}

// Len - количество отслеживаемых ключей.
func (s *LimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *LimiterStore) sweep(now time.Time) {
	s.lastCleanup = now
	if s.idleTTL <= 0 {
		return
	}
	cutoff := now.Add(-s.idleTTL)
	for key, entry := range s.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(s.entries, key)
		}
	}
}

// RateLimit middleware ограничивает частоту запросов.
//
// Заголовки ответа:
// - X-RateLimit-Limit: размер корзины
// - X-RateLimit-Remaining: оставшиеся токены
// - Retry-After: секунды до следующего токена (только при 429)
func RateLimit(config *RateLimitConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = clientIPKey
	}

	store := NewLimiterStore(config.RPS, config.Burst, config.IdleTTL)
	retryAfter := "1"
	if config.RPS > 0 {
		retryAfter = strconv.Itoa(int(math.Ceil(1 / config.RPS)))
	}

	return func(c *gin.Context) {
		lim := store.Get(keyFunc(c))
		allowed := lim.Allow()

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Burst))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, int(lim.Tokens()))))

		if !allowed {
			rateLimitedTotal.WithLabelValues(routeLabel(c)).Inc()
			c.Header("Retry-After", retryAfter)
			common.TooManyRequests(c)
			return
		}

		c.Next()
	}
}
