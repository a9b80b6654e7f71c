// Package handlers - Health check handlers.
//
// Два типа проб для оркестратора:
// - Liveness: процесс жив? (если нет - restart)
// - Readiness: зависимости доступны? (если нет - no traffic)
package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Haleralex/quefilme/internal/adapters/http/common"
	"github.com/Haleralex/quefilme/internal/adapters/http/middleware"
	"github.com/Haleralex/quefilme/internal/application/dtos"
)

// CheckHealthUseCase - интерфейс use case проверки API.
type CheckHealthUseCase interface {
	Execute(ctx context.Context) (*dtos.HealthDTO, error)
}

// Pinger - зависимость, проверяемая в readiness probe (redis cache).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController - имя контроллера в логах.
const HealthController = "HealthCheckerController"

// readinessTimeout ограничивает каждую проверку зависимости.
const readinessTimeout = 2 * time.Second

// HealthHandler обрабатывает health check запросы.
type HealthHandler struct {
	checkHealth CheckHealthUseCase
	deps        map[string]Pinger
}

// NewHealthHandler создаёт новый HealthHandler. deps may be nil.
func NewHealthHandler(checkHealth CheckHealthUseCase, deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{checkHealth: checkHealth, deps: deps}
}

// ReadinessResponse - ответ readiness check.
type ReadinessResponse struct {
	Ready     bool              `json:"ready"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

// Health возвращает статус API.
//
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} dtos.HealthDTO
// @Router / [get]
func (h *HealthHandler) Health(c *gin.Context) {
	res, err := h.checkHealth.Execute(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	common.Success(c, http.StatusOK, res)
}

// Live возвращает статус "живости" приложения.
//
// @Summary Liveness check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health/live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Ready проверяет все зарегистрированные зависимости.
//
// @Summary Readiness check
// @Tags Health
// @Produce json
// @Success 200 {object} ReadinessResponse
// @Failure 503 {object} ReadinessResponse
// @Router /health/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := make(map[string]string, len(h.deps))
	ready := true

	names := make([]string, 0, len(h.deps))
	for name := range h.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		err := h.deps[name].Ping(ctx)
		cancel()

		if err != nil {
			checks[name] = "unhealthy: " + err.Error()
			ready = false
			continue
		}
		checks[name] = "healthy"
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, ReadinessResponse{
		Ready:     ready,
		Checks:    checks,
		Timestamp: time.Now().UTC(),
	})
}

// RegisterRoutes регистрирует health check маршруты.
//
// Routes:
// - GET /             - статус API (через ControllerLogger)
// - GET /health       - то же, для балансировщиков
// - GET /health/live  - Liveness probe
// - GET /health/ready - Readiness probe
func (h *HealthHandler) RegisterRoutes(r gin.IRoutes, decorator *middleware.ControllerLogger) {
	r.GET("/", decorator.Wrap(HealthController, "healthChecker", h.Health))
	r.GET("/health", h.Health)
	r.GET("/health/live", h.Live)
	r.GET("/health/ready", h.Ready)
}
