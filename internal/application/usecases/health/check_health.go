// Package health - use case для проверки работоспособности API.
package health

import (
	"context"
	"fmt"
	"time"

	"github.com/Haleralex/quefilme/internal/application/dtos"
)

// CheckHealthUseCase reports that the API is up, with the current UTC time in words.
type CheckHealthUseCase struct {
	version     string
	environment string
	startTime   time.Time
	now         func() time.Time
}

// NewCheckHealthUseCase создаёт новый use case.
func NewCheckHealthUseCase(version, environment string) *CheckHealthUseCase {
	return &CheckHealthUseCase{
		version:     version,
		environment: environment,
		startTime:   time.Now(),
		now:         time.Now,
	}
}

// WithClock подменяет источник времени (для тестов).
func (uc *CheckHealthUseCase) WithClock(now func() time.Time) *CheckHealthUseCase {
	uc.now = now
	uc.startTime = now()
	return uc
}

// Execute возвращает статус API.
func (uc *CheckHealthUseCase) Execute(_ context.Context) (*dtos.HealthDTO, error) {
	now := uc.now().UTC()

	return &dtos.HealthDTO{
		Status:      StatusMessage(now),
		Timestamp:   now,
		Uptime:      now.Sub(uc.startTime).Round(time.Second).String(),
		Version:     uc.version,
		Environment: uc.environment,
	}, nil
}

// StatusMessage formats t like "API is working on October 17, 2026 at 9 hours and 5 minutes".
func StatusMessage(t time.Time) string {
	return fmt.Sprintf("API is working on %s at %d hours and %d minutes",
		t.Format("January 2, 2006"), t.Hour(), t.Minute())
}
