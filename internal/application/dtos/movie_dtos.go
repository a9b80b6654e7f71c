// Package dtos определяет Data Transfer Objects для передачи данных между слоями.
//
// Domain entities не сериализуются напрямую: API отдаёт только MovieDTO.
//
// Pattern: Data Transfer Object
package dtos

import "time"

// ============================================
// Queries (Read операции)
// ============================================

// GetMovieQuery - запрос фильма по IMDb id.
type GetMovieQuery struct {
	IMDbID string `json:"imdbId" validate:"required"`
}

// ListMoviesQuery - поиск фильмов по названию (на португальском).
type ListMoviesQuery struct {
	Title string `json:"title" validate:"required"`
}

// SuggestMovieQuery - запрос рекомендации по списку понравившихся фильмов.
type SuggestMovieQuery struct {
	Titles []string `json:"titles" validate:"required,min=1"`
}

// ============================================
// Response DTOs
// ============================================

// MovieDTO - представление фильма для API.
//
// Search hits carry only title, imdbID, type, image and year; the rest is omitted.
type MovieDTO struct {
	Title       string `json:"title"`
	IMDbID      string `json:"imdbID"`
	Type        string `json:"type"`
	Image       string `json:"image"`
	Year        string `json:"year,omitempty"`
	Runtime     string `json:"runtime,omitempty"`
	Genre       string `json:"genre,omitempty"`
	Actors      string `json:"actors,omitempty"`
	Description string `json:"description,omitempty"`
}

// HealthDTO - результат health check.
type HealthDTO struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Uptime      string    `json:"uptime"`
	Version     string    `json:"version"`
	Environment string    `json:"environment"`
}
