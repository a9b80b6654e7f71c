// Package handlers - Movie HTTP handlers.
package handlers

import (
	"context"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/Haleralex/quefilme/internal/adapters/http/common"
	"github.com/Haleralex/quefilme/internal/adapters/http/middleware"
	"github.com/Haleralex/quefilme/internal/application/dtos"
)

// ============================================
// Use Case Interfaces
// ============================================

// GetMovieUseCase - интерфейс для получения фильма.
type GetMovieUseCase interface {
	Execute(ctx context.Context, query dtos.GetMovieQuery) (*dtos.MovieDTO, error)
}

// ListMoviesUseCase - интерфейс для поиска фильмов.
type ListMoviesUseCase interface {
	Execute(ctx context.Context, query dtos.ListMoviesQuery) ([]dtos.MovieDTO, error)
}

// SuggestMovieUseCase - интерфейс для рекомендации фильма.
type SuggestMovieUseCase interface {
	Execute(ctx context.Context, query dtos.SuggestMovieQuery) (*dtos.MovieDTO, error)
}

// ============================================
// Movie Handler
// ============================================

// MovieController - имя контроллера в логах.
const MovieController = "MoviesController"

// MovieHandler обрабатывает HTTP запросы каталога фильмов.
type MovieHandler struct {
	getMovie     GetMovieUseCase
	listMovies   ListMoviesUseCase
	suggestMovie SuggestMovieUseCase
}

// NewMovieHandler создаёт новый MovieHandler.
func NewMovieHandler(getMovie GetMovieUseCase, listMovies ListMoviesUseCase, suggestMovie SuggestMovieUseCase) *MovieHandler {
	return &MovieHandler{
		getMovie:     getMovie,
		listMovies:   listMovies,
		suggestMovie: suggestMovie,
	}
}

// ============================================
// Request DTOs
// ============================================

// GetMovieRequest - path параметры GET /movies/:imdbId.
type GetMovieRequest struct {
	IMDbID string `uri:"imdbId" binding:"required,notblank"`
}

// ListMoviesRequest - query параметры GET /movies.
type ListMoviesRequest struct {
	Title string `form:"title" binding:"required,notblank"`
}

// SuggestMovieRequest - тело POST /movies.
type SuggestMovieRequest struct {
	Titles []string `json:"titles" binding:"required,min=1,any_notblank"`
}

// ============================================
// HTTP Handlers
// ============================================

// GetMovie возвращает фильм по IMDb id.
//
// @Summary Get movie
// @Tags Movies
// @Produce json
// @Param imdbId path string true "IMDb id"
// @Success 200 {object} dtos.MovieDTO
// @Failure 404 {object} common.ErrorBody
// @Router /movies/{imdbId} [get]
func (h *MovieHandler) GetMovie(c *gin.Context) {
	var req GetMovieRequest
	if !BindURI(c, &req) {
		return
	}

	movie, err := h.getMovie.Execute(c.Request.Context(), dtos.GetMovieQuery{IMDbID: req.IMDbID})
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.Success(c, http.StatusOK, movie)
}

// ListMovies ищет фильмы по названию на португальском.
//
// @Summary List movies
// @Tags Movies
// @Produce json
// @Param title query string true "Title (pt-BR)"
// @Success 200 {array} dtos.MovieDTO
// @Failure 400 {object} common.ErrorBody
// @Router /movies [get]
func (h *MovieHandler) ListMovies(c *gin.Context) {
	var req ListMoviesRequest
	if !BindQuery(c, &req, "title") {
		return
	}

	movies, err := h.listMovies.Execute(c.Request.Context(), dtos.ListMoviesQuery{Title: req.Title})
	if err != nil {
		_ = c.Error(err)
		return
	}
	if movies == nil {
		movies = []dtos.MovieDTO{}
	}

	common.Success(c, http.StatusOK, movies)
}

// SuggestMovie предлагает фильм, похожий на понравившиеся.
//
// @Summary Suggest movie
// @Tags Movies
// @Accept json
// @Produce json
// @Param request body SuggestMovieRequest true "Liked titles"
// @Success 200 {object} dtos.MovieDTO
// @Failure 400 {object} common.ErrorBody
// @Router /movies [post]
func (h *MovieHandler) SuggestMovie(c *gin.Context) {
	var req SuggestMovieRequest
	if !BindJSON(c, &req) {
		return
	}

	movie, err := h.suggestMovie.Execute(c.Request.Context(), dtos.SuggestMovieQuery{Titles: req.Titles})
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.Success(c, http.StatusOK, movie)
}

// RegisterRoutes регистрирует маршруты фильмов.
//
// Routes:
// - GET  /movies/:imdbId - фильм по id
// - GET  /movies?title=  - поиск
// - POST /movies         - рекомендация (suggestGuards выполняются перед ней)
func (h *MovieHandler) RegisterRoutes(r gin.IRoutes, decorator *middleware.ControllerLogger, suggestGuards ...gin.HandlerFunc) {
	r.GET("/movies/:imdbId", decorator.Wrap(MovieController, "getMovie", h.GetMovie))
	r.GET("/movies", decorator.Wrap(MovieController, "getMovies", h.ListMovies))

	suggest := append(slices.Clone(suggestGuards), decorator.Wrap(MovieController, "getMovieSuggestion", h.SuggestMovie))
	r.POST("/movies", suggest...)
}
