// Package movie - use cases каталога фильмов: получение, поиск и рекомендация.
package movie

import (
	"context"
	"log/slog"

	"github.com/Haleralex/quefilme/internal/application/dtos"
	"github.com/Haleralex/quefilme/internal/application/ports"
	"github.com/Haleralex/quefilme/internal/domain/errors"
	"github.com/Haleralex/quefilme/internal/domain/valueobjects"
)

// GetMovieUseCase - use case для получения фильма по IMDb id.
type GetMovieUseCase struct {
	catalog ports.MovieCatalog
	logger  *slog.Logger
}

// NewGetMovieUseCase создаёт новый use case.
func NewGetMovieUseCase(catalog ports.MovieCatalog, logger *slog.Logger) *GetMovieUseCase {
	return &GetMovieUseCase{
		catalog: catalog,
		logger:  logger,
	}
}

// Execute возвращает фильм по IMDb id.
func (uc *GetMovieUseCase) Execute(ctx context.Context, query dtos.GetMovieQuery) (*dtos.MovieDTO, error) {
	id, err := valueobjects.NewIMDbID(query.IMDbID)
	if err != nil {
		return nil, errors.ValidationError{Field: "imdbId", Message: err.Error(), Code: "required"}
	}

	uc.logger.InfoContext(ctx, "Searching movie by id", slog.String("imdb_id", id.String()))

	return lookupMovie(ctx, uc.catalog, uc.logger, id)
}

// lookupMovie fetches one title and turns a catalog miss into NotFound.
func lookupMovie(ctx context.Context, catalog ports.MovieCatalog, logger *slog.Logger, id valueobjects.IMDbID) (*dtos.MovieDTO, error) {
	record, err := catalog.GetOne(ctx, id.String())
	if err != nil {
		return nil, err
	}

	if record == nil || !record.Found {
		logger.ErrorContext(ctx, "Movie not found in catalog", slog.String("imdb_id", id.String()))
		return nil, errors.NotFound()
	}

	result := dtos.ToMovieDTO(dtos.MovieFromCatalog(*record))
	return &result, nil
}
