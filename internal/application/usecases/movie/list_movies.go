package movie

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Haleralex/quefilme/internal/application/dtos"
	"github.com/Haleralex/quefilme/internal/application/ports"
	"github.com/Haleralex/quefilme/internal/domain/errors"
	"github.com/Haleralex/quefilme/internal/domain/valueobjects"
)

// ListMoviesUseCase - поиск фильмов по названию на португальском.
//
// Название переводится pt-br → en, затем ищется в каталоге.
// Ошибка перевода возвращается клиенту, ошибка поиска даёт пустой список.
type ListMoviesUseCase struct {
	catalog    ports.MovieCatalog
	translator ports.Translator
	logger     *slog.Logger
}

// NewListMoviesUseCase создаёт новый use case.
func NewListMoviesUseCase(catalog ports.MovieCatalog, translator ports.Translator, logger *slog.Logger) *ListMoviesUseCase {
	return &ListMoviesUseCase{
		catalog:    catalog,
		translator: translator,
		logger:     logger,
	}
}

// Execute возвращает список фильмов. The result is never nil.
func (uc *ListMoviesUseCase) Execute(ctx context.Context, query dtos.ListMoviesQuery) ([]dtos.MovieDTO, error) {
	title := normalizeTitle(query.Title)
	if title == "" {
		return nil, errors.ValidationError{Field: "title", Message: "title must not be blank", Code: "required"}
	}

	uc.logger.InfoContext(ctx, "Searching movies by title", slog.String("title", title))

	translated, err := uc.translator.Translate(ctx, title, valueobjects.PortugueseBR, valueobjects.English)
	if err != nil {
		return nil, fmt.Errorf("failed to translate title: %w", err)
	}

	search, err := uc.catalog.Search(ctx, normalizeTitle(translated))
	if err != nil {
		uc.logger.ErrorContext(ctx, "Movie search failed",
			slog.String("title", title),
			slog.String("translated", translated),
			slog.String("error", err.Error()),
		)
		return []dtos.MovieDTO{}, nil
	}

	if search == nil || !search.Found {
		uc.logger.WarnContext(ctx, "No movies found", slog.String("translated", translated))
	}

	return dtos.ToMovieDTOList(search), nil
}

func normalizeTitle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
