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

// suggestionPrompt asks for exactly one movie outside the list, formatted "Title - imdbId".
const suggestionPrompt = "Seja direto e siga exatamente o exemplo proposto a seguir após os dois pontos, " +
	"me indique apenas um filme baseado na lista %s, mas não pode ser nenhum dessa lista e nem repetir " +
	"a sugestão anterior, seja criativo na escolha mas retorne algo que combine com os itens de lista, " +
	"e coloque seu imdb CORRETO no final, ex: Cidade de Deus - tt0317248"

// SuggestMovieUseCase - рекомендация фильма по списку понравившихся.
type SuggestMovieUseCase struct {
	catalog   ports.MovieCatalog
	assistant ports.Assistant
	logger    *slog.Logger
}

// NewSuggestMovieUseCase создаёт новый use case.
func NewSuggestMovieUseCase(catalog ports.MovieCatalog, assistant ports.Assistant, logger *slog.Logger) *SuggestMovieUseCase {
	return &SuggestMovieUseCase{
		catalog:   catalog,
		assistant: assistant,
		logger:    logger,
	}
}

// Execute спрашивает модель и ищет предложенный фильм в каталоге.
func (uc *SuggestMovieUseCase) Execute(ctx context.Context, query dtos.SuggestMovieQuery) (*dtos.MovieDTO, error) {
	titles := make([]string, 0, len(query.Titles))
	for _, t := range query.Titles {
		if t = strings.TrimSpace(t); t != "" {
			titles = append(titles, t)
		}
	}
	if len(titles) == 0 {
		return nil, errors.ValidationError{Field: "titles", Message: "at least one title is required", Code: "min"}
	}

	list := strings.Join(titles, ", ")
	uc.logger.InfoContext(ctx, "Asking for a suggestion", slog.String("titles", list))

	reply, err := uc.assistant.Ask(ctx, BuildSuggestionPrompt(titles))
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestion: %w", err)
	}

	id, err := valueobjects.ExtractIMDbID(reply)
	if err != nil {
		uc.logger.ErrorContext(ctx, "Suggestion reply has no identifier", slog.String("reply", reply))
		return nil, errors.WithCause(errors.Unexpected(), err)
	}

	uc.logger.InfoContext(ctx, "Suggestion received",
		slog.String("reply", reply),
		slog.String("imdb_id", id.String()),
	)

	return lookupMovie(ctx, uc.catalog, uc.logger, id)
}

// BuildSuggestionPrompt renders the prompt for a list of liked titles.
func BuildSuggestionPrompt(titles []string) string {
	return fmt.Sprintf(suggestionPrompt, strings.Join(titles, ", "))
}
