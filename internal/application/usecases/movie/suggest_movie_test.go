package movie_test

import (
	"context"
	"testing"

	"github.com/Haleralex/quefilme/internal/application/dtos"
	"github.com/Haleralex/quefilme/internal/application/ports"
	"github.com/Haleralex/quefilme/internal/application/usecases/movie"
	"github.com/Haleralex/quefilme/internal/domain/entities"
	domainErrors "github.com/Haleralex/quefilme/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestMovieUseCase_Success(t *testing.T) {
	// Arrange
	assistant := &MockAssistant{
		AskFunc: func(ctx context.Context, prompt string) (string, error) {
			return "Tropa de Elite!!! - tt0861739.", nil
		},
	}
	catalog := &MockMovieCatalog{
		GetOneFunc: func(ctx context.Context, imdbID string) (*ports.CatalogRecord, error) {
			return &ports.CatalogRecord{
				Found: true,
				Movie: entities.MovieProps{IMDbID: imdbID, Title: "Elite Squad", Type: "movie"},
			}, nil
		},
	}
	uc := movie.NewSuggestMovieUseCase(catalog, assistant, discardLogger())

	// Act
	result, err := uc.Execute(context.Background(), dtos.SuggestMovieQuery{
		Titles: []string{"Cidade de Deus", " ", "Carandiru"},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "tt0861739", result.IMDbID)
	assert.Equal(t, "Elite Squad", result.Title)
	assert.Equal(t, []string{"tt0861739"}, catalog.GetOneCalls)

	require.Len(t, assistant.Prompts, 1)
	assert.Contains(t, assistant.Prompts[0], "baseado na lista Cidade de Deus, Carandiru, mas")
	assert.Contains(t, assistant.Prompts[0], "ex: Cidade de Deus - tt0317248")
}

func TestSuggestMovieUseCase_ReplyWithoutIdentifier(t *testing.T) {
	assistant := &MockAssistant{
		AskFunc: func(ctx context.Context, prompt string) (string, error) {
			return "I recommend Central Station", nil
		},
	}
	catalog := &MockMovieCatalog{}
	uc := movie.NewSuggestMovieUseCase(catalog, assistant, discardLogger())

	_, err := uc.Execute(context.Background(), dtos.SuggestMovieQuery{Titles: []string{"Carandiru"}})

	assert.True(t, domainErrors.IsUnexpected(err))
	assert.Empty(t, catalog.GetOneCalls)
}

func TestSuggestMovieUseCase_SuggestedMovieNotFound(t *testing.T) {
	assistant := &MockAssistant{
		AskFunc: func(ctx context.Context, prompt string) (string, error) {
			return "Made Up - tt0000000", nil
		},
	}
	uc := movie.NewSuggestMovieUseCase(&MockMovieCatalog{}, assistant, discardLogger())

	_, err := uc.Execute(context.Background(), dtos.SuggestMovieQuery{Titles: []string{"Carandiru"}})

	assert.True(t, domainErrors.IsNotFound(err))
}

func TestSuggestMovieUseCase_AssistantErrorPropagates(t *testing.T) {
	assistant := &MockAssistant{
		AskFunc: func(ctx context.Context, prompt string) (string, error) {
			return "", domainErrors.BadRequest()
		},
	}
	uc := movie.NewSuggestMovieUseCase(&MockMovieCatalog{}, assistant, discardLogger())

	_, err := uc.Execute(context.Background(), dtos.SuggestMovieQuery{Titles: []string{"Carandiru"}})

	assert.True(t, domainErrors.IsBadRequest(err))
}

func TestSuggestMovieUseCase_OnlyBlankTitles(t *testing.T) {
	assistant := &MockAssistant{}
	uc := movie.NewSuggestMovieUseCase(&MockMovieCatalog{}, assistant, discardLogger())

	_, err := uc.Execute(context.Background(), dtos.SuggestMovieQuery{Titles: []string{"", "  "}})

	assert.True(t, domainErrors.IsValidationError(err))
	assert.Empty(t, assistant.Prompts)
}

func TestBuildSuggestionPrompt(t *testing.T) {
	prompt := movie.BuildSuggestionPrompt([]string{"Matrix", "Tenet"})

	assert.Equal(t,
		"Seja direto e siga exatamente o exemplo proposto a seguir após os dois pontos, me indique apenas um filme "+
			"baseado na lista Matrix, Tenet, mas não pode ser nenhum dessa lista e nem repetir a sugestão anterior, "+
			"seja criativo na escolha mas retorne algo que combine com os itens de lista, e coloque seu imdb CORRETO "+
			"no final, ex: Cidade de Deus - tt0317248",
		prompt)
}
