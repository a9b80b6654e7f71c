// Package ports определяет интерфейсы (порты) для внешних сервисов.
// Эти интерфейсы реализуются в Infrastructure Layer.
//
// Pattern: Ports & Adapters (Hexagonal Architecture)
package ports

import (
	"context"

	"github.com/Haleralex/quefilme/internal/domain/entities"
	"github.com/Haleralex/quefilme/internal/domain/valueobjects"
)

// CatalogRecord is the result of a single-title lookup.
// Found is false when the catalog answered but has no such title.
type CatalogRecord struct {
	Found bool
	Movie entities.MovieProps
}

// CatalogSearch is the result of a title search.
type CatalogSearch struct {
	Found   bool
	Results []entities.MovieProps
}

// MovieCatalog определяет контракт для каталога фильмов (OMDb).
type MovieCatalog interface {
	// GetOne looks a title up by its IMDb id.
	GetOne(ctx context.Context, imdbID string) (*CatalogRecord, error)

	// Search finds titles matching free text.
	Search(ctx context.Context, title string) (*CatalogSearch, error)
}

// Translator переводит строку между двумя языками.
type Translator interface {
	Translate(ctx context.Context, text string, source, target valueobjects.Language) (string, error)
}

// Assistant отправляет prompt в chat-completion модель и возвращает текст ответа.
type Assistant interface {
	Ask(ctx context.Context, prompt string) (string, error)
}
