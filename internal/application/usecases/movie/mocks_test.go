package movie_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/Haleralex/quefilme/internal/application/ports"
	"github.com/Haleralex/quefilme/internal/domain/valueobjects"
)

// ============================================
// Mock Implementations (Test Doubles)
// ============================================

// MockMovieCatalog - mock реализация MovieCatalog.
type MockMovieCatalog struct {
	GetOneFunc func(ctx context.Context, imdbID string) (*ports.CatalogRecord, error)
	SearchFunc func(ctx context.Context, title string) (*ports.CatalogSearch, error)

	GetOneCalls []string
	SearchCalls []string
}

func (m *MockMovieCatalog) GetOne(ctx context.Context, imdbID string) (*ports.CatalogRecord, error) {
	m.GetOneCalls = append(m.GetOneCalls, imdbID)
	if m.GetOneFunc != nil {
		return m.GetOneFunc(ctx, imdbID)
	}
	return &ports.CatalogRecord{Found: false}, nil
}

func (m *MockMovieCatalog) Search(ctx context.Context, title string) (*ports.CatalogSearch, error) {
	m.SearchCalls = append(m.SearchCalls, title)
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, title)
	}
	return &ports.CatalogSearch{Found: false}, nil
}

// MockTranslator - mock реализация Translator.
type MockTranslator struct {
	TranslateFunc func(ctx context.Context, text string, source, target valueobjects.Language) (string, error)
}

func (m *MockTranslator) Translate(ctx context.Context, text string, source, target valueobjects.Language) (string, error) {
	if m.TranslateFunc != nil {
		return m.TranslateFunc(ctx, text, source, target)
	}
	return text, nil
}

// MockAssistant - mock реализация Assistant.
type MockAssistant struct {
	AskFunc func(ctx context.Context, prompt string) (string, error)
	Prompts []string
}

func (m *MockAssistant) Ask(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.AskFunc != nil {
		return m.AskFunc(ctx, prompt)
	}
	return "", nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
