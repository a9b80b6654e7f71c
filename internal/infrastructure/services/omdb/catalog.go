// Package omdb - адаптер каталога фильмов (OMDb API).
package omdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Haleralex/quefilme/internal/application/ports"
	"github.com/Haleralex/quefilme/internal/domain/entities"
	"github.com/Haleralex/quefilme/internal/domain/errors"
	"github.com/Haleralex/quefilme/internal/infrastructure/httpclient"
)

// serviceName labels outbound metrics and the circuit breaker.
const serviceName = "omdb"

// Config - настройки каталога.
type Config struct {
	BaseURL string
	APIKey  string
}

// Catalog реализует ports.MovieCatalog поверх OMDb.
type Catalog struct {
	client httpclient.Client
	cfg    Config
}

var _ ports.MovieCatalog = (*Catalog)(nil)

// NewCatalog создаёт адаптер.
func NewCatalog(client httpclient.Client, cfg Config) *Catalog {
	return &Catalog{client: client, cfg: cfg}
}

// record - ответ OMDb на запрос по id; search hits use the same shape with fewer fields.
type record struct {
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	Runtime  string `json:"Runtime"`
	Genre    string `json:"Genre"`
	Actors   string `json:"Actors"`
	Plot     string `json:"Plot"`
	Poster   string `json:"Poster"`
	Type     string `json:"Type"`
	IMDbID   string `json:"imdbID"`
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

type searchResult struct {
	Search       []record `json:"Search"`
	TotalResults string   `json:"totalResults"`
	Response     string   `json:"Response"`
	Error        string   `json:"Error"`
}

func (r record) props() entities.MovieProps {
	return entities.MovieProps{
		IMDbID:      r.IMDbID,
		Title:       r.Title,
		Type:        r.Type,
		Image:       r.Poster,
		Year:        r.Year,
		Runtime:     r.Runtime,
		Genre:       r.Genre,
		Actors:      r.Actors,
		Description: r.Plot,
	}
}

// found reports whether OMDb answered with a hit. It signals misses with Response "False".
func found(response string) bool {
	return !strings.EqualFold(response, "False")
}

// GetOne: GET {base}?i={id}&apikey={key}.
func (c *Catalog) GetOne(ctx context.Context, imdbID string) (*ports.CatalogRecord, error) {
	id := strings.TrimSpace(imdbID)
	if id == "" {
		return nil, errors.ValidationError{Field: "imdbId", Message: "imdb id must not be empty", Code: "required"}
	}

	body, err := c.get(ctx, "i", id)
	if err != nil {
		return nil, err
	}

	var rec record
	if err := httpclient.DecodeJSON(body, &rec); err != nil {
		return nil, errors.WithCause(errors.Unexpected(), err)
	}

	if !found(rec.Response) {
		return &ports.CatalogRecord{Found: false}, nil
	}
	return &ports.CatalogRecord{Found: true, Movie: rec.props()}, nil
}

// Search: GET {base}?s={title}&apikey={key}.
func (c *Catalog) Search(ctx context.Context, title string) (*ports.CatalogSearch, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return nil, errors.ValidationError{Field: "title", Message: "title must not be empty", Code: "required"}
	}

	body, err := c.get(ctx, "s", t)
	if err != nil {
		return nil, err
	}

	var res searchResult
	if err := httpclient.DecodeJSON(body, &res); err != nil {
		return nil, errors.WithCause(errors.Unexpected(), err)
	}

	if !found(res.Response) {
		return &ports.CatalogSearch{Found: false, Results: []entities.MovieProps{}}, nil
	}

	results := make([]entities.MovieProps, len(res.Search))
	for i, r := range res.Search {
		results[i] = r.props()
	}
	return &ports.CatalogSearch{Found: true, Results: results}, nil
}

func (c *Catalog) get(ctx context.Context, param, value string) ([]byte, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid movies service url: %w", err)
	}
	q := u.Query()
	q.Set(param, value)
	q.Set("apikey", c.cfg.APIKey)
	u.RawQuery = q.Encode()

	resp, err := c.client.Do(ctx, httpclient.Request{
		Service: serviceName,
		Method:  http.MethodGet,
		URL:     u.String(),
	})
	if err != nil {
		return nil, err
	}

	return httpclient.HandleResponse(resp)
}
