// Package entities contains domain entities.
//
// Movie is a read-only projection of a catalog record: the catalog owns identity and
// lifecycle, this service only shapes what it returns.
package entities

import "strings"

// notAvailable is the catalog placeholder for a missing attribute.
const notAvailable = "N/A"

// MovieProps - поля для создания Movie.
type MovieProps struct {
	IMDbID      string
	Title       string
	Type        string
	Image       string
	Year        string
	Runtime     string
	Genre       string
	Actors      string
	Description string
}

// Movie represents one title from the movie catalog.
type Movie struct {
	imdbID      string
	title       string
	kind        string
	image       string
	year        string
	runtime     string
	genre       string
	actors      string
	description string
}

// NewMovie creates a Movie, dropping catalog "N/A" placeholders.
func NewMovie(p MovieProps) *Movie {
	return &Movie{
		imdbID:      clean(p.IMDbID),
		title:       clean(p.Title),
		kind:        clean(p.Type),
		image:       clean(p.Image),
		year:        clean(p.Year),
		runtime:     clean(p.Runtime),
		genre:       clean(p.Genre),
		actors:      clean(p.Actors),
		description: clean(p.Description),
	}
}

func clean(v string) string {
	v = strings.TrimSpace(v)
	if v == notAvailable {
		return ""
	}
	return v
}

// ============================================
// Getters
// ============================================

func (m *Movie) IMDbID() string      { return m.imdbID }
func (m *Movie) Title() string       { return m.title }
func (m *Movie) Type() string        { return m.kind }
func (m *Movie) Image() string       { return m.image }
func (m *Movie) Year() string        { return m.year }
func (m *Movie) Runtime() string     { return m.runtime }
func (m *Movie) Genre() string       { return m.genre }
func (m *Movie) Actors() string      { return m.actors }
func (m *Movie) Description() string { return m.description }

// HasDetails reports whether the movie carries full-record fields (search hits don't).
func (m *Movie) HasDetails() bool {
	return m.genre != "" || m.actors != "" || m.description != "" || m.runtime != ""
}
