package valueobjects

import (
	"errors"
	"regexp"
	"strings"
)

// IMDbID is a catalog identifier (e.g. "tt0317248").
//
// The catalog is the authority on which ids exist, so only emptiness is rejected here.
// An unknown id is a NotFound from the catalog, not a validation error.
type IMDbID struct {
	value string
}

// ErrInvalidIMDbID is returned for a blank identifier.
var ErrInvalidIMDbID = errors.New("invalid IMDb ID: ID must be a non-empty string")

// ErrNoIdentifier is returned when a free-text reply holds no "Title - id" pair.
var ErrNoIdentifier = errors.New("reply does not contain a title - identifier pair")

// NewIMDbID creates an IMDbID from a raw string.
func NewIMDbID(raw string) (IMDbID, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return IMDbID{}, ErrInvalidIMDbID
	}
	return IMDbID{value: v}, nil
}

// String returns the identifier.
func (id IMDbID) String() string {
	return id.value
}

// replyNoise matches everything except letters, digits, whitespace and '-'.
var replyNoise = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)

// identifierSeparator separates the title from the identifier in an AI reply.
const identifierSeparator = " - "

// ExtractIMDbID pulls the trailing identifier out of a reply shaped like
// "Cidade de Deus - tt0317248".
//
// Punctuation is stripped first, so "Tenet!!! - tt1375666###" still yields tt1375666.
// The identifier is the first token after the last separator, which tolerates titles
// containing " - " and trailing words such as a year.
func ExtractIMDbID(reply string) (IMDbID, error) {
	cleaned := replyNoise.ReplaceAllString(reply, "")

	parts := strings.Split(cleaned, identifierSeparator)
	if len(parts) < 2 {
		return IMDbID{}, ErrNoIdentifier
	}

	fields := strings.Fields(parts[len(parts)-1])
	if len(fields) == 0 {
		return IMDbID{}, ErrNoIdentifier
	}

	return NewIMDbID(fields[0])
}
