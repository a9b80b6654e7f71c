// Package valueobjects contains immutable value objects that represent domain concepts
// without identity. They are compared by their values, not by identity.
package valueobjects

import (
	"errors"
	"strings"
)

// Language represents a translation language code.
//
// Value Object Pattern: No identity, compared by value, immutable.
type Language struct {
	code string // Private field ensures immutability
}

// Supported languages. Titles arrive in Brazilian Portuguese and the catalog is English.
var (
	PortugueseBR = Language{code: "pt-br"}
	English      = Language{code: "en"}
)

var supportedLanguages = map[string]Language{
	"pt-br": PortugueseBR,
	"en":    English,
}

// ErrInvalidLanguage is returned when an unsupported language code is provided.
var ErrInvalidLanguage = errors.New("invalid language code")

// NewLanguage creates a Language from a case-insensitive code.
func NewLanguage(code string) (Language, error) {
	lang, ok := supportedLanguages[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return Language{}, ErrInvalidLanguage
	}
	return lang, nil
}

// Code returns the language code as sent to the translation provider.
func (l Language) Code() string {
	return l.code
}

// String implements fmt.Stringer.
func (l Language) String() string {
	return l.code
}

// Equals compares two languages by value.
func (l Language) Equals(other Language) bool {
	return l.code == other.code
}

// IsZero reports whether the language was never initialized.
func (l Language) IsZero() bool {
	return l.code == ""
}
