package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/deepdive/internal/shared"
)

// Language is a content locale tag.
type Language string

const (
	German  Language = "de"
	English Language = "en"
)

// Languages lists the supported locales in display order.
var Languages = []Language{German, English}

// DefaultLanguage is used when no language is requested.
const DefaultLanguage = German

// ParseLanguage normalizes s into a supported [Language].
//
// Region suffixes are ignored, so "de-DE" and "en_US" are accepted. An empty string selects
// [DefaultLanguage].
func ParseLanguage(s string) (Language, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultLanguage, nil
	}

	if base, _, ok := strings.Cut(strings.ReplaceAll(s, "_", "-"), "-"); ok {
		s = base
	}

	switch Language(s) {
	case German, English:
		return Language(s), nil
	default:
		return "", fmt.Errorf("%w: %q", shared.ErrInvalidLanguage, s)
	}
}

func (l Language) String() string { return string(l) }

// Locale returns the BCP 47 tag used for date formatting.
func (l Language) Locale() string {
	if l == English {
		return "en-US"
	}
	return "de-DE"
}
