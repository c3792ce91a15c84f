package core

import (
	"fmt"
	"strings"
)

// Locale is the language the portal renders pages in. It is sticky to the
// server-side session, not a request parameter.
type Locale string

const (
	LocaleRussian Locale = "ru"
	LocaleEnglish Locale = "en"
)

// language ids used by /user/lng/{id}
var languageIds = map[Locale]int{
	LocaleRussian: 1,
	LocaleEnglish: 2,
}

func ParseLocale(value string) (Locale, error) {
	locale := Locale(strings.ToLower(strings.TrimSpace(value)))
	_, ok := languageIds[locale]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidLocale, value)
	}
	return locale, nil
}

func (l Locale) Valid() bool {
	_, ok := languageIds[l]
	return ok
}

// SelectPath is the origin-relative path that switches the session to l.
func (l Locale) SelectPath() string {
	return fmt.Sprintf("/user/lng/%d", languageIds[l])
}
