package domain

import (
	json "github.com/goccy/go-json"

	"charter_sync/internal/normalize"
)

// MultilingualText maps a locale key (textEN, textDE, ...) to a string.
// Upstream sends either a locale object or a bare string for the same field;
// both decode into the locale form.
type MultilingualText map[string]string

func (m *MultilingualText) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		*m = nil
		return nil
	}
	*m = normalize.ToMultilingualText(raw)
	return nil
}

// English returns the English text, falling back to any non-empty locale.
func (m MultilingualText) English() string {
	if s := m[normalize.EnglishKey]; s != "" {
		return s
	}
	for _, l := range normalize.Locales {
		if s := m[l]; s != "" {
			return s
		}
	}
	return ""
}

// Text builds a MultilingualText from a single string.
func Text(s string) MultilingualText { return normalize.ToMultilingualText(s) }

// WithEnglish fills a missing English entry from the first available locale.
func (m MultilingualText) WithEnglish() MultilingualText {
	if len(m) == 0 || m[normalize.EnglishKey] != "" {
		return m
	}
	if s := m.English(); s != "" {
		m[normalize.EnglishKey] = s
	}
	return m
}
