package normalize

import (
	"bytes"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// Wire formats used by the upstream provider.
const (
	ProviderDateLayout     = "02.01.2006"
	ProviderDateTimeLayout = "02.01.2006 15:04"
)

var providerLayouts = []string{
	"02.01.2006 15:04:05",
	ProviderDateTimeLayout,
	ProviderDateLayout,
}

var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseProviderDate parses DD.MM.YYYY[ HH:mm[:ss]] and falls back to common
// ISO layouts. It returns nil for empty or unparseable input.
func ParseProviderDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, l := range providerLayouts {
		if t, err := time.ParseInLocation(l, s, time.UTC); err == nil {
			return &t
		}
	}
	for _, l := range fallbackLayouts {
		if t, err := time.Parse(l, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// FormatProviderDate renders t as DD.MM.YYYY.
func FormatProviderDate(t time.Time) string { return t.Format(ProviderDateLayout) }

// FormatProviderDateTime renders t as DD.MM.YYYY HH:mm.
func FormatProviderDateTime(t time.Time) string { return t.Format(ProviderDateTimeLayout) }

// Date is a JSON string in one of the provider date formats. Unparseable
// values decode to nil.
type Date struct{ T *time.Time }

func (d *Date) UnmarshalJSON(b []byte) error {
	d.T = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	d.T = ParseProviderDate(s)
	return nil
}
