package normalize_test

import (
	"math"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"charter_sync/internal/normalize"
)

func TestToNumber(t *testing.T) {
	if got := normalize.ToNumber("12.5"); got != 12.5 {
		t.Fatalf("string: got %v", got)
	}
	if got := normalize.ToNumber(12.5); got != 12.5 {
		t.Fatalf("number: got %v", got)
	}
	if got := normalize.ToNumber(" 8,5 "); got != 8.5 {
		t.Fatalf("comma decimal: got %v", got)
	}
	if got := normalize.ToNumber("1,234.50"); got != 1234.5 {
		t.Fatalf("thousands separator: got %v", got)
	}
	if got := normalize.ToNumber("1.234,50"); got != 1234.5 {
		t.Fatalf("dotted thousands: got %v", got)
	}
	for _, bad := range []any{"abc", "", nil, true, []any{1}} {
		if got := normalize.ToNumber(bad); !math.IsNaN(got) {
			t.Fatalf("%v: expected NaN, got %v", bad, got)
		}
	}
	if normalize.Finite(normalize.ToNumber("abc")) != nil {
		t.Fatalf("NaN must be absent")
	}
	if normalize.Finite(math.Inf(1)) != nil {
		t.Fatalf("Inf must be absent")
	}
}

func TestNumber_JSON(t *testing.T) {
	var v struct {
		A normalize.Number `json:"a"`
		B normalize.Number `json:"b"`
		C normalize.Number `json:"c"`
		D normalize.Number `json:"d"`
		E normalize.Number `json:"e"`
	}
	in := `{"a": 12.5, "b": "4.2", "c": "n/a", "d": null, "e": {"x":1}}`
	if err := json.Unmarshal([]byte(in), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !v.A.Valid || v.A.Value != 12.5 {
		t.Fatalf("a: %+v", v.A)
	}
	if !v.B.Valid || v.B.Value != 4.2 {
		t.Fatalf("b: %+v", v.B)
	}
	if v.C.Valid || v.D.Valid || v.E.Valid {
		t.Fatalf("c/d/e should be absent: %+v %+v %+v", v.C, v.D, v.E)
	}

	neg := normalize.Number{Value: -3, Valid: true}
	if neg.NonNegative() != nil {
		t.Fatalf("negative must not pass NonNegative")
	}
	if (normalize.Number{Value: 7.9, Valid: true}).ID() != 0 {
		t.Fatalf("fractional id must be rejected")
	}
	if id := (normalize.Number{Value: 42, Valid: true}).ID(); id != 42 {
		t.Fatalf("id: %d", id)
	}
}

func TestToMultilingualText(t *testing.T) {
	got := normalize.ToMultilingualText("Oceanis 46")
	if got[normalize.EnglishKey] != "Oceanis 46" {
		t.Fatalf("english: %q", got[normalize.EnglishKey])
	}
	for _, l := range normalize.Locales {
		if got[l] != "Oceanis 46" {
			t.Fatalf("locale %s: %q", l, got[l])
		}
	}

	in := map[string]any{"textEN": "A", "textDE": "B"}
	out := normalize.ToMultilingualText(in)
	if len(out) != 2 || out["textEN"] != "A" || out["textDE"] != "B" {
		t.Fatalf("pass-through changed value: %+v", out)
	}

	if normalize.ToMultilingualText(12) != nil {
		t.Fatalf("number should not become text")
	}
}

func TestParseProviderDate(t *testing.T) {
	d := normalize.ParseProviderDate("05.03.2024")
	if d == nil || d.Year() != 2024 || d.Month() != time.March || d.Day() != 5 {
		t.Fatalf("day-month-year: %v", d)
	}

	dt := normalize.ParseProviderDate("05.03.2024 17:30")
	if dt == nil || dt.Hour() != 17 || dt.Minute() != 30 {
		t.Fatalf("with time: %v", dt)
	}

	dts := normalize.ParseProviderDate("05.03.2024 17:30:15")
	if dts == nil || dts.Second() != 15 {
		t.Fatalf("with seconds: %v", dts)
	}

	if normalize.ParseProviderDate("") != nil {
		t.Fatalf("empty must be nil")
	}
	if normalize.ParseProviderDate("31.02.2024") != nil {
		t.Fatalf("invalid calendar date must be nil")
	}
	if normalize.ParseProviderDate("garbage") != nil {
		t.Fatalf("garbage must be nil")
	}

	iso := normalize.ParseProviderDate("2024-03-05T10:00:00Z")
	if iso == nil || iso.Day() != 5 {
		t.Fatalf("fallback: %v", iso)
	}
}

func TestFormatProviderDate(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 9, 7, 0, 0, time.UTC)
	if got := normalize.FormatProviderDate(ts); got != "05.03.2024" {
		t.Fatalf("date: %s", got)
	}
	if got := normalize.FormatProviderDateTime(ts); got != "05.03.2024 09:07" {
		t.Fatalf("datetime: %s", got)
	}
}

func TestDate_JSON(t *testing.T) {
	var v struct {
		From normalize.Date `json:"from"`
		To   normalize.Date `json:"to"`
		Bad  normalize.Date `json:"bad"`
	}
	if err := json.Unmarshal([]byte(`{"from":"01.06.2025","to":null,"bad":17}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.From.T == nil || v.From.T.Month() != time.June {
		t.Fatalf("from: %v", v.From.T)
	}
	if v.To.T != nil || v.Bad.T != nil {
		t.Fatalf("to/bad should be nil")
	}
}
