package normalize

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// ToNumber converts an upstream value to float64. Numeric strings are parsed
// (comma decimal separators accepted); anything unparseable yields NaN.
func ToNumber(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case int32:
		return float64(t)
	case json.Number:
		return parseFloat(string(t))
	case string:
		return parseFloat(t)
	}
	return math.NaN()
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	// with both separators present, the last one is the decimal point
	if c, d := strings.LastIndex(s, ","), strings.LastIndex(s, "."); c >= 0 && d >= 0 {
		if c > d {
			s = strings.ReplaceAll(s, ".", "")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// Finite returns a pointer to f, or nil when f is NaN or infinite.
func Finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Number is a JSON value that may arrive as a number or a numeric string.
// Anything else decodes to an absent value, never an error.
type Number struct {
	Value float64
	Valid bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	if p := Finite(ToNumber(raw)); p != nil {
		n.Value, n.Valid = *p, true
	}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Float returns the value or nil.
func (n Number) Float() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// NonNegative is Float restricted to values >= 0.
func (n Number) NonNegative() *float64 {
	if !n.Valid || n.Value < 0 {
		return nil
	}
	v := n.Value
	return &v
}

// Int truncates the value to an int, or nil.
func (n Number) Int() *int {
	if !n.Valid || n.Value > math.MaxInt32 || n.Value < math.MinInt32 {
		return nil
	}
	v := int(n.Value)
	return &v
}

// ID returns the value as an external identifier. Zero means absent.
func (n Number) ID() int64 {
	if !n.Valid || n.Value <= 0 || n.Value != math.Trunc(n.Value) {
		return 0
	}
	return int64(n.Value)
}

// OptID is ID as a pointer, nil when absent.
func (n Number) OptID() *int64 {
	if id := n.ID(); id > 0 {
		return &id
	}
	return nil
}
