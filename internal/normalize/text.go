package normalize

import "strings"

// Locales lists the locale keys the upstream uses for multilingual fields.
var Locales = []string{
	"textEN", "textDE", "textFR", "textIT", "textES", "textHR",
	"textCZ", "textHU", "textLT", "textLV", "textNL", "textNO",
	"textPL", "textRU", "textSE", "textSI", "textSK", "textTR",
}

// EnglishKey is the only locale a multilingual record must carry.
const EnglishKey = "textEN"

// ToMultilingualText passes locale maps through and replicates a bare string
// into every locale. Unsupported values yield nil.
func ToMultilingualText(v any) map[string]string {
	switch t := v.(type) {
	case map[string]string:
		return t
	case map[string]any:
		out := make(map[string]string, len(t))
		for k, val := range t {
			if s, ok := val.(string); ok {
				out[k] = s
			}
		}
		return out
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		out := make(map[string]string, len(Locales))
		for _, l := range Locales {
			out[l] = t
		}
		return out
	}
	return nil
}
