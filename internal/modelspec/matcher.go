// Package modelspec links yachts to yacht models by a scoring heuristic and
// back-fills missing hull specifications from the matched model.
//
// Scoring (per candidate model):
//
//	+100  names equal (case-insensitive, trimmed)
//	 +50  one name contains the other
//	 +10  per word pair (both words longer than 2 runes) where one contains
//	      the other; only when neither rule above matched
//	 +20  cabin counts equal and both present
//	 +20  WC counts equal and both present
//
// The highest score wins, ties go to the first candidate, and a match needs
// at least Threshold points. A wrong match degrades completeness only: the
// back-fill never overwrites a populated field.
package modelspec

import (
	"strings"
	"unicode/utf8"

	"charter_sync/internal/domain"
)

// Threshold is the minimum score for a match.
const Threshold = 30

const (
	scoreEqualName    = 100
	scoreContainsName = 50
	scoreWordPair     = 10
	scoreCabins       = 20
	scoreWC           = 20
	minWordLen        = 3
)

// Score rates how well model describes yacht.
func Score(y domain.Yacht, m domain.YachtModel) int {
	score := nameScore(y.Name, m.Name.English())
	if y.Cabins != nil && m.Cabins != nil && *y.Cabins == *m.Cabins {
		score += scoreCabins
	}
	if y.WC != nil && m.WC != nil && *y.WC == *m.WC {
		score += scoreWC
	}
	return score
}

func nameScore(yachtName, modelName string) int {
	yn := strings.ToLower(strings.TrimSpace(yachtName))
	mn := strings.ToLower(strings.TrimSpace(modelName))
	if yn == "" || mn == "" {
		return 0
	}
	if yn == mn {
		return scoreEqualName
	}
	if strings.Contains(yn, mn) || strings.Contains(mn, yn) {
		return scoreContainsName
	}
	score := 0
	for _, yw := range strings.Fields(yn) {
		if utf8.RuneCountInString(yw) < minWordLen {
			continue
		}
		for _, mw := range strings.Fields(mn) {
			if utf8.RuneCountInString(mw) < minWordLen {
				continue
			}
			if strings.Contains(yw, mw) || strings.Contains(mw, yw) {
				score += scoreWordPair
			}
		}
	}
	return score
}

// Best returns the best-scoring model for yacht. ok is false when no model
// reaches Threshold.
func Best(y domain.Yacht, models []domain.YachtModel) (best domain.YachtModel, score int, ok bool) {
	top := -1
	for _, m := range models {
		if s := Score(y, m); s > top {
			best, top = m, s
		}
	}
	if top < Threshold {
		return domain.YachtModel{}, top, false
	}
	return best, top, true
}

// Backfill copies the model's hull specs into fields the yacht lacks (nil or
// zero) and returns the names of the fields it set.
func Backfill(y *domain.Yacht, m domain.YachtModel) []string {
	var filled []string
	fill := func(name string, dst **float64, src *float64) {
		if isSet(*dst) || src == nil || *src <= 0 {
			return
		}
		v := *src
		*dst = &v
		filled = append(filled, name)
	}
	fill("length", &y.Length, m.LOA)
	fill("beam", &y.Beam, m.Beam)
	fill("draft", &y.Draft, m.Draft)
	fill("fuelCapacity", &y.FuelCapacity, m.FuelTank)
	fill("waterCapacity", &y.WaterCapacity, m.WaterTank)
	return filled
}

// MissingSpecs reports whether any back-fillable field is unset on y.
func MissingSpecs(y domain.Yacht) bool {
	return !isSet(y.Length) || !isSet(y.Beam) || !isSet(y.Draft) ||
		!isSet(y.FuelCapacity) || !isSet(y.WaterCapacity)
}

func isSet(p *float64) bool { return p != nil && *p != 0 }
