package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/chris/gdpdash/pkg/models"
)

// thousandSuffixes are expanded by multiplying the prefix by 1000.
// Matching is case-sensitive: "12K" is not a shorthand value.
var thousandSuffixes = []string{"thousand", "k"}

// Normalize converts a raw table value into a cell.
// "12.3k" becomes 12300, "45" becomes 45, anything else is kept as text and
// marked non-numeric.
func Normalize(raw string) models.Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return models.Missing(raw)
	}

	if v, ok := expandSuffix(s); ok {
		return models.Number(raw, v)
	}

	if v, ok := parseFloat(s); ok {
		return models.Number(raw, v)
	}

	return models.Missing(raw)
}

// expandSuffix handles shorthand values such as "12.3k" or "4 thousand"
func expandSuffix(s string) (float64, bool) {
	for _, suffix := range thousandSuffixes {
		prefix, found := strings.CutSuffix(s, suffix)
		if !found {
			continue
		}
		v, ok := parseFloat(strings.TrimSpace(prefix))
		if !ok {
			return 0, false
		}
		return v * 1000, true
	}
	return 0, false
}

// parseFloat parses a finite float. NaN and infinities are not plottable.
func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
