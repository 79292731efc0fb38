package problem

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var leadingNumber = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// EstimatedHours reads the first number of the time estimate as hours.
// Minutes and days are converted (a working day is 8 hours); anything without
// a positive number yields defaultHours. Ranges take their lower bound.
func (p Problem) EstimatedHours(defaultHours float64) float64 {
	text := strings.ToLower(p.Details.TimeEstimate)

	loc := leadingNumber.FindStringIndex(text)
	if loc == nil {
		return defaultHours
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(text[loc[0]:loc[1]], ",", "."), 64)
	if err != nil || value <= 0 || math.IsInf(value, 0) {
		return defaultHours
	}

	unit := text[loc[1]:]
	switch {
	case strings.Contains(unit, "min"):
		value /= 60
	case strings.Contains(unit, "day"):
		value *= 8
	}

	return value
}
