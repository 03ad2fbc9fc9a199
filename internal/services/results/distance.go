package results

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/killallgit/telehotels/internal/services/hotels"
)

const kmPerMile = 1.609344

// distancePattern matches "0,4 km", "1.2 км", "3 miles"
var distancePattern = regexp.MustCompile(`^\s*(\d+(?:[.,]\d+)?)\s*([\p{L}]*)`)

// ParseDistanceKm converts a landmark distance text to kilometres
func ParseDistanceKm(text string) (float64, bool) {
	m := distancePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	value, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}

	switch strings.ToLower(m[2]) {
	case "mile", "miles", "mi":
		value *= kmPerMile
	case "", "km", "км":
	default:
		return 0, false
	}
	return value, true
}

// FilterByCenterDistance keeps hotels whose city-center distance lies in
// [min, max] km, preserving order. Hotels without a parseable distance are
// dropped.
func FilterByCenterDistance(list []hotels.Hotel, min, max float64) []hotels.Hotel {
	kept := make([]hotels.Hotel, 0, len(list))
	for _, hotel := range list {
		km, ok := ParseDistanceKm(CenterDistance(hotel))
		if !ok || km < min || km > max {
			continue
		}
		kept = append(kept, hotel)
	}
	return kept
}
