package service

import (
	"strconv"
	"strings"
)

// Unit is a recognized quantity unit keyword.
type Unit string

const (
	UnitKg     Unit = "kg"
	UnitPieces Unit = "pieces" // also "items"
	UnitMeals  Unit = "meals"
	UnitBoxes  Unit = "boxes" // also "cans"
)

// Quantity is the tagged result of parsing a free-text quantity string.
// When Recognized is false the unit keyword was unknown and Value is the
// bare magnitude (1 when no number parsed at all).
type Quantity struct {
	Value      float64
	Unit       Unit
	Recognized bool
}

// ParseQuantity parses the leading numeric magnitude out of free text like
// "5 kg" or "20 pieces" and tags it with the first recognized unit keyword.
// Keyword precedence, first match wins: kg, pieces/items, meals, boxes/cans.
func ParseQuantity(text string) Quantity {
	lower := strings.ToLower(text)
	v, ok := leadingNumber(lower)

	switch {
	case strings.Contains(lower, "kg"):
		return Quantity{Value: v, Unit: UnitKg, Recognized: true}
	case strings.Contains(lower, "pieces") || strings.Contains(lower, "items"):
		return Quantity{Value: v, Unit: UnitPieces, Recognized: true}
	case strings.Contains(lower, "meals"):
		return Quantity{Value: v, Unit: UnitMeals, Recognized: true}
	case strings.Contains(lower, "boxes") || strings.Contains(lower, "cans"):
		return Quantity{Value: v, Unit: UnitBoxes, Recognized: true}
	default:
		if !ok {
			// Nothing numeric at all: assume one unit of food.
			v = 1
		}
		return Quantity{Value: v}
	}
}

// MassKg converts the parsed quantity to an estimated mass in kilograms:
// pieces average 250 g, a meal 250 g, a box or can 500 g. Unrecognized
// units are read as kilograms directly.
func (q Quantity) MassKg() float64 {
	switch q.Unit {
	case UnitPieces:
		return q.Value / 4
	case UnitMeals:
		return q.Value * 0.25
	case UnitBoxes:
		return q.Value / 2
	default:
		return q.Value
	}
}

// EstimateMassKg parses text and returns the estimated mass in kilograms.
func EstimateMassKg(text string) float64 {
	return ParseQuantity(text).MassKg()
}

// leadingNumber parses the numeric token at the start of s (after leading
// whitespace), e.g. "15 cans" → 15, "2.5kg" → 2.5. ok is false when s does
// not start with a number.
func leadingNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' || c == '.' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	for end > 0 {
		v, err := strconv.ParseFloat(s[:end], 64)
		if err == nil {
			return v, true
		}
		// Trailing dot or a second dot: back off one byte and retry.
		end--
	}
	return 0, false
}
