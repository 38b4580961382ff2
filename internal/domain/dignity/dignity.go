// Package dignity classifies planetary strength from the angular distance
// to each planet's exaltation point.
package dignity

import (
	chart "github.com/samvat/rectify/internal/domain/chart"
)

// Status is a planet's qualitative strength classification.
type Status string

// Dignity statuses, strongest to weakest.
const (
	Exalted     Status = "exalted"
	Strong      Status = "strong"
	Neutral     Status = "neutral"
	Weak        Status = "weak"
	Debilitated Status = "debilitated"
)

// Classification band constants, in degrees of circular distance from the
// exaltation point.
const (
	exaltedOrb        = 6
	strongOrb         = 30
	weakBandLow       = 150
	weakBandHigh      = 210
	debilitatedLow    = 174
	debilitatedHigh   = 186
)

// exaltationPoints holds the absolute ecliptic degree at which each planet
// is exalted. Planets absent from this table (nodes, outer planets) carry
// no dignity rule and are omitted from results rather than defaulted.
var exaltationPoints = map[chart.Planet]float64{
	chart.Sun:     10,
	chart.Moon:    33,
	chart.Mars:    298,
	chart.Mercury: 165,
	chart.Jupiter: 95,
	chart.Venus:   357,
	chart.Saturn:  200,
}

// Result is one planet's dignity classification in a chart.
type Result struct {
	Planet chart.Planet `json:"planet"`
	Status Status       `json:"status"`
}

// ExaltationPoint returns the exaltation degree for a planet and whether
// the planet has a dignity rule at all.
func ExaltationPoint(p chart.Planet) (float64, bool) {
	deg, ok := exaltationPoints[p]
	return deg, ok
}

// Classify returns the status for a planet at the given longitude, or
// false when the planet has no dignity rule.
func Classify(p chart.Planet, longitude float64) (Status, bool) {
	point, ok := exaltationPoints[p]
	if !ok {
		return "", false
	}
	dist := chart.CircularDistance(longitude, point)
	switch {
	case dist <= exaltedOrb:
		return Exalted, true
	case dist >= debilitatedLow && dist <= debilitatedHigh:
		return Debilitated, true
	case dist <= strongOrb:
		return Strong, true
	case dist >= weakBandLow && dist <= weakBandHigh:
		return Weak, true
	default:
		return Neutral, true
	}
}

// Evaluate classifies every ruled planet in the chart. Planets without an
// exaltation point do not appear in the result; the absence is the
// deliberate "no dignity rule" case, not an implicit neutral.
func Evaluate(c chart.Chart) []Result {
	out := make([]Result, 0, len(exaltationPoints))
	for _, planet := range orderedPlanets {
		pos, present := c.Positions[planet]
		if !present {
			continue
		}
		status, ruled := Classify(planet, pos.Longitude)
		if !ruled {
			continue
		}
		out = append(out, Result{Planet: planet, Status: status})
	}
	return out
}

// orderedPlanets fixes a deterministic result order.
var orderedPlanets = []chart.Planet{
	chart.Sun, chart.Moon, chart.Mars, chart.Mercury,
	chart.Jupiter, chart.Venus, chart.Saturn,
}

// Policy weights used by house-strength aggregation. An exalted occupant
// nearly carries a house on its own; a debilitated one barely registers.
const (
	exaltedValue     = 0.60
	strongValue      = 0.45
	neutralValue     = 0.30
	weakValue        = 0.15
	debilitatedValue = 0.05
)

// Value maps a status to its [0,1] policy weight.
func Value(s Status) float64 {
	switch s {
	case Exalted:
		return exaltedValue
	case Strong:
		return strongValue
	case Weak:
		return weakValue
	case Debilitated:
		return debilitatedValue
	default:
		return neutralValue
	}
}

// PlanetValue returns the dignity weight of a planet in a chart. Planets
// without a dignity rule, and planets missing from the chart, count at the
// neutral weight so occupancy math still sees them.
func PlanetValue(c chart.Chart, p chart.Planet) float64 {
	pos, present := c.Positions[p]
	if !present {
		return neutralValue
	}
	status, ruled := Classify(p, pos.Longitude)
	if !ruled {
		return neutralValue
	}
	return Value(status)
}
