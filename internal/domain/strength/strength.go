// Package strength scores the twelve houses of a chart from occupancy,
// lordship and incoming aspects.
package strength

import (
	"math"

	chart "github.com/samvat/rectify/internal/domain/chart"
	dignity "github.com/samvat/rectify/internal/domain/dignity"
)

// Mixing weights. Occupancy dominates by convention; the lord and aspect
// contributions are fixed policy constants, not computed.
const (
	lordWeight   = 0.4
	aspectWeight = 0.3
	maxStrength  = 1.0
)

// HouseStrength is one house's normalized score.
type HouseStrength struct {
	House int     `json:"house"`
	Score float64 `json:"score"`
}

// aspectOffsets lists, per planet, the house offsets it casts a full
// aspect on (graha drishti). Every planet aspects the 7th from itself;
// Mars, Jupiter and Saturn carry extra aspects.
var aspectOffsets = map[chart.Planet][]int{
	chart.Mars:    {4, 7, 8},
	chart.Jupiter: {5, 7, 9},
	chart.Saturn:  {3, 7, 10},
}

var defaultAspectOffsets = []int{7}

// offsetsFor returns the aspect offsets of a planet.
func offsetsFor(p chart.Planet) []int {
	if off, ok := aspectOffsets[p]; ok {
		return off
	}
	return defaultAspectOffsets
}

// Evaluate scores every house of the chart. Each score is
// occupant + 0.4*lord + 0.3*aspect, clamped to [0,1].
func Evaluate(c chart.Chart) [chart.HouseCount]HouseStrength {
	var out [chart.HouseCount]HouseStrength
	for h := 1; h <= chart.HouseCount; h++ {
		score := occupantStrength(c, h) +
			lordWeight*lordStrength(c, h) +
			aspectWeight*aspectStrength(c, h)
		out[h-1] = HouseStrength{House: h, Score: math.Min(maxStrength, score)}
	}
	return out
}

// occupantStrength sums the dignity weights of planets in the house.
func occupantStrength(c chart.Chart, house int) float64 {
	var sum float64
	for _, planet := range c.Occupants(house) {
		sum += dignity.PlanetValue(c, planet)
	}
	return sum
}

// lordStrength is the dignity weight of the planet ruling the house's
// sign, zero when the lord is absent from the chart.
func lordStrength(c chart.Chart, house int) float64 {
	lord := c.HouseSign(house).Lord()
	if _, present := c.Positions[lord]; !present {
		return 0
	}
	return dignity.PlanetValue(c, lord)
}

// aspectStrength sums the dignity weights of planets casting an aspect on
// the house, clamped to 1 before the outer weight applies.
func aspectStrength(c chart.Chart, house int) float64 {
	var sum float64
	for planet := range c.Positions {
		if planet == chart.Ascendant {
			continue
		}
		from := c.HouseOf(planet)
		if from == 0 || from == house {
			continue
		}
		for _, off := range offsetsFor(planet) {
			if (from-1+off-1)%chart.HouseCount+1 == house {
				sum += dignity.PlanetValue(c, planet)
				break
			}
		}
	}
	return math.Min(1, sum)
}
