// Package chart contains the positional domain model shared by the engine:
// planets, signs, position sets and whole-sign house reckoning.
package chart

import (
	"fmt"
	"math"
)

// Planet identifies a chart point.
type Planet string

// Chart points recognized by the engine.
const (
	Sun       Planet = "sun"
	Moon      Planet = "moon"
	Mars      Planet = "mars"
	Mercury   Planet = "mercury"
	Jupiter   Planet = "jupiter"
	Venus     Planet = "venus"
	Saturn    Planet = "saturn"
	Rahu      Planet = "rahu"
	Ketu      Planet = "ketu"
	Uranus    Planet = "uranus"
	Neptune   Planet = "neptune"
	Pluto     Planet = "pluto"
	Ascendant Planet = "ascendant"
)

// RequiredPlanets are the bodies a position set must carry before any
// transform runs. Nodes, outer planets and the Ascendant are optional.
var RequiredPlanets = []Planet{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn}

// Sign is a zodiac sign index, 0 (Aries) through 11 (Pisces).
type Sign int

// Zodiac signs in order.
const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

const (
	// SignCount is the number of zodiac signs.
	SignCount = 12
	// SignSpan is the angular span of one sign in degrees.
	SignSpan = 30.0
	// FullCircle is the full zodiac circle in degrees.
	FullCircle = 360.0
	// HouseCount is the number of houses in a chart.
	HouseCount = 12
)

var signNames = [SignCount]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// String returns the sign name.
func (s Sign) String() string {
	if s < 0 || int(s) >= SignCount {
		return fmt.Sprintf("Sign(%d)", int(s))
	}
	return signNames[s]
}

// signLords holds the classical rulership of each sign.
var signLords = [SignCount]Planet{
	Aries:       Mars,
	Taurus:      Venus,
	Gemini:      Mercury,
	Cancer:      Moon,
	Leo:         Sun,
	Virgo:       Mercury,
	Libra:       Venus,
	Scorpio:     Mars,
	Sagittarius: Jupiter,
	Capricorn:   Saturn,
	Aquarius:    Saturn,
	Pisces:      Jupiter,
}

// Lord returns the planet ruling the sign.
func (s Sign) Lord() Planet {
	return signLords[((int(s)%SignCount)+SignCount)%SignCount]
}

// Position is one planet's ecliptic longitude, in degrees within [0,360).
type Position struct {
	Planet    Planet  `json:"planet"`
	Longitude float64 `json:"longitude"`
}

// Sign returns the zodiac sign the position falls in.
func (p Position) Sign() Sign {
	return Sign(int(math.Floor(p.Longitude/SignSpan)) % SignCount)
}

// SignDegree returns the degree within the position's sign, in [0,30).
func (p Position) SignDegree() float64 {
	return math.Mod(p.Longitude, SignSpan)
}

// PositionSet maps each chart point to its position for one timestamp.
// At most one entry per planet; all longitudes within [0,360).
type PositionSet map[Planet]Position

// Clone returns an independent copy of the set.
func (ps PositionSet) Clone() PositionSet {
	out := make(PositionSet, len(ps))
	for k, v := range ps {
		out[k] = v
	}
	return out
}

// Normalize wraps a longitude into [0,360).
func Normalize(deg float64) float64 {
	d := math.Mod(deg, FullCircle)
	if d < 0 {
		d += FullCircle
	}
	return d
}

// CircularDistance returns the shorter angular distance between two
// longitudes, in [0,180].
func CircularDistance(a, b float64) float64 {
	d := math.Abs(Normalize(a) - Normalize(b))
	return math.Min(d, FullCircle-d)
}

// Validate checks the position-set preconditions: every required planet is
// present and every longitude lies within [0,360). Violations return
// ErrInvalidPosition; no transform may run on an invalid set.
func Validate(ps PositionSet) error {
	for _, p := range RequiredPlanets {
		if _, ok := ps[p]; !ok {
			return fmt.Errorf("%w: missing required planet %s", ErrInvalidPosition, p)
		}
	}
	for planet, pos := range ps {
		if pos.Longitude < 0 || pos.Longitude >= FullCircle || math.IsNaN(pos.Longitude) {
			return fmt.Errorf("%w: %s longitude %v out of [0,360)", ErrInvalidPosition, planet, pos.Longitude)
		}
		if pos.Planet != "" && pos.Planet != planet {
			return fmt.Errorf("%w: entry %s carries planet id %s", ErrInvalidPosition, planet, pos.Planet)
		}
	}
	return nil
}

// Chart is a position set projected through one divisional scheme.
type Chart struct {
	Scheme    string      `json:"scheme"`
	Positions PositionSet `json:"positions"`
}

// AscendantSign returns the sign anchoring house 1. Whole-sign houses: the
// Ascendant's sign when present, Aries otherwise.
func (c Chart) AscendantSign() Sign {
	if asc, ok := c.Positions[Ascendant]; ok {
		return asc.Sign()
	}
	return Aries
}

// HouseOf returns the house (1..12) the planet occupies, or 0 when the
// planet is absent from the chart.
func (c Chart) HouseOf(planet Planet) int {
	pos, ok := c.Positions[planet]
	if !ok {
		return 0
	}
	return (int(pos.Sign())-int(c.AscendantSign())+SignCount)%SignCount + 1
}

// HouseSign returns the sign occupying the given house (1..12).
func (c Chart) HouseSign(house int) Sign {
	return Sign((int(c.AscendantSign()) + house - 1) % SignCount)
}

// Occupants returns the planets positioned in the given house, excluding
// the Ascendant point itself.
func (c Chart) Occupants(house int) []Planet {
	var out []Planet
	for planet := range c.Positions {
		if planet == Ascendant {
			continue
		}
		if c.HouseOf(planet) == house {
			out = append(out, planet)
		}
	}
	return out
}
