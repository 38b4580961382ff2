package varga

import (
	"fmt"
	"math"

	chart "github.com/samvat/rectify/internal/domain/chart"
)

// Transform maps one base (D1) longitude through a scheme. The input must
// already be normalized to [0,360); the output always is.
func Transform(s Scheme, longitude float64) (float64, error) {
	def, ok := schemes[s]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownScheme, s)
	}
	if s == D1 {
		return longitude, nil
	}

	sign := int(math.Floor(longitude / chart.SignSpan))
	degree := math.Mod(longitude, chart.SignSpan)

	span := chart.SignSpan / float64(def.divisor)
	k := int(math.Floor(degree / span))
	// Guard the degree==30-epsilon rounding edge.
	if k >= def.divisor {
		k = def.divisor - 1
	}

	dest := def.start(sign, k)
	// Remainder scaled to fill the destination sign's 30 degrees.
	scaled := math.Mod(degree, span) * float64(def.divisor)

	return chart.Normalize(float64(dest)*chart.SignSpan + scaled), nil
}

// BuildChart projects every position of the set through one scheme.
// The set is validated first; an out-of-range longitude or a missing
// required planet aborts before any transform runs.
func BuildChart(s Scheme, positions chart.PositionSet) (chart.Chart, error) {
	if err := chart.Validate(positions); err != nil {
		return chart.Chart{}, err
	}
	if _, ok := schemes[s]; !ok {
		return chart.Chart{}, fmt.Errorf("%w: %s", ErrUnknownScheme, s)
	}

	derived := make(chart.PositionSet, len(positions))
	for planet, pos := range positions {
		lon, err := Transform(s, pos.Longitude)
		if err != nil {
			return chart.Chart{}, err
		}
		derived[planet] = chart.Position{Planet: planet, Longitude: lon}
	}
	return chart.Chart{Scheme: string(s), Positions: derived}, nil
}

// BuildAll projects the set through all sixteen schemes.
func BuildAll(positions chart.PositionSet) (map[Scheme]chart.Chart, error) {
	if err := chart.Validate(positions); err != nil {
		return nil, err
	}
	out := make(map[Scheme]chart.Chart, len(All))
	for _, s := range All {
		c, err := BuildChart(s, positions)
		if err != nil {
			return nil, err
		}
		out[s] = c
	}
	return out, nil
}
