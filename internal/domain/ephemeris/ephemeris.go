// Package ephemeris defines the upstream position-supply boundary and a
// deterministic mean-motion implementation used as the default wiring.
package ephemeris

import (
	"context"
	"time"

	chart "github.com/samvat/rectify/internal/domain/chart"
)

// Location is a geographic birth place.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Source supplies planetary positions for a timestamp and place. The
// engine treats it as an opaque, synchronous collaborator and assumes the
// returned set is correct; it still validates ranges before any transform.
type Source interface {
	Positions(ctx context.Context, t time.Time, loc Location) (chart.PositionSet, error)
}

// epoch is J2000.0, the reference instant for the mean elements.
var epoch = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// meanElement holds a planet's longitude at epoch and its mean daily
// motion in degrees. Approximate mean elements; adequate for candidate
// generation and tests, not for astronomy.
type meanElement struct {
	atEpoch float64
	daily   float64
}

var meanElements = map[chart.Planet]meanElement{
	chart.Sun:     {atEpoch: 280.46, daily: 0.98565},
	chart.Moon:    {atEpoch: 218.32, daily: 13.17640},
	chart.Mars:    {atEpoch: 355.45, daily: 0.52403},
	chart.Mercury: {atEpoch: 252.25, daily: 4.09234},
	chart.Jupiter: {atEpoch: 34.40, daily: 0.08309},
	chart.Venus:   {atEpoch: 181.98, daily: 1.60213},
	chart.Saturn:  {atEpoch: 49.94, daily: 0.03346},
	chart.Rahu:    {atEpoch: 125.04, daily: -0.05295},
}

const (
	// The Ascendant sweeps the full zodiac once per day.
	ascendantDailyMotion = 360.0
	minutesPerDay        = 24 * 60
)

// MeanMotion is a deterministic Source built on mean planetary motion.
// It stands in for a real ephemeris service; two calls with the same
// timestamp and location always return identical sets.
type MeanMotion struct {
	elements map[chart.Planet]meanElement
	withNode bool
}

// Option applies a configuration option to the MeanMotion source.
type Option func(*MeanMotion)

// WithNodes includes Rahu and Ketu in generated sets (default true).
func WithNodes(enabled bool) Option {
	return func(m *MeanMotion) {
		m.withNode = enabled
	}
}

// WithElement overrides one planet's mean elements.
func WithElement(p chart.Planet, atEpoch, daily float64) Option {
	return func(m *MeanMotion) {
		m.elements[p] = meanElement{atEpoch: atEpoch, daily: daily}
	}
}

// NewMeanMotion creates a mean-motion source with configuration options.
func NewMeanMotion(opts ...Option) *MeanMotion {
	m := &MeanMotion{
		elements: make(map[chart.Planet]meanElement, len(meanElements)),
		withNode: true,
	}
	for p, e := range meanElements {
		m.elements[p] = e
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Positions computes the set for the timestamp. The Ascendant follows the
// local rotation: 360 degrees per day from the timestamp's midnight, offset
// by the place's longitude, which is what makes candidate birth times a few
// minutes apart produce measurably different charts.
func (m *MeanMotion) Positions(ctx context.Context, t time.Time, loc Location) (chart.PositionSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	days := t.Sub(epoch).Hours() / 24
	out := make(chart.PositionSet, len(m.elements)+2)
	for planet, e := range m.elements {
		if !m.withNode && (planet == chart.Rahu || planet == chart.Ketu) {
			continue
		}
		lon := chart.Normalize(e.atEpoch + e.daily*days)
		out[planet] = chart.Position{Planet: planet, Longitude: lon}
	}

	// Ketu is always opposite Rahu.
	if rahu, ok := out[chart.Rahu]; ok {
		out[chart.Ketu] = chart.Position{
			Planet:    chart.Ketu,
			Longitude: chart.Normalize(rahu.Longitude + 180),
		}
	}

	minutes := float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60
	asc := chart.Normalize(minutes/minutesPerDay*ascendantDailyMotion + loc.Longitude)
	out[chart.Ascendant] = chart.Position{Planet: chart.Ascendant, Longitude: asc}

	return out, nil
}
