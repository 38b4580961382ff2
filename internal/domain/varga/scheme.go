// Package varga builds divisional (varga) charts: each zodiac sign is cut
// into n equal parts and every longitude is remapped to a destination sign
// per a scheme-specific starting rule.
package varga

import (
	chart "github.com/samvat/rectify/internal/domain/chart"
)

// Scheme identifies a divisional chart scheme.
type Scheme string

// The sixteen supported schemes.
const (
	D1  Scheme = "D1"
	D2  Scheme = "D2"
	D3  Scheme = "D3"
	D4  Scheme = "D4"
	D7  Scheme = "D7"
	D9  Scheme = "D9"
	D10 Scheme = "D10"
	D12 Scheme = "D12"
	D16 Scheme = "D16"
	D20 Scheme = "D20"
	D24 Scheme = "D24"
	D27 Scheme = "D27"
	D30 Scheme = "D30"
	D40 Scheme = "D40"
	D45 Scheme = "D45"
	D60 Scheme = "D60"
)

// startRule maps (source sign, sub-division index) to a destination sign.
type startRule func(sign, k int) int

// definition is one scheme's configuration record: a divisor and a
// starting-sign rule consumed by the single generic transform.
type definition struct {
	divisor int
	start   startRule
}

// startAries counts k sub-divisions from Aries regardless of the source
// sign. Default rule for the simple schemes.
func startAries(_, k int) int {
	return k % chart.SignCount
}

// startNavamsa is the D9 rule: movable signs count from Aries, fixed signs
// from Leo, dual signs from Sagittarius.
func startNavamsa(sign, k int) int {
	var base int
	switch sign % 3 {
	case 0: // movable
		base = int(chart.Aries)
	case 1: // fixed
		base = int(chart.Leo)
	default: // dual
		base = int(chart.Sagittarius)
	}
	return (base + k) % chart.SignCount
}

// startFromSelf is the D60 (shashtiamsa) rule: count k sub-divisions from
// the source sign itself.
func startFromSelf(sign, k int) int {
	return (sign + k) % chart.SignCount
}

// schemes is the static scheme table. D1 is the identity projection and is
// special-cased in Transform; D9 and D60 are the only rule exceptions.
var schemes = map[Scheme]definition{
	D1:  {divisor: 1, start: startFromSelf},
	D2:  {divisor: 2, start: startAries},
	D3:  {divisor: 3, start: startAries},
	D4:  {divisor: 4, start: startAries},
	D7:  {divisor: 7, start: startAries},
	D9:  {divisor: 9, start: startNavamsa},
	D10: {divisor: 10, start: startAries},
	D12: {divisor: 12, start: startAries},
	D16: {divisor: 16, start: startAries},
	D20: {divisor: 20, start: startAries},
	D24: {divisor: 24, start: startAries},
	D27: {divisor: 27, start: startAries},
	D30: {divisor: 30, start: startAries},
	D40: {divisor: 40, start: startAries},
	D45: {divisor: 45, start: startAries},
	D60: {divisor: 60, start: startFromSelf},
}

// All lists every supported scheme in canonical order.
var All = []Scheme{
	D1, D2, D3, D4, D7, D9, D10, D12,
	D16, D20, D24, D27, D30, D40, D45, D60,
}

// Divisor returns the division count of a scheme, or false for an
// unregistered scheme.
func Divisor(s Scheme) (int, bool) {
	def, ok := schemes[s]
	if !ok {
		return 0, false
	}
	return def.divisor, true
}
