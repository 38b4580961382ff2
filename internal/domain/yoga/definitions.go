package yoga

import (
	chart "github.com/samvat/rectify/internal/domain/chart"
	dignity "github.com/samvat/rectify/internal/domain/dignity"
)

// Kendra (angular) and trikona (trinal) houses.
var (
	kendraHouses  = []int{1, 4, 7, 10}
	trikonaHouses = []int{1, 5, 9}
)

// lordOf returns the planet ruling the given house in the chart.
func lordOf(c chart.Chart, house int) chart.Planet {
	return c.HouseSign(house).Lord()
}

// sameSign reports whether both planets are present and share a sign.
func sameSign(c chart.Chart, a, b chart.Planet) bool {
	pa, oka := c.Positions[a]
	pb, okb := c.Positions[b]
	return oka && okb && pa.Sign() == pb.Sign()
}

// tightness maps the angular separation of two conjunct planets to [0,1]:
// an exact conjunction scores 1, a full sign apart scores 0.
func tightness(c chart.Chart, a, b chart.Planet) float64 {
	pa, oka := c.Positions[a]
	pb, okb := c.Positions[b]
	if !oka || !okb {
		return 0
	}
	sep := chart.CircularDistance(pa.Longitude, pb.Longitude)
	if sep >= chart.SignSpan {
		return 0
	}
	return 1 - sep/chart.SignSpan
}

// dignityPair is the mean dignity of two planets normalized so that two
// exalted participants score 1.
func dignityPair(c chart.Chart, a, b chart.Planet) float64 {
	mean := (dignity.PlanetValue(c, a) + dignity.PlanetValue(c, b)) / 2
	return mean / dignity.Value(dignity.Exalted)
}

// conjunctionStrength blends tightness and participant dignity equally.
func conjunctionStrength(c chart.Chart, a, b chart.Planet) float64 {
	return 0.5*tightness(c, a, b) + 0.5*dignityPair(c, a, b)
}

// rajaYogaPair finds a kendra lord and a trikona lord sharing a house.
// Returns false when no such pair exists. The two lords must be distinct
// planets; a planet ruling both a kendra and a trikona is no combination.
func rajaYogaPair(c chart.Chart) (chart.Planet, chart.Planet, bool) {
	for _, kh := range kendraHouses {
		for _, th := range trikonaHouses {
			kl, tl := lordOf(c, kh), lordOf(c, th)
			if kl == tl {
				continue
			}
			khouse, thouse := c.HouseOf(kl), c.HouseOf(tl)
			if khouse != 0 && khouse == thouse {
				return kl, tl, true
			}
		}
	}
	return "", "", false
}

// dhanaYogaPair finds the 2nd and 11th lords either conjunct in one house
// or in mutual exchange.
func dhanaYogaPair(c chart.Chart) (chart.Planet, chart.Planet, bool) {
	second, eleventh := lordOf(c, 2), lordOf(c, 11)
	if second == eleventh {
		return "", "", false
	}
	sh, eh := c.HouseOf(second), c.HouseOf(eleventh)
	if sh == 0 || eh == 0 {
		return "", "", false
	}
	if sh == eh {
		return second, eleventh, true
	}
	if sh == 11 && eh == 2 { // mutual exchange
		return second, eleventh, true
	}
	return "", "", false
}

// gajaKesari reports whether Jupiter stands in a kendra from the Moon.
func gajaKesari(c chart.Chart) bool {
	moon, okm := c.Positions[chart.Moon]
	jup, okj := c.Positions[chart.Jupiter]
	if !okm || !okj {
		return false
	}
	offset := (int(jup.Sign()) - int(moon.Sign()) + chart.SignCount) % chart.SignCount
	return offset == 0 || offset == 3 || offset == 6 || offset == 9
}

// standardDefinitions returns the shipped Parashara combinations.
func standardDefinitions() []Definition {
	return []Definition{
		{
			Name: "Raja Yoga",
			Predicate: func(c chart.Chart) bool {
				_, _, ok := rajaYogaPair(c)
				return ok
			},
			Strength: func(c chart.Chart) float64 {
				kl, tl, ok := rajaYogaPair(c)
				if !ok {
					return 0
				}
				return dignityPair(c, kl, tl)
			},
		},
		{
			Name: "Dhana Yoga",
			Predicate: func(c chart.Chart) bool {
				_, _, ok := dhanaYogaPair(c)
				return ok
			},
			Strength: func(c chart.Chart) float64 {
				a, b, ok := dhanaYogaPair(c)
				if !ok {
					return 0
				}
				return dignityPair(c, a, b)
			},
		},
		{
			Name:      "Gaja Kesari Yoga",
			Predicate: gajaKesari,
			Strength: func(c chart.Chart) float64 {
				return dignityPair(c, chart.Jupiter, chart.Moon)
			},
		},
		{
			Name: "Budha-Aditya Yoga",
			Predicate: func(c chart.Chart) bool {
				return sameSign(c, chart.Sun, chart.Mercury)
			},
			Strength: func(c chart.Chart) float64 {
				return conjunctionStrength(c, chart.Sun, chart.Mercury)
			},
		},
		{
			Name: "Chandra-Mangala Yoga",
			Predicate: func(c chart.Chart) bool {
				return sameSign(c, chart.Moon, chart.Mars)
			},
			Strength: func(c chart.Chart) float64 {
				return conjunctionStrength(c, chart.Moon, chart.Mars)
			},
		},
	}
}
