package strength_test

import (
	"testing"

	chart "github.com/samvat/rectify/internal/domain/chart"
	strength "github.com/samvat/rectify/internal/domain/strength"
	. "github.com/smartystreets/goconvey/convey"
)

func exaltedChart() chart.Chart {
	return chart.Chart{
		Scheme: "D1",
		Positions: chart.PositionSet{
			chart.Sun:     {Planet: chart.Sun, Longitude: 10},  // Aries, house 1, exalted
			chart.Moon:    {Planet: chart.Moon, Longitude: 33}, // Taurus, house 2, exalted
			chart.Mars:    {Planet: chart.Mars, Longitude: 100},
			chart.Mercury: {Planet: chart.Mercury, Longitude: 165},
			chart.Jupiter: {Planet: chart.Jupiter, Longitude: 95},
			chart.Venus:   {Planet: chart.Venus, Longitude: 357},
			chart.Saturn:  {Planet: chart.Saturn, Longitude: 200}, // Libra, house 7, exalted
		},
	}
}

func TestEvaluateBounds(t *testing.T) {
	Convey("Given any chart", t, func() {
		charts := []chart.Chart{
			exaltedChart(),
			{Scheme: "D1", Positions: chart.PositionSet{
				chart.Sun: {Planet: chart.Sun, Longitude: 190}, // debilitated
			}},
			{Scheme: "D9", Positions: chart.PositionSet{}},
		}

		Convey("Then every house score lies in [0,1]", func() {
			for _, c := range charts {
				for _, hs := range strength.Evaluate(c) {
					So(hs.Score, ShouldBeGreaterThanOrEqualTo, 0)
					So(hs.Score, ShouldBeLessThanOrEqualTo, 1)
				}
			}
		})

		Convey("Then houses are reported 1 through 12 in order", func() {
			res := strength.Evaluate(exaltedChart())
			for i, hs := range res {
				So(hs.House, ShouldEqual, i+1)
			}
		})
	})
}

func TestEvaluateComposition(t *testing.T) {
	Convey("Given a chart with an exalted first-house occupant", t, func() {
		c := exaltedChart()
		res := strength.Evaluate(c)

		Convey("Then house 1 combines occupant, lord and aspect terms", func() {
			// Sun occupant 0.60; lord Mars weak 0.4*0.15; Saturn's 7th
			// aspect from house 7 contributes 0.3*0.60.
			So(res[0].Score, ShouldAlmostEqual, 0.84, 1e-9)
		})

		Convey("Then house 1 clears the strong-house threshold", func() {
			So(res[0].Score, ShouldBeGreaterThanOrEqualTo, 0.7)
		})

		Convey("Then removing the occupant weakens the house", func() {
			weaker := c
			weaker.Positions = c.Positions.Clone()
			delete(weaker.Positions, chart.Sun)
			res2 := strength.Evaluate(weaker)
			So(res2[0].Score, ShouldBeLessThan, res[0].Score)
		})
	})

	Convey("Given a house whose lord is absent from the chart", t, func() {
		c := chart.Chart{Scheme: "D1", Positions: chart.PositionSet{
			chart.Sun: {Planet: chart.Sun, Longitude: 10}, // Aries, house 1
		}}
		res := strength.Evaluate(c)

		Convey("Then the lord term is zero, not neutral", func() {
			// House 1 (Aries): occupant Sun 0.60, lord Mars absent, no aspects.
			So(res[0].Score, ShouldAlmostEqual, 0.60, 1e-9)
		})
	})

	Convey("Given special aspects", t, func() {
		// Saturn alone in house 1 (Aries): its 3rd, 7th and 10th aspects
		// land on houses 3, 7 and 10.
		c := chart.Chart{Scheme: "D1", Positions: chart.PositionSet{
			chart.Saturn: {Planet: chart.Saturn, Longitude: 20}, // Aries, exalted? dist 180 from 200: debilitated
		}}
		res := strength.Evaluate(c)

		Convey("Then aspected houses outscore unaspected empty ones", func() {
			So(res[2].Score, ShouldBeGreaterThan, res[1].Score)  // house 3 vs 2
			So(res[6].Score, ShouldBeGreaterThan, res[4].Score)  // house 7 vs 5
			So(res[9].Score, ShouldBeGreaterThan, res[10].Score) // house 10 vs 11
		})
	})
}
