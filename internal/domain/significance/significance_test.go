package significance_test

import (
	"strings"
	"testing"

	chart "github.com/samvat/rectify/internal/domain/chart"
	dignity "github.com/samvat/rectify/internal/domain/dignity"
	significance "github.com/samvat/rectify/internal/domain/significance"
	yoga "github.com/samvat/rectify/internal/domain/yoga"
	. "github.com/smartystreets/goconvey/convey"
)

func careerChart() chart.Chart {
	return chart.Chart{
		Scheme: "D1",
		Positions: chart.PositionSet{
			chart.Sun:     {Planet: chart.Sun, Longitude: 10},
			chart.Moon:    {Planet: chart.Moon, Longitude: 33},
			chart.Mars:    {Planet: chart.Mars, Longitude: 100},
			chart.Mercury: {Planet: chart.Mercury, Longitude: 165},
			chart.Jupiter: {Planet: chart.Jupiter, Longitude: 95},
			chart.Venus:   {Planet: chart.Venus, Longitude: 357},
			chart.Saturn:  {Planet: chart.Saturn, Longitude: 200},
		},
	}
}

func TestCategories(t *testing.T) {
	Convey("Given the category tables", t, func() {
		Convey("Then known categories carry their house sets", func() {
			So(significance.Known(significance.Career), ShouldBeTrue)
			So(significance.RelevantHouses(significance.Career), ShouldResemble, []int{1, 2, 6, 10})
			So(significance.RelevantHouses(significance.Relationship), ShouldResemble, []int{5, 7, 8})
			So(significance.RelevantHouses(significance.Health), ShouldResemble, []int{1, 6, 8, 12})
			So(significance.RelevantHouses(significance.Spiritual), ShouldResemble, []int{4, 8, 9, 12})
			So(significance.RelevantHouses(significance.Education), ShouldResemble, []int{2, 4, 5, 9})
			So(significance.RelevantHouses(significance.Relocation), ShouldResemble, []int{3, 4, 7, 12})
		})

		Convey("Then an unknown category falls back to house 1", func() {
			So(significance.Known(significance.Category("lottery")), ShouldBeFalse)
			So(significance.RelevantHouses(significance.Category("lottery")), ShouldResemble, []int{1})
		})
	})
}

func TestScoreCareerScenario(t *testing.T) {
	Convey("Given the career scenario chart", t, func() {
		scorer := significance.NewScorer()
		res := scorer.Score(careerChart(), significance.Career)

		Convey("Then the score is normalized", func() {
			So(res.Score, ShouldBeGreaterThanOrEqualTo, 0)
			So(res.Score, ShouldBeLessThanOrEqualTo, 1)
		})

		Convey("Then at least one factor references a career house", func() {
			found := false
			for _, f := range res.Factors {
				if f.Type == "house" && (strings.Contains(f.Detail, "house 1 ") ||
					strings.Contains(f.Detail, "house 2 ") ||
					strings.Contains(f.Detail, "house 6 ") ||
					strings.Contains(f.Detail, "house 10 ")) {
					found = true
				}
			}
			So(found, ShouldBeTrue)
		})

		Convey("Then the D1 dignity analysis marks the Sun exalted", func() {
			analysis := scorer.Analyze(careerChart())
			var sun *dignity.Result
			for i := range analysis.Dignities {
				if analysis.Dignities[i].Planet == chart.Sun {
					sun = &analysis.Dignities[i]
				}
			}
			So(sun, ShouldNotBeNil)
			So(sun.Status, ShouldEqual, dignity.Exalted)
		})

		Convey("Then scoring is deterministic", func() {
			again := scorer.Score(careerChart(), significance.Career)
			So(again.Score, ShouldEqual, res.Score)
			So(len(again.Factors), ShouldEqual, len(res.Factors))
		})
	})
}

func TestScoreMonotonicUnderAddedYoga(t *testing.T) {
	Convey("Given two scorers differing only by one always-matching yoga", t, func() {
		c := careerChart()

		base := significance.NewScorer()
		baseScore := base.Score(c, significance.Career).Score

		extended := yoga.NewRegistry()
		extended.Register(yoga.Definition{
			Name:      "Always Yoga",
			Predicate: func(chart.Chart) bool { return true },
			Strength:  func(chart.Chart) float64 { return 1 },
		})
		augmented := significance.NewScorer(significance.WithRegistry(extended))

		Convey("Then the added strong yoga never decreases the score", func() {
			So(augmented.Score(c, significance.Career).Score, ShouldBeGreaterThanOrEqualTo, baseScore)
		})
	})
}

func TestScoreCombinations(t *testing.T) {
	Convey("Given a chart with a relationship conjunction and placement", t, func() {
		// Venus in Libra (house 7 from Aries), Moon conjunct Venus.
		c := chart.Chart{Scheme: "D9", Positions: chart.PositionSet{
			chart.Venus: {Planet: chart.Venus, Longitude: 185},
			chart.Moon:  {Planet: chart.Moon, Longitude: 190},
			chart.Mars:  {Planet: chart.Mars, Longitude: 40},
		}}
		res := significance.NewScorer().Score(c, significance.Relationship)

		Convey("Then conjunction and special factors are recorded", func() {
			var types []string
			for _, f := range res.Factors {
				types = append(types, f.Type)
			}
			So(types, ShouldContain, "conjunction")
			So(types, ShouldContain, "special")
		})

		Convey("Then the fixed bonuses contribute", func() {
			So(res.Score, ShouldBeGreaterThanOrEqualTo, (0.3+0.4)/3)
		})
	})
}

func TestRecommendations(t *testing.T) {
	Convey("Given a bare chart with no evidence", t, func() {
		c := chart.Chart{Scheme: "D1", Positions: chart.PositionSet{
			chart.Sun: {Planet: chart.Sun, Longitude: 190}, // debilitated, alone
		}}
		res := significance.NewScorer().Score(c, significance.Career)

		Convey("Then the score is weak", func() {
			So(res.Score, ShouldBeLessThan, 0.5)
		})

		Convey("Then both hints are offered", func() {
			So(len(res.Recommendations), ShouldEqual, 2)
			So(res.Recommendations[0], ShouldContainSubstring, "adjusting the birth time")
			So(res.Recommendations[1], ShouldContainSubstring, "yoga formations")
		})
	})

	Convey("Given an unknown category", t, func() {
		res := significance.NewScorer().Score(careerChart(), significance.Category("lottery"))

		Convey("Then scoring still succeeds against house 1", func() {
			So(res.Score, ShouldBeGreaterThanOrEqualTo, 0)
			So(res.Score, ShouldBeLessThanOrEqualTo, 1)
		})
	})
}
