package rectification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	chart "github.com/samvat/rectify/internal/domain/chart"
	ephemeris "github.com/samvat/rectify/internal/domain/ephemeris"
	rectification "github.com/samvat/rectify/internal/domain/rectification"
	significance "github.com/samvat/rectify/internal/domain/significance"
	varga "github.com/samvat/rectify/internal/domain/varga"
	. "github.com/smartystreets/goconvey/convey"
)

// sourceFunc adapts a function to the ephemeris.Source interface.
type sourceFunc func(ctx context.Context, t time.Time, loc ephemeris.Location) (chart.PositionSet, error)

func (f sourceFunc) Positions(ctx context.Context, t time.Time, loc ephemeris.Location) (chart.PositionSet, error) {
	return f(ctx, t, loc)
}

// weakSet clusters every planet into the fifth dasamsa division, so the
// career (D10) chart leaves houses 1, 2, 6 and 10 empty and scores low.
func weakSet() chart.PositionSet {
	return chart.PositionSet{
		chart.Sun:     {Planet: chart.Sun, Longitude: 72.1},
		chart.Moon:    {Planet: chart.Moon, Longitude: 43.5},
		chart.Mars:    {Planet: chart.Mars, Longitude: 253.5},
		chart.Mercury: {Planet: chart.Mercury, Longitude: 193.5},
		chart.Jupiter: {Planet: chart.Jupiter, Longitude: 313.5},
		chart.Venus:   {Planet: chart.Venus, Longitude: 133.5},
		chart.Saturn:  {Planet: chart.Saturn, Longitude: 14.9},
	}
}

func strongSet() chart.PositionSet {
	return chart.PositionSet{
		chart.Sun:     {Planet: chart.Sun, Longitude: 10}, // exalted
		chart.Moon:    {Planet: chart.Moon, Longitude: 33},
		chart.Mars:    {Planet: chart.Mars, Longitude: 298},
		chart.Mercury: {Planet: chart.Mercury, Longitude: 165},
		chart.Jupiter: {Planet: chart.Jupiter, Longitude: 95},
		chart.Venus:   {Planet: chart.Venus, Longitude: 357},
		chart.Saturn:  {Planet: chart.Saturn, Longitude: 200},
	}
}

func TestSchemeFor(t *testing.T) {
	Convey("Given the category-to-scheme table", t, func() {
		So(rectification.SchemeFor(significance.Career), ShouldEqual, varga.D10)
		So(rectification.SchemeFor(significance.Relationship), ShouldEqual, varga.D9)
		So(rectification.SchemeFor(significance.Health), ShouldEqual, varga.D30)
		So(rectification.SchemeFor(significance.Education), ShouldEqual, varga.D24)
		So(rectification.SchemeFor(significance.Spiritual), ShouldEqual, varga.D20)
		So(rectification.SchemeFor(significance.Relocation), ShouldEqual, varga.D4)

		Convey("Then unmapped categories fall back to the Rashi chart", func() {
			So(rectification.SchemeFor(significance.Category("lottery")), ShouldEqual, varga.D1)
		})
	})
}

func TestRank(t *testing.T) {
	approx := time.Date(1990, 6, 15, 8, 30, 0, 0, time.UTC)
	loc := ephemeris.Location{Latitude: 28.6, Longitude: 77.2}
	events := []rectification.Event{
		{When: time.Date(2015, 7, 1, 0, 0, 0, 0, time.UTC), Category: significance.Career},
	}

	Convey("Given a source that favors one candidate time", t, func() {
		target := approx.Add(30 * time.Minute)
		src := sourceFunc(func(_ context.Context, t time.Time, _ ephemeris.Location) (chart.PositionSet, error) {
			if t.Equal(target) {
				return strongSet(), nil
			}
			return weakSet(), nil
		})
		ranker := rectification.New(
			rectification.WithSource(src),
			rectification.WithWindow(time.Hour),
			rectification.WithStep(15*time.Minute),
		)

		Convey("When ranking", func() {
			res, err := ranker.Rank(context.Background(), approx, loc, events)
			So(err, ShouldBeNil)

			Convey("Then the window yields 2*(window/step)+1 candidates", func() {
				So(len(res.Candidates), ShouldEqual, 9)
			})

			Convey("Then the favored time wins", func() {
				So(res.Best.Time.Equal(target), ShouldBeTrue)
				So(res.Best.Offset, ShouldEqual, 30*time.Minute)
			})

			Convey("Then candidates are ordered by confidence", func() {
				for i := 1; i < len(res.Candidates); i++ {
					So(res.Candidates[i].Confidence, ShouldBeLessThanOrEqualTo, res.Candidates[i-1].Confidence)
				}
			})

			Convey("Then every confidence is normalized", func() {
				for _, c := range res.Candidates {
					So(c.Confidence, ShouldBeGreaterThanOrEqualTo, 0)
					So(c.Confidence, ShouldBeLessThanOrEqualTo, 1)
					So(c.Weight, ShouldBeGreaterThanOrEqualTo, 0)
					So(c.Weight, ShouldBeLessThanOrEqualTo, 1)
				}
			})
		})
	})

	Convey("Given a source indifferent to candidate time", t, func() {
		src := sourceFunc(func(context.Context, time.Time, ephemeris.Location) (chart.PositionSet, error) {
			return strongSet(), nil
		})
		ranker := rectification.New(
			rectification.WithSource(src),
			rectification.WithWindow(time.Hour),
			rectification.WithStep(15*time.Minute),
		)

		Convey("When ranking", func() {
			res, err := ranker.Rank(context.Background(), approx, loc, events)
			So(err, ShouldBeNil)

			Convey("Then ties break toward the approximate time", func() {
				So(res.Best.Offset, ShouldEqual, time.Duration(0))
			})
		})
	})

	Convey("Given event weights", t, func() {
		src := sourceFunc(func(context.Context, time.Time, ephemeris.Location) (chart.PositionSet, error) {
			return strongSet(), nil
		})
		ranker := rectification.New(rectification.WithSource(src))
		ctx := context.Background()

		careerOnly, err := ranker.Score(ctx, approx, loc, []rectification.Event{
			{Category: significance.Career, Weight: 1},
		})
		So(err, ShouldBeNil)
		lotteryOnly, err := ranker.Score(ctx, approx, loc, []rectification.Event{
			{Category: significance.Category("lottery"), Weight: 1},
		})
		So(err, ShouldBeNil)

		Convey("When mixing the two events with skewed weights", func() {
			skewed, err := ranker.Score(ctx, approx, loc, []rectification.Event{
				{Category: significance.Career, Weight: 0.9},
				{Category: significance.Category("lottery"), Weight: 0.1},
			})
			So(err, ShouldBeNil)

			Convey("Then the aggregate lands between the extremes", func() {
				lo, hi := careerOnly.Confidence, lotteryOnly.Confidence
				if lo > hi {
					lo, hi = hi, lo
				}
				So(skewed.Confidence, ShouldBeGreaterThanOrEqualTo, lo)
				So(skewed.Confidence, ShouldBeLessThanOrEqualTo, hi)
			})
		})
	})

	Convey("Given no events", t, func() {
		ranker := rectification.New()
		_, err := ranker.Rank(context.Background(), approx, loc, nil)

		Convey("Then ranking refuses", func() {
			So(errors.Is(err, rectification.ErrNoEvents), ShouldBeTrue)
		})
	})

	Convey("Given a failing source", t, func() {
		boom := errors.New("upstream down")
		src := sourceFunc(func(context.Context, time.Time, ephemeris.Location) (chart.PositionSet, error) {
			return nil, boom
		})
		ranker := rectification.New(rectification.WithSource(src))

		Convey("Then the failure surfaces", func() {
			_, err := ranker.Rank(context.Background(), approx, loc, events)
			So(errors.Is(err, boom), ShouldBeTrue)
		})
	})

	Convey("Given an out-of-range position from upstream", t, func() {
		src := sourceFunc(func(context.Context, time.Time, ephemeris.Location) (chart.PositionSet, error) {
			ps := strongSet()
			ps[chart.Mars] = chart.Position{Planet: chart.Mars, Longitude: 400}
			return ps, nil
		})
		ranker := rectification.New(rectification.WithSource(src))

		Convey("Then validation rejects the candidate set", func() {
			_, err := ranker.Rank(context.Background(), approx, loc, events)
			So(errors.Is(err, chart.ErrInvalidPosition), ShouldBeTrue)
		})
	})
}
