package varga_test

import (
	"testing"

	chart "github.com/samvat/rectify/internal/domain/chart"
	varga "github.com/samvat/rectify/internal/domain/varga"
	. "github.com/smartystreets/goconvey/convey"
)

func basePositions() chart.PositionSet {
	return chart.PositionSet{
		chart.Sun:     {Planet: chart.Sun, Longitude: 10},
		chart.Moon:    {Planet: chart.Moon, Longitude: 33},
		chart.Mars:    {Planet: chart.Mars, Longitude: 100},
		chart.Mercury: {Planet: chart.Mercury, Longitude: 165},
		chart.Jupiter: {Planet: chart.Jupiter, Longitude: 95},
		chart.Venus:   {Planet: chart.Venus, Longitude: 357},
		chart.Saturn:  {Planet: chart.Saturn, Longitude: 200},
		chart.Rahu:    {Planet: chart.Rahu, Longitude: 222},
	}
}

func TestSchemeTable(t *testing.T) {
	Convey("Given the scheme table", t, func() {
		Convey("Then all sixteen schemes are registered", func() {
			So(len(varga.All), ShouldEqual, 16)
			for _, s := range varga.All {
				n, ok := varga.Divisor(s)
				So(ok, ShouldBeTrue)
				So(n, ShouldBeGreaterThan, 0)
			}
		})

		Convey("Then an unregistered scheme reports no divisor", func() {
			_, ok := varga.Divisor(varga.Scheme("D150"))
			So(ok, ShouldBeFalse)
		})
	})
}

func TestTransform(t *testing.T) {
	Convey("Given the generic longitude transform", t, func() {
		Convey("When applying D1", func() {
			Convey("Then it is the identity", func() {
				for _, lon := range []float64{0, 10, 123.456, 359.9} {
					out, err := varga.Transform(varga.D1, lon)
					So(err, ShouldBeNil)
					So(out, ShouldEqual, lon)
				}
			})
		})

		Convey("When applying the D9 starting-sign rule", func() {
			Convey("Then a movable sign starts at Aries", func() {
				out, err := varga.Transform(varga.D9, 0) // Aries 0
				So(err, ShouldBeNil)
				So(chart.Position{Longitude: out}.Sign(), ShouldEqual, chart.Aries)
			})
			Convey("Then a fixed sign starts at Leo", func() {
				out, err := varga.Transform(varga.D9, 120) // Leo 0
				So(err, ShouldBeNil)
				So(chart.Position{Longitude: out}.Sign(), ShouldEqual, chart.Leo)
			})
			Convey("Then a dual sign starts at Sagittarius", func() {
				out, err := varga.Transform(varga.D9, 240) // Sagittarius 0
				So(err, ShouldBeNil)
				So(chart.Position{Longitude: out}.Sign(), ShouldEqual, chart.Sagittarius)
			})
			Convey("Then mid-division degrees scale to fill the sign", func() {
				// Aries 5: second navamsa, Taurus, 15 deg in.
				out, err := varga.Transform(varga.D9, 5)
				So(err, ShouldBeNil)
				So(out, ShouldAlmostEqual, 45, 1e-9)
			})
		})

		Convey("When applying the D60 from-self rule", func() {
			Convey("Then the first part stays in the source sign", func() {
				out, err := varga.Transform(varga.D60, 120.1)
				So(err, ShouldBeNil)
				So(chart.Position{Longitude: out}.Sign(), ShouldEqual, chart.Leo)
			})
			Convey("Then the second part lands one sign on", func() {
				// Taurus 0.75: k=1, counted from Taurus itself.
				out, err := varga.Transform(varga.D60, 30.75)
				So(err, ShouldBeNil)
				So(chart.Position{Longitude: out}.Sign(), ShouldEqual, chart.Gemini)
			})
		})

		Convey("When applying a simple constant-start scheme", func() {
			// Taurus 15: second hora, counted from Aries -> Taurus 0.
			out, err := varga.Transform(varga.D2, 45)
			So(err, ShouldBeNil)
			So(out, ShouldAlmostEqual, 30, 1e-9)
		})

		Convey("When the scheme is unknown", func() {
			_, err := varga.Transform(varga.Scheme("D13"), 10)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unknown chart scheme")
		})

		Convey("Then every scheme keeps output within [0,360)", func() {
			for _, s := range varga.All {
				for lon := 0.0; lon < 360; lon += 0.7 {
					out, err := varga.Transform(s, lon)
					So(err, ShouldBeNil)
					So(out, ShouldBeGreaterThanOrEqualTo, 0)
					So(out, ShouldBeLessThan, 360)
				}
			}
		})
	})
}

func TestBuildChart(t *testing.T) {
	Convey("Given a valid position set", t, func() {
		ps := basePositions()

		Convey("When building the D1 chart", func() {
			c, err := varga.BuildChart(varga.D1, ps)
			So(err, ShouldBeNil)

			Convey("Then it equals the source positions", func() {
				So(c.Scheme, ShouldEqual, "D1")
				for planet, pos := range ps {
					So(c.Positions[planet].Longitude, ShouldEqual, pos.Longitude)
				}
			})
		})

		Convey("When building the same chart twice", func() {
			a, err := varga.BuildChart(varga.D9, ps)
			So(err, ShouldBeNil)
			b, err := varga.BuildChart(varga.D9, ps)
			So(err, ShouldBeNil)

			Convey("Then the outputs are identical", func() {
				So(len(a.Positions), ShouldEqual, len(b.Positions))
				for planet := range a.Positions {
					So(a.Positions[planet], ShouldResemble, b.Positions[planet])
				}
			})
		})

		Convey("When building all schemes", func() {
			all, err := varga.BuildAll(ps)
			So(err, ShouldBeNil)

			Convey("Then every scheme is present with every planet", func() {
				So(len(all), ShouldEqual, 16)
				for _, s := range varga.All {
					c, ok := all[s]
					So(ok, ShouldBeTrue)
					So(len(c.Positions), ShouldEqual, len(ps))
				}
			})
		})
	})

	Convey("Given an invalid position set", t, func() {
		Convey("When a longitude is out of range", func() {
			ps := basePositions()
			ps[chart.Mars] = chart.Position{Planet: chart.Mars, Longitude: 400}

			_, err := varga.BuildChart(varga.D9, ps)
			So(err, ShouldNotBeNil)

			_, err = varga.BuildAll(ps)
			So(err, ShouldNotBeNil)
		})

		Convey("When a required planet is missing", func() {
			ps := basePositions()
			delete(ps, chart.Moon)

			_, err := varga.BuildChart(varga.D1, ps)
			So(err, ShouldNotBeNil)
		})
	})
}
