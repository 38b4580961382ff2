package significance

import (
	chart "github.com/samvat/rectify/internal/domain/chart"
)

// Category names a life-event domain.
type Category string

// Recognized event categories.
const (
	Career       Category = "career"
	Relationship Category = "relationship"
	Health       Category = "health"
	Spiritual    Category = "spiritual"
	Education    Category = "education"
	Relocation   Category = "relocation"
)

// categoryHouses maps each category to the houses examined for it. An
// unknown category falls back to house 1; that is a deliberate default,
// not an error, and callers should log it as a warning since it weakens
// scoring.
var categoryHouses = map[Category][]int{
	Career:       {1, 2, 6, 10},
	Relationship: {5, 7, 8},
	Health:       {1, 6, 8, 12},
	Spiritual:    {4, 8, 9, 12},
	Education:    {2, 4, 5, 9},
	Relocation:   {3, 4, 7, 12},
}

var fallbackHouses = []int{1}

// categoryPlanets maps each category to the planets whose conjunctions
// matter for it.
var categoryPlanets = map[Category][]chart.Planet{
	Career:       {chart.Sun, chart.Saturn, chart.Jupiter},
	Relationship: {chart.Venus, chart.Moon, chart.Mars},
	Health:       {chart.Sun, chart.Mars, chart.Saturn},
	Spiritual:    {chart.Jupiter, chart.Saturn, chart.Ketu},
	Education:    {chart.Mercury, chart.Jupiter, chart.Venus},
	Relocation:   {chart.Moon, chart.Mercury, chart.Rahu},
}

// specialRule is a category's signature placement: a designated planet in
// a designated house.
type specialRule struct {
	planet chart.Planet
	house  int
}

// specialRules maps each category to its signature placements.
var specialRules = map[Category][]specialRule{
	Career:       {{chart.Sun, 10}, {chart.Saturn, 10}},
	Relationship: {{chart.Venus, 7}},
	Health:       {{chart.Saturn, 6}},
	Spiritual:    {{chart.Jupiter, 9}, {chart.Ketu, 12}},
	Education:    {{chart.Mercury, 5}},
	Relocation:   {{chart.Moon, 4}},
}

// Known reports whether the category has its own house table. Unknown
// categories still score, against house 1 only.
func Known(cat Category) bool {
	_, ok := categoryHouses[cat]
	return ok
}

// RelevantHouses returns the houses examined for a category.
func RelevantHouses(cat Category) []int {
	if houses, ok := categoryHouses[cat]; ok {
		return houses
	}
	return fallbackHouses
}
