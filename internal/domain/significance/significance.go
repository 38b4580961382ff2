// Package significance scores how strongly a chart supports a life-event
// category, aggregating yoga, house-strength and combination evidence into
// one normalized confidence value.
package significance

import (
	"fmt"
	"math"

	chart "github.com/samvat/rectify/internal/domain/chart"
	dignity "github.com/samvat/rectify/internal/domain/dignity"
	strength "github.com/samvat/rectify/internal/domain/strength"
	yoga "github.com/samvat/rectify/internal/domain/yoga"
)

// Scoring policy constants.
const (
	strongHouseThreshold = 0.7
	conjunctionBonus     = 0.3
	specialBonus         = 0.4
	conjunctionOrb       = 10.0
	// Three independent contributions, each capped near 1, averaged.
	contributionCount = 3
	weakScoreCutoff   = 0.5
)

// Factor is one recorded contribution to a significance score.
type Factor struct {
	Type         string  `json:"type"`
	Detail       string  `json:"detail"`
	Contribution float64 `json:"contribution"`
}

// Result is the significance verdict for one (chart, category) pair.
type Result struct {
	Category        Category `json:"category"`
	Score           float64  `json:"score"`
	Factors         []Factor `json:"factors"`
	Recommendations []string `json:"recommendations"`
}

// Analysis bundles the three per-chart sub-analyses.
type Analysis struct {
	Dignities      []dignity.Result                        `json:"dignities"`
	HouseStrengths [chart.HouseCount]strength.HouseStrength `json:"house_strengths"`
	Yogas          []yoga.Match                            `json:"yogas"`
}

// Scorer evaluates charts against event categories. Zero-state apart from
// the yoga registry; safe for concurrent use.
type Scorer struct {
	registry *yoga.Registry
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithRegistry sets a custom yoga registry.
func WithRegistry(r *yoga.Registry) Option {
	return func(s *Scorer) {
		if r != nil {
			s.registry = r
		}
	}
}

// NewScorer creates a scorer backed by the standard yoga registry.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{registry: yoga.NewRegistry()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze runs the three sub-analyses on a chart.
func (s *Scorer) Analyze(c chart.Chart) Analysis {
	return Analysis{
		Dignities:      dignity.Evaluate(c),
		HouseStrengths: strength.Evaluate(c),
		Yogas:          s.registry.Detect(c),
	}
}

// Score produces the significance verdict for one chart and category.
// Purely functional; no side effects.
func (s *Scorer) Score(c chart.Chart, cat Category) Result {
	var (
		total   float64
		factors []Factor
	)

	// Yoga evidence: the mean strength of all matches.
	matches := s.registry.Detect(c)
	if len(matches) > 0 {
		var sum float64
		for _, m := range matches {
			sum += m.Strength
			factors = append(factors, Factor{
				Type:         "yoga",
				Detail:       m.Name,
				Contribution: m.Strength,
			})
		}
		total += sum / float64(len(matches))
	}

	// House evidence: strong relevant houses, averaged over all relevant
	// houses so a category with many houses is not easier to satisfy.
	houses := strength.Evaluate(c)
	relevant := RelevantHouses(cat)
	var houseSum float64
	for _, h := range relevant {
		hs := houses[h-1]
		if hs.Score >= strongHouseThreshold {
			houseSum += hs.Score
			factors = append(factors, Factor{
				Type:         "house",
				Detail:       fmt.Sprintf("house %d strength %.2f", h, hs.Score),
				Contribution: hs.Score,
			})
		}
	}
	total += houseSum / float64(len(relevant))

	// Combination evidence: category-planet conjunctions and signature
	// placements, each a fixed increment.
	if pair, found := s.findConjunction(c, cat); found {
		total += conjunctionBonus
		factors = append(factors, Factor{
			Type:         "conjunction",
			Detail:       pair,
			Contribution: conjunctionBonus,
		})
	}
	if detail, found := s.findSpecial(c, cat); found {
		total += specialBonus
		factors = append(factors, Factor{
			Type:         "special",
			Detail:       detail,
			Contribution: specialBonus,
		})
	}

	score := math.Min(1, total/contributionCount)

	return Result{
		Category:        cat,
		Score:           score,
		Factors:         factors,
		Recommendations: recommend(score, relevant, len(matches)),
	}
}

// findConjunction looks for the tightest conjunction among the category's
// planets within the orb.
func (s *Scorer) findConjunction(c chart.Chart, cat Category) (string, bool) {
	planets := categoryPlanets[cat]
	best := ""
	bestSep := conjunctionOrb + 1
	for i := 0; i < len(planets); i++ {
		pi, ok := c.Positions[planets[i]]
		if !ok {
			continue
		}
		for j := i + 1; j < len(planets); j++ {
			pj, ok := c.Positions[planets[j]]
			if !ok {
				continue
			}
			sep := chart.CircularDistance(pi.Longitude, pj.Longitude)
			if sep <= conjunctionOrb && sep < bestSep {
				bestSep = sep
				best = fmt.Sprintf("%s-%s conjunction (%.1f deg)", planets[i], planets[j], sep)
			}
		}
	}
	return best, best != ""
}

// findSpecial tests the category's signature placements.
func (s *Scorer) findSpecial(c chart.Chart, cat Category) (string, bool) {
	for _, rule := range specialRules[cat] {
		if c.HouseOf(rule.planet) == rule.house {
			return fmt.Sprintf("%s in house %d", rule.planet, rule.house), true
		}
	}
	return "", false
}

// recommend produces the caller-facing hints for a verdict.
func recommend(score float64, relevant []int, yogaCount int) []string {
	var out []string
	if score < weakScoreCutoff {
		out = append(out, fmt.Sprintf(
			"significance is low; consider adjusting the birth time to strengthen houses %v", relevant))
	}
	if yogaCount == 0 {
		out = append(out, "no yoga formations found; search nearby time windows for stronger yoga formations")
	}
	return out
}
