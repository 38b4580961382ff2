// Package rectification generates birth-time candidates and ranks them by
// how strongly their charts support the supplied life events.
package rectification

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	ephemeris "github.com/samvat/rectify/internal/domain/ephemeris"
	significance "github.com/samvat/rectify/internal/domain/significance"
	varga "github.com/samvat/rectify/internal/domain/varga"
)

// Default search parameters.
const (
	defaultWindow = 2 * time.Hour
	defaultStep   = 15 * time.Minute
)

// Event is one user-supplied life event with an optional weight.
type Event struct {
	When        time.Time             `json:"when"`
	Category    significance.Category `json:"category"`
	Description string                `json:"description"`
	Weight      float64               `json:"weight"`
}

// categorySchemes maps each event category to the divisional chart
// traditionally examined for its life domain.
var categorySchemes = map[significance.Category]varga.Scheme{
	significance.Career:       varga.D10,
	significance.Relationship: varga.D9,
	significance.Health:       varga.D30,
	significance.Education:    varga.D24,
	significance.Spiritual:    varga.D20,
	significance.Relocation:   varga.D4,
}

// SchemeFor returns the divisional scheme scoring a category; D1 for
// anything unmapped.
func SchemeFor(cat significance.Category) varga.Scheme {
	if s, ok := categorySchemes[cat]; ok {
		return s
	}
	return varga.D1
}

// EventScore records one event's verdict against one candidate.
type EventScore struct {
	Category significance.Category `json:"category"`
	Scheme   varga.Scheme          `json:"scheme"`
	Score    float64               `json:"score"`
}

// Candidate is one scored birth-time hypothesis.
type Candidate struct {
	Time       time.Time     `json:"time"`
	Offset     time.Duration `json:"offset"`
	Weight     float64       `json:"weight"`
	Confidence float64       `json:"confidence"`
	Events     []EventScore  `json:"events"`
}

// Candidates is an ordered list of scored hypotheses, best first.
type Candidates []Candidate

// Result holds the ranked outcome of one rectification run.
type Result struct {
	Best       Candidate  `json:"best"`
	Candidates Candidates `json:"candidates"`
}

// Ranker scores candidate birth times against life events.
type Ranker struct {
	source ephemeris.Source
	scorer *significance.Scorer
	window time.Duration
	step   time.Duration
}

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithSource sets the position source.
func WithSource(src ephemeris.Source) Option {
	return func(r *Ranker) {
		if src != nil {
			r.source = src
		}
	}
}

// WithScorer sets a custom significance scorer.
func WithScorer(s *significance.Scorer) Option {
	return func(r *Ranker) {
		if s != nil {
			r.scorer = s
		}
	}
}

// WithWindow sets the half-width of the search window around the
// approximate birth time.
func WithWindow(w time.Duration) Option {
	return func(r *Ranker) {
		if w > 0 {
			r.window = w
		}
	}
}

// WithStep sets the candidate granularity.
func WithStep(s time.Duration) Option {
	return func(r *Ranker) {
		if s > 0 {
			r.step = s
		}
	}
}

// New creates a Ranker with default configuration.
func New(opts ...Option) *Ranker {
	r := &Ranker{
		source: ephemeris.NewMeanMotion(),
		scorer: significance.NewScorer(),
		window: defaultWindow,
		step:   defaultStep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank scores every candidate in the window and returns them ordered by
// confidence, ties broken toward the smaller absolute offset from the
// approximate time. Candidates are independent and scored concurrently.
func (r *Ranker) Rank(ctx context.Context, approx time.Time, loc ephemeris.Location, events []Event) (Result, error) {
	if len(events) == 0 {
		return Result{}, ErrNoEvents
	}

	offsets := r.offsets()
	candidates := make(Candidates, len(offsets))
	errs := make([]error, len(offsets))

	var wg sync.WaitGroup
	for i, off := range offsets {
		wg.Add(1)
		go func(i int, off time.Duration) {
			defer wg.Done()
			candidates[i], errs[i] = r.score(ctx, approx, off, loc, events)
		}(i, off)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return Result{}, err
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return absDuration(candidates[i].Offset) < absDuration(candidates[j].Offset)
	})

	return Result{Best: candidates[0], Candidates: candidates}, nil
}

// offsets enumerates the candidate offsets across the window, nearest to
// the approximate time first so the stable sort's tie-break holds.
func (r *Ranker) offsets() []time.Duration {
	var out []time.Duration
	out = append(out, 0)
	for off := r.step; off <= r.window; off += r.step {
		out = append(out, -off, off)
	}
	return out
}

// score evaluates one candidate against all events.
func (r *Ranker) score(ctx context.Context, approx time.Time, off time.Duration, loc ephemeris.Location, events []Event) (Candidate, error) {
	t := approx.Add(off)

	positions, err := r.source.Positions(ctx, t, loc)
	if err != nil {
		return Candidate{}, fmt.Errorf("positions for candidate %s: %w", t.Format(time.RFC3339), err)
	}

	var (
		weightedSum float64
		totalWeight float64
		scores      = make([]EventScore, 0, len(events))
	)
	for _, ev := range events {
		scheme := SchemeFor(ev.Category)
		c, err := varga.BuildChart(scheme, positions)
		if err != nil {
			return Candidate{}, fmt.Errorf("chart %s for candidate %s: %w", scheme, t.Format(time.RFC3339), err)
		}

		weight := ev.Weight
		if weight <= 0 || weight > 1 {
			weight = 1
		}
		res := r.scorer.Score(c, ev.Category)
		weightedSum += weight * res.Score
		totalWeight += weight
		scores = append(scores, EventScore{Category: ev.Category, Scheme: scheme, Score: res.Score})
	}

	return Candidate{
		Time:       t,
		Offset:     off,
		Weight:     r.priorWeight(off),
		Confidence: weightedSum / totalWeight,
		Events:     scores,
	}, nil
}

// priorWeight encodes the prior that the reported time is approximately
// right; it is carried on the candidate for consumers, not used for
// ranking, which goes by confidence alone.
func (r *Ranker) priorWeight(off time.Duration) float64 {
	w := 1 - absDuration(off).Minutes()/(r.window.Minutes()+r.step.Minutes())
	return math.Max(0, math.Min(1, w))
}

// Score evaluates one externally supplied candidate time against the
// events, without generating a window.
func (r *Ranker) Score(ctx context.Context, t time.Time, loc ephemeris.Location, events []Event) (Candidate, error) {
	if len(events) == 0 {
		return Candidate{}, ErrNoEvents
	}
	return r.score(ctx, t, 0, loc, events)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
