package searcher

import (
	"math/rand"
	"time"

	"github.com/instrperf/InstrumentBench/esindex"
	"github.com/instrperf/InstrumentBench/instrdata"
)

// RandomSource provides the random source for archetype selection and
// bound jitter
var RandomSource = rand.New(rand.NewSource(time.Now().UnixNano()))

// jitterAmplitude is the uniform offset applied to nominal range bounds,
// in price units
const jitterAmplitude = 10.0

// Archetype is a named query template. Range-bearing archetypes derive
// their nominal band from the observed price statistics; text-bearing ones
// draw a keyword from the fixed search vocabulary at build time.
type Archetype struct {
	Name   string
	Kind   esindex.QueryKind
	Bounds func(stats esindex.PriceStats) (lower, upper float64)
}

// Catalog is the fixed archetype table the workload samples from:
// narrow/medium/wide bands around the observed statistics, the five fixed
// price tiers, keyword-only text matches and combined keyword+band queries.
var Catalog = []Archetype{
	// Narrow ranges (should be fast)
	{Name: "narrow_low", Kind: esindex.PriceRangeQuery,
		Bounds: func(s esindex.PriceStats) (float64, float64) { return s.Min, s.Min + 50 }},
	{Name: "narrow_mid", Kind: esindex.PriceRangeQuery,
		Bounds: func(s esindex.PriceStats) (float64, float64) { return s.Avg - 25, s.Avg + 25 }},
	{Name: "narrow_high", Kind: esindex.PriceRangeQuery,
		Bounds: func(s esindex.PriceStats) (float64, float64) { return s.Max - 100, s.Max }},

	// Medium ranges
	{Name: "medium_low", Kind: esindex.PriceRangeQuery,
		Bounds: func(s esindex.PriceStats) (float64, float64) { return s.Min, s.Avg * 0.5 }},
	{Name: "medium_mid", Kind: esindex.PriceRangeQuery,
		Bounds: func(s esindex.PriceStats) (float64, float64) { return s.Avg * 0.5, s.Avg * 1.5 }},
	{Name: "medium_high", Kind: esindex.PriceRangeQuery,
		Bounds: func(s esindex.PriceStats) (float64, float64) { return s.Avg * 1.5, s.Max }},

	// Wide ranges (should be slower)
	{Name: "wide_all", Kind: esindex.PriceRangeQuery,
		Bounds: func(s esindex.PriceStats) (float64, float64) { return s.Min, s.Max }},
	{Name: "wide_lower_half", Kind: esindex.PriceRangeQuery,
		Bounds: func(s esindex.PriceStats) (float64, float64) { return s.Min, s.Avg }},
	{Name: "wide_upper_half", Kind: esindex.PriceRangeQuery,
		Bounds: func(s esindex.PriceStats) (float64, float64) { return s.Avg, s.Max }},

	// Fixed tiers matching the price bucket table
	{Name: "penny_stocks", Kind: esindex.PriceRangeQuery,
		Bounds: func(esindex.PriceStats) (float64, float64) { return 1.0, 10.0 }},
	{Name: "small_cap", Kind: esindex.PriceRangeQuery,
		Bounds: func(esindex.PriceStats) (float64, float64) { return 10.0, 50.0 }},
	{Name: "mid_cap", Kind: esindex.PriceRangeQuery,
		Bounds: func(esindex.PriceStats) (float64, float64) { return 50.0, 200.0 }},
	{Name: "large_cap", Kind: esindex.PriceRangeQuery,
		Bounds: func(esindex.PriceStats) (float64, float64) { return 200.0, 1000.0 }},
	{Name: "high_value", Kind: esindex.PriceRangeQuery,
		Bounds: func(esindex.PriceStats) (float64, float64) { return 1000.0, 5000.0 }},

	// Keyword-only text matches against the long name
	{Name: "text_keyword", Kind: esindex.TextMatchQuery},
	{Name: "text_fund_type", Kind: esindex.TextMatchQuery},
	{Name: "text_sector", Kind: esindex.TextMatchQuery},
	{Name: "text_strategy", Kind: esindex.TextMatchQuery},

	// Combined keyword + price band queries
	{Name: "combined_narrow_mid", Kind: esindex.CombinedQuery,
		Bounds: func(s esindex.PriceStats) (float64, float64) { return s.Avg - 25, s.Avg + 25 }},
	{Name: "combined_medium_mid", Kind: esindex.CombinedQuery,
		Bounds: func(s esindex.PriceStats) (float64, float64) { return s.Avg * 0.5, s.Avg * 1.5 }},
	{Name: "combined_large_cap", Kind: esindex.CombinedQuery,
		Bounds: func(esindex.PriceStats) (float64, float64) { return 200.0, 1000.0 }},
	{Name: "combined_full_span", Kind: esindex.CombinedQuery,
		Bounds: func(s esindex.PriceStats) (float64, float64) { return s.Min, s.Max }},
}

// ConcreteQuery is one fully derived query ready for execution
type ConcreteQuery struct {
	Archetype string
	HasRange  bool
	Query     esindex.InstrumentQuery
}

// NextQuery samples an archetype uniformly from the catalog and derives a
// concrete query from it and the live price statistics
func NextQuery(stats esindex.PriceStats) ConcreteQuery {
	arch := Catalog[RandomSource.Intn(len(Catalog))]
	return BuildQuery(arch, stats)
}

// BuildQuery derives the concrete parameters for one archetype. Range
// bounds are jittered by a uniform offset in [-10, +10], clamped to the
// observed [min, max], and repaired so that lower < upper always holds.
func BuildQuery(arch Archetype, stats esindex.PriceStats) ConcreteQuery {
	cq := ConcreteQuery{
		Archetype: arch.Name,
		Query:     esindex.InstrumentQuery{Kind: arch.Kind},
	}

	if arch.Kind == esindex.TextMatchQuery || arch.Kind == esindex.CombinedQuery {
		cq.Query.Keyword = instrdata.SearchKeywords[RandomSource.Intn(len(instrdata.SearchKeywords))]
	}

	if arch.Kind == esindex.PriceRangeQuery || arch.Kind == esindex.CombinedQuery {
		nominalLower, nominalUpper := arch.Bounds(stats)
		lower, upper := jitterBounds(nominalLower, nominalUpper, stats)
		cq.HasRange = true
		cq.Query.MinPrice = lower
		cq.Query.MaxPrice = upper
	}

	return cq
}

// jitterBounds applies the jitter/clamp/repair sequence. The order matters:
// clamp each bound to the observed span first, then force lower to
// upper - 1 when jitter inverted the band. The upper bound is floored at
// min + 1 so the repaired lower bound can never drop below the global min.
func jitterBounds(nominalLower, nominalUpper float64, stats esindex.PriceStats) (float64, float64) {
	lower := nominalLower + uniform(-jitterAmplitude, jitterAmplitude)
	if lower < stats.Min {
		lower = stats.Min
	}

	upper := nominalUpper + uniform(-jitterAmplitude, jitterAmplitude)
	if upper > stats.Max {
		upper = stats.Max
	}
	if upper < stats.Min+1 {
		upper = stats.Min + 1
	}

	if lower >= upper {
		lower = upper - 1
	}

	lower, upper = instrdata.RoundPrice(lower), instrdata.RoundPrice(upper)
	if lower >= upper {
		// Rounding can collapse a hair-thin band; repair once more
		lower = upper - 1
	}

	return lower, upper
}

// uniform returns a random float in [min, max)
func uniform(min, max float64) float64 {
	return min + RandomSource.Float64()*(max-min)
}
