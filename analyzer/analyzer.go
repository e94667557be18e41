// Package analyzer is the offline correlation pass over the two metrics
// logs. It aligns search timestamps against update time-windows, computes
// a naive linear correlation between concurrent update and search
// activity, and reports a before/during performance delta. This is a
// descriptive statistic pass, not a statistical test.
package analyzer

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/instrperf/InstrumentBench/perflog"
)

// OverlapRecord pairs one update iteration with the successful searches
// concurrent to it
type OverlapRecord struct {
	Iteration        int
	UpdateDuration   float64 // seconds
	UpdatesPerSecond float64
	SearchCount      int
	MeanSearchMs     float64
	MedianSearchMs   float64
	MaxSearchMs      float64
}

// Summary holds descriptive statistics over one duration series
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	Min    float64
	Max    float64
	StdDev float64
}

// Report is the full analyzer output
type Report struct {
	SearchSummary Summary // Successful search durations, ms
	UpdateSummary Summary // Update iteration durations, seconds

	Overlaps             []OverlapRecord
	DurationVsSearchCorr float64 // Pearson: update duration vs mean concurrent search ms
	RateVsSearchCorr     float64 // Pearson: update rate vs mean concurrent search ms

	OverlapMeanMs  float64 // Mean of per-window mean search durations
	BaselineMeanMs float64 // Mean duration of searches outside all windows
	BaselineCount  int
	ImpactPercent  float64 // Relative slowdown during updates
	HasImpact      bool    // False when either comparison set is empty
}

// Analyze runs the single-pass correlation analysis over both logs
func Analyze(updates []perflog.UpdateRecord, searches []perflog.SearchRecord) *Report {
	report := &Report{}

	report.SearchSummary = summarize(successfulDurations(searches))
	report.UpdateSummary = summarize(updateDurations(updates))

	report.Overlaps = collectOverlaps(updates, searches)

	if len(report.Overlaps) > 0 {
		durations := make([]float64, len(report.Overlaps))
		rates := make([]float64, len(report.Overlaps))
		means := make([]float64, len(report.Overlaps))
		for i, o := range report.Overlaps {
			durations[i] = o.UpdateDuration
			rates[i] = o.UpdatesPerSecond
			means[i] = o.MeanSearchMs
		}

		report.DurationVsSearchCorr = stat.Correlation(durations, means, nil)
		report.RateVsSearchCorr = stat.Correlation(rates, means, nil)
		report.OverlapMeanMs = stat.Mean(means, nil)

		baseline := baselineDurations(updates, searches)
		report.BaselineCount = len(baseline)
		if len(baseline) > 0 {
			report.BaselineMeanMs = stat.Mean(baseline, nil)
			if report.BaselineMeanMs != 0 {
				report.ImpactPercent = (report.OverlapMeanMs - report.BaselineMeanMs) / report.BaselineMeanMs * 100
				report.HasImpact = true
			}
		}
	}

	return report
}

// collectOverlaps builds one overlap record per update iteration that had
// at least one successful search inside its [timestamp, timestamp+duration]
// window
func collectOverlaps(updates []perflog.UpdateRecord, searches []perflog.SearchRecord) []OverlapRecord {
	var overlaps []OverlapRecord

	for _, upd := range updates {
		window := durationSeconds(upd.DurationSeconds)
		end := upd.Timestamp.Add(window)

		var concurrent []float64
		for _, s := range searches {
			if !s.Success {
				continue
			}
			if s.Timestamp.Before(upd.Timestamp) || s.Timestamp.After(end) {
				continue
			}
			concurrent = append(concurrent, s.DurationMs)
		}

		if len(concurrent) == 0 {
			continue
		}

		overlaps = append(overlaps, OverlapRecord{
			Iteration:        upd.Iteration,
			UpdateDuration:   upd.DurationSeconds,
			UpdatesPerSecond: upd.UpdatesPerSecond,
			SearchCount:      len(concurrent),
			MeanSearchMs:     stat.Mean(concurrent, nil),
			MedianSearchMs:   median(concurrent),
			MaxSearchMs:      maxOf(concurrent),
		})
	}

	return overlaps
}

// baselineDurations returns the durations of successful searches that fall
// in none of the update windows. Window membership is approximated with a
// per-second grid anchored at each window start: a search counts as inside
// only when its offset from the start is a whole number of seconds within
// the window. This coarse grid is kept deliberately so results stay
// comparable with earlier reports; do not replace it with exact interval
// arithmetic.
func baselineDurations(updates []perflog.UpdateRecord, searches []perflog.SearchRecord) []float64 {
	var baseline []float64

	for _, s := range searches {
		if !s.Success {
			continue
		}

		onGrid := false
		for _, upd := range updates {
			window := durationSeconds(upd.DurationSeconds)
			offset := s.Timestamp.Sub(upd.Timestamp)
			if offset >= 0 && offset <= window && offset%time.Second == 0 {
				onGrid = true
				break
			}
		}

		if !onGrid {
			baseline = append(baseline, s.DurationMs)
		}
	}

	return baseline
}

// Print writes the analysis to stdout
func (r *Report) Print() {
	fmt.Println("SEARCH PERFORMANCE")
	fmt.Println("==================")
	printSummary(r.SearchSummary, "ms")
	fmt.Println()

	fmt.Println("UPDATE PERFORMANCE")
	fmt.Println("==================")
	printSummary(r.UpdateSummary, "s")
	fmt.Println()

	fmt.Println("CORRELATION ANALYSIS")
	fmt.Println("====================")
	if len(r.Overlaps) == 0 {
		fmt.Println("No concurrent update/search periods found")
		return
	}

	fmt.Printf("Update periods with concurrent searches: %d\n", len(r.Overlaps))
	fmt.Printf("  update_duration vs search_time: %.3f (%s)\n",
		r.DurationVsSearchCorr, describeCorrelation(r.DurationVsSearchCorr))
	fmt.Printf("  update_rate vs search_time:     %.3f (%s)\n",
		r.RateVsSearchCorr, describeCorrelation(r.RateVsSearchCorr))

	if r.HasImpact {
		fmt.Println()
		fmt.Printf("Search time during updates:  %.2fms (avg)\n", r.OverlapMeanMs)
		fmt.Printf("Search time without updates: %.2fms (avg, %d searches)\n", r.BaselineMeanMs, r.BaselineCount)
		fmt.Printf("Performance impact: %+.1f%% during updates\n", r.ImpactPercent)
	}
}

// describeCorrelation classifies a Pearson coefficient the way the
// reports always have
func describeCorrelation(corr float64) string {
	abs := math.Abs(corr)
	switch {
	case abs > 0.7:
		return "strong correlation"
	case abs > 0.5:
		return "moderate correlation"
	case abs > 0.3:
		return "weak correlation"
	default:
		return "no significant correlation"
	}
}

func printSummary(s Summary, unit string) {
	if s.Count == 0 {
		fmt.Println("No data")
		return
	}
	fmt.Printf("Records: %d\n", s.Count)
	fmt.Printf("  Average: %.2f%s\n", s.Mean, unit)
	fmt.Printf("  Median:  %.2f%s\n", s.Median, unit)
	fmt.Printf("  Min:     %.2f%s\n", s.Min, unit)
	fmt.Printf("  Max:     %.2f%s\n", s.Max, unit)
	fmt.Printf("  Std Dev: %.2f%s\n", s.StdDev, unit)
}

func successfulDurations(searches []perflog.SearchRecord) []float64 {
	var out []float64
	for _, s := range searches {
		if s.Success {
			out = append(out, s.DurationMs)
		}
	}
	return out
}

func updateDurations(updates []perflog.UpdateRecord) []float64 {
	out := make([]float64, len(updates))
	for i, u := range updates {
		out[i] = u.DurationSeconds
	}
	return out
}

func summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	s := Summary{
		Count:  len(values),
		Mean:   stat.Mean(values, nil),
		Median: median(values),
		Min:    minOf(values),
		Max:    maxOf(values),
	}
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s
}

// median interpolates between the two middle values for even counts
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func minOf(values []float64) float64 {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func maxOf(values []float64) float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// durationSeconds converts a fractional second count to a time.Duration
func durationSeconds(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
