// Package stats computes the descriptive statistics the dashboard reports.
package stats

import (
	"errors"
	"math"
	"sort"

	"github.com/lumoshq/lumos/internal/models"
)

// ErrNoPosts is returned when aggregation is asked for an empty slice.
var ErrNoPosts = errors.New("no posts to aggregate")

// Aggregate computes mean, median, min and max for every numeric metric over
// the given posts.
func Aggregate(posts []models.Post) (models.TypeStats, error) {
	if len(posts) == 0 {
		return nil, ErrNoPosts
	}

	out := make(models.TypeStats, len(models.MetricNames))
	for _, name := range models.MetricNames {
		values := make([]float64, len(posts))
		for i, p := range posts {
			values[i] = p.Metrics()[name]
		}
		out[name] = summarize(values)
	}
	return out, nil
}

func summarize(values []float64) models.MetricStats {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	return models.MetricStats{
		Mean:   sum / float64(len(sorted)),
		Median: median(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// PerformanceVsAverage returns, per metric, the post's percentage difference
// from the type mean, rounded to two decimals. A zero mean yields 0 so a
// degenerate dataset cannot produce infinities in the report.
func PerformanceVsAverage(post models.Post, typeStats models.TypeStats) models.Performance {
	perf := make(models.Performance, len(models.MetricNames))
	metrics := post.Metrics()
	for _, name := range models.MetricNames {
		st, ok := typeStats[name]
		if !ok || st.Mean == 0 {
			perf[name] = 0
			continue
		}
		perf[name] = round2((metrics[name]/st.Mean - 1) * 100)
	}
	return perf
}

// ZeroMeanMetrics lists the metrics whose type mean is zero, in report
// order. Callers flag these so a guarded 0% is not read as "exactly average".
func ZeroMeanMetrics(typeStats models.TypeStats) []string {
	var flagged []string
	for _, name := range models.MetricNames {
		if st, ok := typeStats[name]; !ok || st.Mean == 0 {
			flagged = append(flagged, name)
		}
	}
	return flagged
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
