package assessment

import (
	"fmt"
	"math"
	"sort"
)

// trendDeadBand is the fixed +/- point window inside which movement is
// reported as stable. It keeps measurement noise from being surfaced as
// clinically meaningful change and must match across every renderer.
const trendDeadBand = 2

func sortSeries(series DomainSeries) {
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})
}

// DeriveTrend computes direction, absolute and percent change, and the
// chart glyph for one instrument's dated history. The series must already
// be sorted ascending by date.
func DeriveTrend(inst Instrument, series DomainSeries) TrendRecord {
	rec := TrendRecord{
		Instrument:      inst,
		AssessmentCount: len(series),
	}

	switch len(series) {
	case 0:
		rec.Direction = InsufficientData
		rec.Glyph = Flat
		rec.DateRange = "No data"
		return rec
	case 1:
		rec.Direction = SingleAssessment
		rec.Glyph = Flat
		rec.FirstScore = series[0].Total
		rec.LatestScore = series[0].Total
		rec.DateRange = series[0].Date
		return rec
	}

	first := series[0]
	last := series[len(series)-1]
	change := last.Total - first.Total

	rec.FirstScore = first.Total
	rec.LatestScore = last.Total
	rec.Change = change
	if first.Total > 0 {
		rec.PercentChange = round1(float64(change) / float64(first.Total) * 100)
	}
	rec.DateRange = fmt.Sprintf("%s to %s", first.Date, last.Date)

	switch {
	case change > trendDeadBand:
		rec.Direction = Increasing
		rec.Glyph = Up
	case change < -trendDeadBand:
		rec.Direction = Decreasing
		rec.Glyph = Down
	default:
		rec.Direction = Stable
		rec.Glyph = Flat
	}
	return rec
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
