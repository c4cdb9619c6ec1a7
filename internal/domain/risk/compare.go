package risk

import (
	"fmt"
	"math"
	"sort"
)

// PopulationStats are the descriptive statistics of one instrument's latest
// scores across the cohort.
type PopulationStats struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// Comparison places one patient's score against the cohort distribution.
type Comparison struct {
	PatientID      string          `json:"patient_id"`
	Instrument     string          `json:"instrument"`
	PatientScore   int             `json:"patient_score"`
	Population     PopulationStats `json:"population"`
	Percentile     float64         `json:"percentile"`
	ZScore         float64         `json:"z_score"`
	Interpretation string          `json:"interpretation"`
	DataSource     string          `json:"data_source"`
}

func describe(values []float64) PopulationStats {
	n := len(values)
	if n == 0 {
		return PopulationStats{}
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	var median float64
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	var sqSum float64
	for _, v := range sorted {
		d := v - mean
		sqSum += d * d
	}
	std := math.Sqrt(sqSum / float64(n))

	return PopulationStats{N: n, Mean: round2(mean), Median: median, StdDev: round2(std)}
}

// percentile is the share of cohort scores at or below the patient's.
func percentile(values []float64, score float64) float64 {
	if len(values) == 0 {
		return 0
	}
	atOrBelow := 0
	for _, v := range values {
		if v <= score {
			atOrBelow++
		}
	}
	return round2(float64(atOrBelow) / float64(len(values)) * 100)
}

// Compare places score against the cohort's latest scores for one
// instrument. With fewer than two cohort members, or zero variance, the
// z-score is reported as 0 and interpretation notes the limitation.
func Compare(patientID, instrument string, score int, cohort []float64, dataSource string) *Comparison {
	c := &Comparison{
		PatientID:    patientID,
		Instrument:   instrument,
		PatientScore: score,
		Population:   describe(cohort),
		Percentile:   percentile(cohort, float64(score)),
		DataSource:   dataSource,
	}
	if c.Population.N < 2 || c.Population.StdDev == 0 {
		c.Interpretation = "Insufficient population variance for comparison"
		return c
	}
	c.ZScore = round2((float64(score) - c.Population.Mean) / c.Population.StdDev)
	c.Interpretation = interpretZ(c.ZScore)
	return c
}

func interpretZ(z float64) string {
	abs := math.Abs(z)
	direction := "above"
	if z < 0 {
		direction = "below"
	}
	switch {
	case abs < 1:
		return "Within normal range of the population"
	case abs < 2:
		return fmt.Sprintf("Moderately %s the population average", direction)
	default:
		return fmt.Sprintf("Significantly %s the population average", direction)
	}
}
