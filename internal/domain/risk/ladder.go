package risk

import "github.com/clinsight/clinsight/internal/domain/assessment"

// Per-domain risk ladders map an instrument total onto the shared 1-4
// scale the composite is built on. WHO-5 runs reversed: low wellbeing is
// high risk.

func ptsdLadder(total int) int {
	switch {
	case total < 20:
		return 1
	case total < 40:
		return 2
	case total < 60:
		return 3
	default:
		return 4
	}
}

func phqLadder(total int) int {
	switch {
	case total < 5:
		return 1
	case total < 10:
		return 2
	case total < 15:
		return 3
	default:
		return 4
	}
}

func gadLadder(total int) int {
	switch {
	case total < 5:
		return 1
	case total < 10:
		return 2
	case total < 15:
		return 3
	default:
		return 4
	}
}

func whoLadder(scaled int) int {
	switch {
	case scaled <= 52:
		return 4
	case scaled <= 68:
		return 3
	case scaled <= 84:
		return 2
	default:
		return 1
	}
}

func dersLadder(total int) int {
	switch {
	case total <= 90:
		return 1
	case total <= 120:
		return 2
	case total <= 150:
		return 3
	default:
		return 4
	}
}

// DomainLadder maps one scored instrument onto the 1-4 ladder.
func DomainLadder(score assessment.DomainScore) int {
	switch score.Instrument {
	case assessment.PTSD:
		return ptsdLadder(score.Total)
	case assessment.PHQ:
		return phqLadder(score.Total)
	case assessment.GAD:
		return gadLadder(score.Total)
	case assessment.WHO:
		return whoLadder(score.ScaledTotal)
	case assessment.DERS:
		return dersLadder(score.Total)
	default:
		return 1
	}
}

// normalizedScore reduces an instrument total to [0, 1], with WHO-5
// inverted so higher always means worse.
func normalizedScore(score assessment.DomainScore) float64 {
	spec, ok := assessment.SpecFor(score.Instrument)
	if !ok || spec.Max == 0 {
		return 0
	}
	var v float64
	if score.Instrument == assessment.WHO {
		v = float64(100-score.ScaledTotal) / 100
	} else {
		v = float64(score.Total) / float64(spec.Max)
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
