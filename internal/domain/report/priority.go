package report

import (
	"github.com/clinsight/clinsight/internal/config"
	"github.com/clinsight/clinsight/internal/domain/assessment"
)

// RowPriority classifies one scored instrument for the summary table using
// the protocol's per-instrument cutoffs. These cuts are dashboard-local and
// intentionally independent of the risk aggregator; the two may disagree.
// WHO-5 is reversed: low scaled wellbeing flags high priority.
func RowPriority(p *config.Protocol, score assessment.DomainScore) Priority {
	cut, ok := p.RowPriority[string(score.Instrument)]
	if !ok {
		return PriorityLow
	}
	value := score.Total
	if score.Instrument == assessment.WHO {
		value = score.ScaledTotal
	}
	if cut.Reversed {
		switch {
		case value < cut.High:
			return PriorityHigh
		case value < cut.Medium:
			return PriorityMedium
		default:
			return PriorityLow
		}
	}
	switch {
	case value > cut.High:
		return PriorityHigh
	case value > cut.Medium:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
