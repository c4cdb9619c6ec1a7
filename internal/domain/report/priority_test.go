package report

import (
	"testing"

	"github.com/clinsight/clinsight/internal/config"
	"github.com/clinsight/clinsight/internal/domain/assessment"
)

func TestRowPriority(t *testing.T) {
	p := config.DefaultProtocol()
	tests := []struct {
		name  string
		score assessment.DomainScore
		want  Priority
	}{
		{"ptsd high", assessment.DomainScore{Instrument: assessment.PTSD, Total: 41}, PriorityHigh},
		{"ptsd at cutoff is medium", assessment.DomainScore{Instrument: assessment.PTSD, Total: 40}, PriorityMedium},
		{"ptsd low", assessment.DomainScore{Instrument: assessment.PTSD, Total: 20}, PriorityLow},
		{"phq high", assessment.DomainScore{Instrument: assessment.PHQ, Total: 16}, PriorityHigh},
		{"phq medium", assessment.DomainScore{Instrument: assessment.PHQ, Total: 10}, PriorityMedium},
		{"phq low", assessment.DomainScore{Instrument: assessment.PHQ, Total: 9}, PriorityLow},
		{"gad high", assessment.DomainScore{Instrument: assessment.GAD, Total: 11}, PriorityHigh},
		{"gad medium", assessment.DomainScore{Instrument: assessment.GAD, Total: 6}, PriorityMedium},
		{"ders high", assessment.DomainScore{Instrument: assessment.DERS, Total: 101}, PriorityHigh},
		{"ders medium", assessment.DomainScore{Instrument: assessment.DERS, Total: 81}, PriorityMedium},
		{"ders low", assessment.DomainScore{Instrument: assessment.DERS, Total: 80}, PriorityLow},
		{"who reversed high", assessment.DomainScore{Instrument: assessment.WHO, Total: 10, ScaledTotal: 40}, PriorityHigh},
		{"who reversed medium", assessment.DomainScore{Instrument: assessment.WHO, Total: 15, ScaledTotal: 60}, PriorityMedium},
		{"who reversed low", assessment.DomainScore{Instrument: assessment.WHO, Total: 20, ScaledTotal: 80}, PriorityLow},
		{"unknown instrument", assessment.DomainScore{Instrument: "eeg", Total: 999}, PriorityLow},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := RowPriority(p, tc.score); got != tc.want {
				t.Errorf("priority = %s, want %s", got, tc.want)
			}
		})
	}
}
