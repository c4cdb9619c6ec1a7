package risk

import (
	"testing"

	"github.com/clinsight/clinsight/internal/domain/assessment"
)

func TestDomainLadder(t *testing.T) {
	tests := []struct {
		name  string
		score assessment.DomainScore
		want  int
	}{
		{"ptsd minimal", assessment.DomainScore{Instrument: assessment.PTSD, Total: 19}, 1},
		{"ptsd mild", assessment.DomainScore{Instrument: assessment.PTSD, Total: 20}, 2},
		{"ptsd moderate", assessment.DomainScore{Instrument: assessment.PTSD, Total: 40}, 3},
		{"ptsd severe", assessment.DomainScore{Instrument: assessment.PTSD, Total: 60}, 4},
		{"phq minimal", assessment.DomainScore{Instrument: assessment.PHQ, Total: 4}, 1},
		{"phq mild", assessment.DomainScore{Instrument: assessment.PHQ, Total: 5}, 2},
		{"phq moderate", assessment.DomainScore{Instrument: assessment.PHQ, Total: 10}, 3},
		{"phq severe", assessment.DomainScore{Instrument: assessment.PHQ, Total: 15}, 4},
		{"gad moderate", assessment.DomainScore{Instrument: assessment.GAD, Total: 12}, 3},
		{"who poor wellbeing is high risk", assessment.DomainScore{Instrument: assessment.WHO, ScaledTotal: 52}, 4},
		{"who below average", assessment.DomainScore{Instrument: assessment.WHO, ScaledTotal: 68}, 3},
		{"who fair", assessment.DomainScore{Instrument: assessment.WHO, ScaledTotal: 84}, 2},
		{"who good wellbeing is low risk", assessment.DomainScore{Instrument: assessment.WHO, ScaledTotal: 85}, 1},
		{"ders low", assessment.DomainScore{Instrument: assessment.DERS, Total: 90}, 1},
		{"ders moderate", assessment.DomainScore{Instrument: assessment.DERS, Total: 120}, 2},
		{"ders high", assessment.DomainScore{Instrument: assessment.DERS, Total: 150}, 3},
		{"ders very high", assessment.DomainScore{Instrument: assessment.DERS, Total: 151}, 4},
		{"unknown instrument", assessment.DomainScore{Instrument: "eeg", Total: 99}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DomainLadder(tc.score); got != tc.want {
				t.Errorf("ladder = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestNormalizedScore(t *testing.T) {
	phq := assessment.DomainScore{Instrument: assessment.PHQ, Total: 27}
	if got := normalizedScore(phq); got != 1.0 {
		t.Errorf("phq max normalized = %v, want 1.0", got)
	}
	who := assessment.DomainScore{Instrument: assessment.WHO, Total: 25, ScaledTotal: 100}
	if got := normalizedScore(who); got != 0 {
		t.Errorf("perfect wellbeing normalized = %v, want 0 (inverted)", got)
	}
	whoLow := assessment.DomainScore{Instrument: assessment.WHO, Total: 5, ScaledTotal: 20}
	if got := normalizedScore(whoLow); got != 0.8 {
		t.Errorf("poor wellbeing normalized = %v, want 0.8", got)
	}
}
