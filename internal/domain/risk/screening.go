package risk

import (
	"github.com/clinsight/clinsight/internal/domain/assessment"
)

// Screen thresholds: a latest score at or beyond these flags the patient on
// the needs-attention screen regardless of composite risk.
var attentionThresholds = map[assessment.Instrument]int{
	assessment.PTSD: 50,
	assessment.PHQ:  15,
	assessment.GAD:  15,
}

// AttentionFlag is one instrument reading that tripped the screen.
type AttentionFlag struct {
	Instrument assessment.Instrument `json:"instrument"`
	Score      int                   `json:"score"`
	Threshold  int                   `json:"threshold"`
	Date       string                `json:"date,omitempty"`
}

// AttentionPatient is one flagged patient on the screen.
type AttentionPatient struct {
	PatientID string          `json:"patient_id"`
	Flags     []AttentionFlag `json:"flags"`
}

// AttentionReport is the population needs-attention screen.
type AttentionReport struct {
	Patients   []AttentionPatient `json:"patients"`
	Screened   int                `json:"screened"`
	DataSource string             `json:"data_source"`
}

// flagsFor screens one patient's latest scores against the thresholds.
func flagsFor(latest map[assessment.Instrument]*assessment.DomainScore) []AttentionFlag {
	var flags []AttentionFlag
	for _, inst := range []assessment.Instrument{assessment.PTSD, assessment.PHQ, assessment.GAD} {
		score := latest[inst]
		if score == nil {
			continue
		}
		threshold := attentionThresholds[inst]
		if score.Total >= threshold {
			flags = append(flags, AttentionFlag{
				Instrument: inst,
				Score:      score.Total,
				Threshold:  threshold,
				Date:       score.Date,
			})
		}
	}
	return flags
}

// ScreeningReport is the outcome of a batch composite-risk run. One
// patient's failure never aborts the batch; errors are captured per patient
// and the coverage percentage reflects how much of the cohort was scored.
type ScreeningReport struct {
	Results              []*Profile        `json:"results"`
	SuccessfullyAnalyzed int               `json:"successfully_analyzed"`
	AnalysisErrors       map[string]string `json:"analysis_errors,omitempty"`
	CoveragePercentage   float64           `json:"coverage_percentage"`
	DataSource           string            `json:"data_source"`
}
