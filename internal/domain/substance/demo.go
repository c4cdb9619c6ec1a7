package substance

import "context"

// syntheticSource mirrors the assessment demo cohort: DEMO-002 carries an
// active high-risk history, DEMO-001 a resolved one, DEMO-003 none.
type syntheticSource struct {
	records []Record
}

// NewSyntheticSource builds the in-memory demo substance history.
func NewSyntheticSource() Source {
	return &syntheticSource{records: []Record{
		{PatientID: "DEMO-001", Substance: "Alcohol", UseFlag: "inactive", PatternOfUse: "social, stopped 2024", RecordedDate: "2025-04-01"},
		{PatientID: "DEMO-001", Substance: "Cannabis", UseFlag: "inactive", PatternOfUse: "occasional, stopped 2023", RecordedDate: "2025-04-01"},
		{PatientID: "DEMO-002", Substance: "Alcohol", UseFlag: "active", PatternOfUse: "daily", RecordedDate: "2025-07-15"},
		{PatientID: "DEMO-002", Substance: "Fentanyl", UseFlag: "active", PatternOfUse: "weekly", RecordedDate: "2025-07-15"},
		{PatientID: "DEMO-002", Substance: "Cannabis", UseFlag: "active", PatternOfUse: "daily", RecordedDate: "2025-07-15"},
	}}
}

func (s *syntheticSource) Name() string { return "synthetic" }

func (s *syntheticSource) ListByPatient(_ context.Context, patientID string) ([]Record, error) {
	var out []Record
	for _, r := range s.records {
		if r.PatientID == patientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *syntheticSource) ListAll(_ context.Context) ([]Record, error) {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out, nil
}
