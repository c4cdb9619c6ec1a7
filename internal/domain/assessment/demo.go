package assessment

import (
	"context"
	"sort"
)

// syntheticSource serves a small fixed cohort so the API stays usable in
// demos and local development without a database. The data is deterministic:
// the same patients, dates, and item answers on every run.
type syntheticSource struct {
	responses map[string][]RawItemResponse
}

// NewSyntheticSource builds the in-memory demo cohort.
func NewSyntheticSource() Source {
	s := &syntheticSource{responses: map[string][]RawItemResponse{}}
	for _, r := range demoResponses() {
		s.responses[r.PatientID] = append(s.responses[r.PatientID], r)
	}
	return s
}

func (s *syntheticSource) Name() string { return "synthetic" }

func (s *syntheticSource) ListResponses(_ context.Context, patientID string, f Filter) ([]RawItemResponse, error) {
	wanted := map[Instrument]bool{}
	for _, inst := range f.Instruments {
		wanted[inst] = true
	}

	perInstrument := map[Instrument]int{}
	var out []RawItemResponse
	for _, r := range s.responses[patientID] {
		if len(wanted) > 0 && !wanted[r.Instrument] {
			continue
		}
		if f.StartDate != "" && r.AssessmentDate < f.StartDate {
			continue
		}
		if f.EndDate != "" && r.AssessmentDate > f.EndDate {
			continue
		}
		if f.Limit > 0 && perInstrument[r.Instrument] >= f.Limit {
			continue
		}
		perInstrument[r.Instrument]++
		out = append(out, r)
	}
	return out, nil
}

func (s *syntheticSource) ListAllResponses(_ context.Context, inst Instrument) ([]RawItemResponse, error) {
	var out []RawItemResponse
	for _, rs := range s.responses {
		for _, r := range rs {
			if r.Instrument == inst {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (s *syntheticSource) ListPatients(_ context.Context) ([]PatientSummary, error) {
	var out []PatientSummary
	for id, rs := range s.responses {
		latest := ""
		for _, r := range rs {
			if r.AssessmentDate > latest {
				latest = r.AssessmentDate
			}
		}
		out = append(out, PatientSummary{PatientID: id, LatestAssessment: latest})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PatientID < out[j].PatientID })
	return out, nil
}

// demoResponses covers three archetypes: DEMO-001 improving across repeat
// assessments, DEMO-002 worsening with elevated scores, DEMO-003 a single
// low-acuity intake.
func demoResponses() []RawItemResponse {
	uniform := func(keys []string, v float64) map[string]interface{} {
		m := make(map[string]interface{}, len(keys))
		for _, k := range keys {
			m[k] = v
		}
		return m
	}

	ptsdKeys := specs[PTSD].ItemKeys
	phqKeys := specs[PHQ].ItemKeys
	gadKeys := specs[GAD].ItemKeys
	whoKeys := specs[WHO].ItemKeys
	dersKeys := specs[DERS].ItemKeys

	return []RawItemResponse{
		// DEMO-001: scores decline over three months.
		{PatientID: "DEMO-001", Instrument: PTSD, AssessmentDate: "2025-04-01", Answers: uniform(ptsdKeys, 3)},
		{PatientID: "DEMO-001", Instrument: PTSD, AssessmentDate: "2025-05-01", Answers: uniform(ptsdKeys, 2)},
		{PatientID: "DEMO-001", Instrument: PTSD, AssessmentDate: "2025-06-01", Answers: uniform(ptsdKeys, 1)},
		{PatientID: "DEMO-001", Instrument: PHQ, AssessmentDate: "2025-04-01", Answers: uniform(phqKeys, 2)},
		{PatientID: "DEMO-001", Instrument: PHQ, AssessmentDate: "2025-06-01", Answers: uniform(phqKeys, 1)},
		{PatientID: "DEMO-001", Instrument: GAD, AssessmentDate: "2025-04-01", Answers: uniform(gadKeys, 2)},
		{PatientID: "DEMO-001", Instrument: GAD, AssessmentDate: "2025-06-01", Answers: uniform(gadKeys, 1)},
		{PatientID: "DEMO-001", Instrument: WHO, AssessmentDate: "2025-04-01", Answers: uniform(whoKeys, 2)},
		{PatientID: "DEMO-001", Instrument: WHO, AssessmentDate: "2025-06-01", Answers: uniform(whoKeys, 4)},
		{PatientID: "DEMO-001", Instrument: DERS, AssessmentDate: "2025-04-01", Answers: uniform(dersKeys, 3)},
		{PatientID: "DEMO-001", Instrument: DERS, AssessmentDate: "2025-06-01", Answers: uniform(dersKeys, 2)},

		// DEMO-002: elevated and rising.
		{PatientID: "DEMO-002", Instrument: PTSD, AssessmentDate: "2025-05-15", Answers: uniform(ptsdKeys, 2)},
		{PatientID: "DEMO-002", Instrument: PTSD, AssessmentDate: "2025-07-15", Answers: uniform(ptsdKeys, 3)},
		{PatientID: "DEMO-002", Instrument: PHQ, AssessmentDate: "2025-05-15", Answers: uniform(phqKeys, 2)},
		{PatientID: "DEMO-002", Instrument: PHQ, AssessmentDate: "2025-07-15", Answers: uniform(phqKeys, 3)},
		{PatientID: "DEMO-002", Instrument: GAD, AssessmentDate: "2025-07-15", Answers: uniform(gadKeys, 3)},
		{PatientID: "DEMO-002", Instrument: WHO, AssessmentDate: "2025-07-15", Answers: uniform(whoKeys, 1)},
		{PatientID: "DEMO-002", Instrument: DERS, AssessmentDate: "2025-07-15", Answers: uniform(dersKeys, 4)},

		// DEMO-003: single mild intake, no dates beyond the visit.
		{PatientID: "DEMO-003", Instrument: PHQ, AssessmentDate: "2025-08-10", Answers: uniform(phqKeys, 1)},
		{PatientID: "DEMO-003", Instrument: GAD, AssessmentDate: "2025-08-10", Answers: uniform(gadKeys, 0)},
		{PatientID: "DEMO-003", Instrument: WHO, AssessmentDate: "2025-08-10", Answers: uniform(whoKeys, 4)},
	}
}
