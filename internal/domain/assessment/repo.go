package assessment

import "context"

// Filter narrows a response listing. Zero values mean "no constraint".
type Filter struct {
	Instruments []Instrument
	StartDate   string // YYYY-MM-DD inclusive
	EndDate     string // YYYY-MM-DD inclusive
	Limit       int    // per instrument, newest first
}

// PatientSummary is one row of the patient directory.
type PatientSummary struct {
	PatientID        string `json:"patient_id"`
	LatestAssessment string `json:"latest_assessment,omitempty"`
}

// Source is the upstream data provider. Zero rows is a valid answer and
// means "no history", never an error. Implementations: Postgres (real) and
// the synthetic demo dataset (fallback).
type Source interface {
	Name() string
	ListResponses(ctx context.Context, patientID string, f Filter) ([]RawItemResponse, error)
	ListAllResponses(ctx context.Context, inst Instrument) ([]RawItemResponse, error)
	ListPatients(ctx context.Context) ([]PatientSummary, error)
}
