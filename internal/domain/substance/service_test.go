package substance

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
)

type mockSource struct {
	name    string
	records []Record
	fail    bool
}

func (m *mockSource) Name() string { return m.name }

func (m *mockSource) ListByPatient(_ context.Context, patientID string) ([]Record, error) {
	if m.fail {
		return nil, fmt.Errorf("source unavailable")
	}
	var out []Record
	for _, r := range m.records {
		if r.PatientID == patientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockSource) ListAll(_ context.Context) ([]Record, error) {
	if m.fail {
		return nil, fmt.Errorf("source unavailable")
	}
	return m.records, nil
}

func TestService_History(t *testing.T) {
	src := &mockSource{name: "real", records: []Record{
		{PatientID: "P-1", Substance: "Heroin", UseFlag: "active", PatternOfUse: "daily"},
		{PatientID: "P-1", Substance: "Alcohol", UseFlag: "inactive"},
		{PatientID: "P-2", Substance: "Cannabis", UseFlag: "active"},
	}}
	svc := NewService(src, nil, zerolog.Nop())

	p, err := svc.History(context.Background(), "P-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ActiveCount != 1 || len(p.Historical) != 1 {
		t.Errorf("profile = %+v", p)
	}
	if p.RiskScore != 4 {
		t.Errorf("risk score = %d, want 4", p.RiskScore)
	}
}

func TestService_History_NoRecordsIsBaseline(t *testing.T) {
	svc := NewService(&mockSource{name: "real"}, nil, zerolog.Nop())
	p, err := svc.History(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.RiskScore != 1 || p.ActiveCount != 0 {
		t.Errorf("empty history should score baseline, got %+v", p)
	}
}

func TestService_History_FallsBack(t *testing.T) {
	primary := &mockSource{name: "real", fail: true}
	fallback := &mockSource{name: "synthetic", records: []Record{
		{PatientID: "P-1", Substance: "Alcohol", UseFlag: "active", PatternOfUse: "daily"},
	}}
	svc := NewService(primary, fallback, zerolog.Nop())

	p, err := svc.History(context.Background(), "P-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.DataSource != "synthetic" {
		t.Errorf("data source = %q, want synthetic", p.DataSource)
	}
	if p.RiskScore != 2 {
		t.Errorf("risk score = %d, want 2", p.RiskScore)
	}
}

func TestService_RiskSignal(t *testing.T) {
	src := &mockSource{name: "real", records: []Record{
		{PatientID: "P-1", Substance: "Fentanyl", UseFlag: "active", PatternOfUse: "weekly"},
	}}
	svc := NewService(src, nil, zerolog.Nop())

	score, active, present, err := svc.RiskSignal(context.Background(), "P-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 3 || !active || !present {
		t.Errorf("signal = (%d, %v, %v), want (3, true, true)", score, active, present)
	}

	score, active, present, err = svc.RiskSignal(context.Background(), "P-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 1 || active || present {
		t.Errorf("empty signal = (%d, %v, %v), want (1, false, false)", score, active, present)
	}
}

func TestService_PopulationPatterns(t *testing.T) {
	src := &mockSource{name: "real", records: []Record{
		{PatientID: "P-1", Substance: "Heroin", UseFlag: "active", PatternOfUse: "daily"},
		{PatientID: "P-2", Substance: "Alcohol", UseFlag: "active", PatternOfUse: "daily"},
		{PatientID: "P-3", Substance: "Cannabis", UseFlag: "inactive"},
		{PatientID: "P-4", Substance: "Alcohol", UseFlag: "active", PatternOfUse: "social"},
	}}
	svc := NewService(src, nil, zerolog.Nop())

	report, err := svc.PopulationPatterns(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.PatientsWithHistory != 4 {
		t.Errorf("patients with history = %d, want 4", report.PatientsWithHistory)
	}
	if report.ActiveUseCounts["Alcohol"] != 2 {
		t.Errorf("alcohol active count = %d, want 2", report.ActiveUseCounts["Alcohol"])
	}
	if len(report.HighRiskUsers) != 2 {
		t.Fatalf("high-risk users = %d, want 2 (score >= 2)", len(report.HighRiskUsers))
	}
	if report.HighRiskUsers[0].PatientID != "P-1" || report.HighRiskUsers[0].RiskScore != 4 {
		t.Errorf("top high-risk user = %+v, want P-1 at 4", report.HighRiskUsers[0])
	}
	if report.HighRiskUsers[1].PatientID != "P-2" || report.HighRiskUsers[1].RiskScore != 2 {
		t.Errorf("second high-risk user = %+v, want P-2 at 2", report.HighRiskUsers[1])
	}
}
