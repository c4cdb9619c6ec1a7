package substance

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
)

// HighRiskUser is one row of the population high-risk listing.
type HighRiskUser struct {
	PatientID      string   `json:"patient_id"`
	RiskScore      int      `json:"risk_score"`
	ActiveCount    int      `json:"active_count"`
	HighRiskActive []string `json:"high_risk_active,omitempty"`
}

// PopulationReport summarizes substance-use patterns across the cohort.
type PopulationReport struct {
	DataSource          string         `json:"data_source"`
	PatientsWithHistory int            `json:"patients_with_history"`
	ActiveUseCounts     map[string]int `json:"active_use_counts"`
	HighRiskUsers       []HighRiskUser `json:"high_risk_users"`
}

type Service struct {
	primary  Source
	fallback Source
	log      zerolog.Logger
}

func NewService(primary, fallback Source, log zerolog.Logger) *Service {
	return &Service{primary: primary, fallback: fallback, log: log}
}

func (s *Service) listByPatient(ctx context.Context, patientID string) ([]Record, string, error) {
	if s.primary != nil {
		records, err := s.primary.ListByPatient(ctx, patientID)
		if err == nil {
			return records, s.primary.Name(), nil
		}
		if s.fallback == nil {
			return nil, "", err
		}
		s.log.Warn().Err(err).Str("patient_id", patientID).
			Msg("primary source failed, serving substance history from fallback")
	}
	if s.fallback == nil {
		return nil, "", fmt.Errorf("no data source configured")
	}
	records, err := s.fallback.ListByPatient(ctx, patientID)
	return records, s.fallback.Name(), err
}

// History builds the scored substance profile for one patient. A patient
// with nothing charted gets a baseline profile, not an error.
func (s *Service) History(ctx context.Context, patientID string) (*Profile, error) {
	if patientID == "" {
		return nil, fmt.Errorf("patient id is required")
	}
	records, sourceName, err := s.listByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return BuildProfile(patientID, records, sourceName), nil
}

// RiskSignal condenses the history into what the composite risk aggregator
// needs: the 1-4 substance risk score, whether any use is active, and
// whether any record exists at all. A missing history reads as baseline
// risk with no active use.
func (s *Service) RiskSignal(ctx context.Context, patientID string) (score int, active, present bool, err error) {
	records, _, err := s.listByPatient(ctx, patientID)
	if err != nil {
		return 0, false, false, err
	}
	for _, r := range records {
		if r.Active() {
			active = true
			break
		}
	}
	return RiskScore(records), active, len(records) > 0, nil
}

// PopulationPatterns aggregates active use across the cohort and lists
// patients whose substance risk score reaches 2 or more.
func (s *Service) PopulationPatterns(ctx context.Context) (*PopulationReport, error) {
	source := s.primary
	if source == nil {
		source = s.fallback
	}
	if source == nil {
		return nil, fmt.Errorf("no data source configured")
	}
	records, err := source.ListAll(ctx)
	if err != nil && s.fallback != nil && source != s.fallback {
		s.log.Warn().Err(err).Msg("primary source failed, reading substance population from fallback")
		source = s.fallback
		records, err = source.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	byPatient := map[string][]Record{}
	counts := map[string]int{}
	for _, r := range records {
		byPatient[r.PatientID] = append(byPatient[r.PatientID], r)
		if r.Active() {
			counts[r.Substance]++
		}
	}

	report := &PopulationReport{
		DataSource:          source.Name(),
		PatientsWithHistory: len(byPatient),
		ActiveUseCounts:     counts,
	}
	for id, rs := range byPatient {
		p := BuildProfile(id, rs, source.Name())
		if p.RiskScore < 2 {
			continue
		}
		report.HighRiskUsers = append(report.HighRiskUsers, HighRiskUser{
			PatientID:      id,
			RiskScore:      p.RiskScore,
			ActiveCount:    p.ActiveCount,
			HighRiskActive: p.HighRiskActive,
		})
	}
	sort.Slice(report.HighRiskUsers, func(i, j int) bool {
		a, b := report.HighRiskUsers[i], report.HighRiskUsers[j]
		if a.RiskScore != b.RiskScore {
			return a.RiskScore > b.RiskScore
		}
		return a.PatientID < b.PatientID
	})
	return report, nil
}
