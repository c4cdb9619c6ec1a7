package risk

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/clinsight/clinsight/internal/config"
	"github.com/clinsight/clinsight/internal/domain/assessment"
	"github.com/clinsight/clinsight/internal/domain/substance"
)

type Service struct {
	assessments *assessment.Service
	substances  *substance.Service
	protocol    *config.Protocol
	log         zerolog.Logger
}

func NewService(assessments *assessment.Service, substances *substance.Service, protocol *config.Protocol, log zerolog.Logger) *Service {
	if protocol == nil {
		protocol = config.DefaultProtocol()
	}
	return &Service{assessments: assessments, substances: substances, protocol: protocol, log: log}
}

// Profile computes the composite risk profile for one patient.
func (s *Service) Profile(ctx context.Context, patientID string) (*Profile, error) {
	ov, err := s.assessments.Overview(ctx, patientID, assessment.Filter{})
	if err != nil {
		return nil, err
	}
	return s.profileFromOverview(ctx, ov), nil
}

func (s *Service) profileFromOverview(ctx context.Context, ov *assessment.PatientOverview) *Profile {
	in := Inputs{
		PatientID:  ov.PatientID,
		Latest:     ov.LatestByInstrument,
		DataSource: ov.DataSource,
	}
	// Substance history is optional context. A substance-source failure
	// degrades the profile to assessment-only rather than failing it.
	if s.substances != nil {
		score, active, present, err := s.substances.RiskSignal(ctx, ov.PatientID)
		if err != nil {
			s.log.Warn().Err(err).Str("patient_id", ov.PatientID).
				Msg("substance history unavailable, scoring without it")
		} else if present {
			in.SubstancePresent = true
			in.SubstanceScore = score
			in.SubstanceActive = active
		}
	}
	return Aggregate(in, s.protocol)
}

// ScreenPopulation runs the composite profile over every known patient.
// Individual failures are recorded, not propagated.
func (s *Service) ScreenPopulation(ctx context.Context) (*ScreeningReport, error) {
	patients, err := s.assessments.AllPatients(ctx)
	if err != nil {
		return nil, err
	}

	report := &ScreeningReport{AnalysisErrors: map[string]string{}}
	for _, p := range patients {
		ov, err := s.assessments.Overview(ctx, p.PatientID, assessment.Filter{})
		if err != nil {
			report.AnalysisErrors[p.PatientID] = err.Error()
			continue
		}
		profile := s.profileFromOverview(ctx, ov)
		report.Results = append(report.Results, profile)
		report.SuccessfullyAnalyzed++
		if report.DataSource == "" {
			report.DataSource = profile.DataSource
		}
	}
	if len(patients) > 0 {
		report.CoveragePercentage = round2(float64(report.SuccessfullyAnalyzed) / float64(len(patients)) * 100)
	}
	if len(report.AnalysisErrors) == 0 {
		report.AnalysisErrors = nil
	}
	sort.Slice(report.Results, func(i, j int) bool {
		a, b := report.Results[i], report.Results[j]
		if a.CompositeScore != b.CompositeScore {
			return a.CompositeScore > b.CompositeScore
		}
		return a.PatientID < b.PatientID
	})
	return report, nil
}

// NeedsAttention screens every patient's latest scores against the fixed
// instrument thresholds.
func (s *Service) NeedsAttention(ctx context.Context) (*AttentionReport, error) {
	patients, err := s.assessments.AllPatients(ctx)
	if err != nil {
		return nil, err
	}

	report := &AttentionReport{Screened: len(patients)}
	for _, p := range patients {
		ov, err := s.assessments.Overview(ctx, p.PatientID, assessment.Filter{})
		if err != nil {
			s.log.Warn().Err(err).Str("patient_id", p.PatientID).Msg("attention screen skipped patient")
			continue
		}
		if report.DataSource == "" {
			report.DataSource = ov.DataSource
		}
		if flags := flagsFor(ov.LatestByInstrument); len(flags) > 0 {
			report.Patients = append(report.Patients, AttentionPatient{PatientID: p.PatientID, Flags: flags})
		}
	}
	return report, nil
}

// ComparePatient places one patient's latest score on an instrument against
// the cohort distribution.
func (s *Service) ComparePatient(ctx context.Context, patientID string, inst assessment.Instrument) (*Comparison, error) {
	if patientID == "" {
		return nil, fmt.Errorf("patient id is required")
	}
	latest, err := s.assessments.LatestByPatient(ctx, inst)
	if err != nil {
		return nil, err
	}
	patientScore, ok := latest[patientID]
	if !ok {
		return nil, fmt.Errorf("no %s assessment recorded for patient %s", inst, patientID)
	}

	cohort := make([]float64, 0, len(latest))
	for _, sc := range latest {
		cohort = append(cohort, float64(sc.Total))
	}
	return Compare(patientID, string(inst), patientScore.Total, cohort, s.assessments.SourceName()), nil
}

// Stats summarizes the dataset footprint per instrument.
func (s *Service) Stats(ctx context.Context) (*SummaryStats, error) {
	stats := &SummaryStats{DataSource: s.assessments.SourceName()}
	allPatients := map[string]bool{}
	for _, inst := range assessment.All() {
		counts, records, err := s.instrumentCounts(ctx, inst)
		if err != nil {
			return nil, err
		}
		is := InstrumentStats{
			Instrument:     inst,
			Records:        records,
			UniquePatients: len(counts),
			ClinicalInfo:   clinicalInfo[inst],
		}
		if len(counts) > 0 {
			is.AvgPerPatient = round2(float64(records) / float64(len(counts)))
		}
		for id := range counts {
			allPatients[id] = true
		}
		stats.Instruments = append(stats.Instruments, is)
		stats.TotalRecords += records
	}
	stats.UniquePatients = len(allPatients)
	return stats, nil
}

func (s *Service) instrumentCounts(ctx context.Context, inst assessment.Instrument) (map[string]int, int, error) {
	responses, err := s.assessments.AllResponses(ctx, inst)
	if err != nil {
		return nil, 0, err
	}
	counts := map[string]int{}
	for _, r := range responses {
		counts[r.PatientID]++
	}
	return counts, len(responses), nil
}

