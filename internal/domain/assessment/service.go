package assessment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinsight/clinsight/pkg/pagination"
)

// PatientOverview is the fully scored view of one patient: latest score per
// instrument, the historical series behind each, derived trends, and the
// merged cross-instrument timeline.
type PatientOverview struct {
	PatientID          string                      `json:"patient_id"`
	DataSource         string                      `json:"data_source"`
	Latest             []DomainScore               `json:"latest_scores"`
	Series             map[Instrument]DomainSeries `json:"series"`
	LatestByInstrument map[Instrument]*DomainScore `json:"-"`
	Trends             []TrendRecord               `json:"trends"`
	Timeline           []TimelineEvent             `json:"timeline"`
}

// ProgressReport is the trend-only slice of an overview, for callers that
// want direction of travel without the raw series.
type ProgressReport struct {
	PatientID       string        `json:"patient_id"`
	DataSource      string        `json:"data_source"`
	Trends          []TrendRecord `json:"trends"`
	AssessmentCount int           `json:"assessment_count"`
}

type Service struct {
	primary  Source
	fallback Source
	scorer   *Scorer
	log      zerolog.Logger
}

// NewService wires the scoring pipeline over a primary data source. fallback
// may be nil; when set, a primary read failure is logged and the fallback
// serves the request instead, with DataSource reporting which one answered.
func NewService(primary, fallback Source, scorer *Scorer, log zerolog.Logger) *Service {
	if scorer == nil {
		scorer = NewScorer(nil)
	}
	return &Service{primary: primary, fallback: fallback, scorer: scorer, log: log}
}

// SourceName reports the primary source's label.
func (s *Service) SourceName() string {
	if s.primary != nil {
		return s.primary.Name()
	}
	return ""
}

func (s *Service) fetch(ctx context.Context, patientID string, f Filter) ([]RawItemResponse, string, error) {
	if s.primary != nil {
		responses, err := s.primary.ListResponses(ctx, patientID, f)
		if err == nil {
			return responses, s.primary.Name(), nil
		}
		if s.fallback == nil {
			return nil, "", err
		}
		s.log.Warn().Err(err).Str("patient_id", patientID).
			Msg("primary source failed, serving from fallback")
	}
	if s.fallback == nil {
		return nil, "", fmt.Errorf("no data source configured")
	}
	responses, err := s.fallback.ListResponses(ctx, patientID, f)
	return responses, s.fallback.Name(), err
}

// Overview scores every response for the patient and assembles the per-domain
// view. An unknown patient is not an error: the overview comes back with
// empty series and insufficient-data trends.
func (s *Service) Overview(ctx context.Context, patientID string, f Filter) (*PatientOverview, error) {
	if patientID == "" {
		return nil, fmt.Errorf("patient id is required")
	}
	responses, sourceName, err := s.fetch(ctx, patientID, f)
	if err != nil {
		return nil, err
	}

	instruments := f.Instruments
	if len(instruments) == 0 {
		instruments = All()
	}

	byInstrument := map[Instrument][]RawItemResponse{}
	for _, r := range responses {
		byInstrument[r.Instrument] = append(byInstrument[r.Instrument], r)
	}

	ov := &PatientOverview{
		PatientID:          patientID,
		DataSource:         sourceName,
		Series:             map[Instrument]DomainSeries{},
		LatestByInstrument: map[Instrument]*DomainScore{},
	}
	for _, inst := range instruments {
		series, latest := s.scorer.BuildSeries(byInstrument[inst])
		ov.Series[inst] = series
		ov.LatestByInstrument[inst] = latest
		if latest != nil {
			ov.Latest = append(ov.Latest, *latest)
		}
	}

	// EnsureTimeline can mirror synthetic points into the series, so trends
	// derive only after the timeline settles.
	ov.Timeline = EnsureTimeline(ov.Series, ov.LatestByInstrument, Today())
	for _, inst := range instruments {
		ov.Trends = append(ov.Trends, DeriveTrend(inst, ov.Series[inst]))
	}
	return ov, nil
}

// Progress derives per-instrument trends for the patient.
func (s *Service) Progress(ctx context.Context, patientID string, f Filter) (*ProgressReport, error) {
	ov, err := s.Overview(ctx, patientID, f)
	if err != nil {
		return nil, err
	}
	report := &ProgressReport{
		PatientID:  ov.PatientID,
		DataSource: ov.DataSource,
		Trends:     ov.Trends,
	}
	for _, t := range ov.Trends {
		report.AssessmentCount += t.AssessmentCount
	}
	return report, nil
}

// Patients lists the known cohort with pagination applied in memory; the
// roster is small enough that per-source SQL pagination is not worth the
// interface surface. When activeOnly is set, only patients assessed within
// the last 365 days are returned.
func (s *Service) Patients(ctx context.Context, p pagination.Params, activeOnly bool) (*pagination.Response, error) {
	all, err := s.AllPatients(ctx)
	if err != nil {
		return nil, err
	}
	if activeOnly {
		cutoff := time.Now().AddDate(-1, 0, 0).Format("2006-01-02")
		active := all[:0:0]
		for _, ps := range all {
			// ISO dates compare correctly as strings; undated patients
			// cannot be shown as active.
			if ps.LatestAssessment != "" && ps.LatestAssessment >= cutoff {
				active = append(active, ps)
			}
		}
		all = active
	}
	page, total := pagination.Slice(all, p)
	return pagination.NewResponse(page, total, p.Limit, p.Offset), nil
}

// AllPatients lists the full known cohort without pagination, for batch
// screening and tool surfaces.
func (s *Service) AllPatients(ctx context.Context) ([]PatientSummary, error) {
	source := s.primary
	if source == nil {
		source = s.fallback
	}
	if source == nil {
		return nil, fmt.Errorf("no data source configured")
	}
	all, err := source.ListPatients(ctx)
	if err != nil && s.fallback != nil && source != s.fallback {
		s.log.Warn().Err(err).Msg("primary source failed, listing patients from fallback")
		all, err = s.fallback.ListPatients(ctx)
	}
	return all, err
}

// AllResponses returns every stored response for one instrument across the
// cohort.
func (s *Service) AllResponses(ctx context.Context, inst Instrument) ([]RawItemResponse, error) {
	if !Valid(string(inst)) {
		return nil, fmt.Errorf("unknown instrument %q", inst)
	}
	source := s.primary
	if source == nil {
		source = s.fallback
	}
	if source == nil {
		return nil, fmt.Errorf("no data source configured")
	}
	responses, err := source.ListAllResponses(ctx, inst)
	if err != nil && s.fallback != nil && source != s.fallback {
		s.log.Warn().Err(err).Str("instrument", string(inst)).
			Msg("primary source failed, reading population from fallback")
		responses, err = s.fallback.ListAllResponses(ctx, inst)
	}
	return responses, err
}

// LatestByPatient scores every patient's most recent response on one
// instrument, for population-level statistics.
func (s *Service) LatestByPatient(ctx context.Context, inst Instrument) (map[string]DomainScore, error) {
	responses, err := s.AllResponses(ctx, inst)
	if err != nil {
		return nil, err
	}

	byPatient := map[string][]RawItemResponse{}
	for _, r := range responses {
		byPatient[r.PatientID] = append(byPatient[r.PatientID], r)
	}
	out := map[string]DomainScore{}
	for id, rs := range byPatient {
		if _, latest := s.scorer.BuildSeries(rs); latest != nil {
			out[id] = *latest
		}
	}
	return out, nil
}

// Scorer exposes the configured scorer for the risk and report layers.
func (s *Service) Scorer() *Scorer { return s.scorer }
