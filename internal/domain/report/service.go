package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/clinsight/clinsight/internal/config"
	"github.com/clinsight/clinsight/internal/domain/assessment"
	"github.com/clinsight/clinsight/internal/domain/risk"
	"github.com/clinsight/clinsight/internal/platform/evidence"
)

type Service struct {
	assessments *assessment.Service
	risks       *risk.Service
	evidence    evidence.Searcher
	protocol    *config.Protocol
	log         zerolog.Logger
}

// NewService wires the report assembler. evidenceSource may be nil; the
// supporting-evidence section is then omitted.
func NewService(assessments *assessment.Service, risks *risk.Service, evidenceSource evidence.Searcher, protocol *config.Protocol, log zerolog.Logger) *Service {
	if protocol == nil {
		protocol = config.DefaultProtocol()
	}
	return &Service{
		assessments: assessments,
		risks:       risks,
		evidence:    evidenceSource,
		protocol:    protocol,
		log:         log,
	}
}

// Build composes the structured payload for one patient.
func (s *Service) Build(ctx context.Context, patientID string) (*Payload, error) {
	ov, err := s.assessments.Overview(ctx, patientID, assessment.Filter{})
	if err != nil {
		return nil, err
	}
	profile, err := s.risks.Profile(ctx, patientID)
	if err != nil {
		return nil, err
	}

	p := &Payload{
		Trends:   ov.Trends,
		Timeline: ov.Timeline,
	}
	for _, inst := range assessment.All() {
		latest := ov.LatestByInstrument[inst]
		if latest == nil {
			continue
		}
		spec, _ := assessment.SpecFor(inst)
		p.Table = append(p.Table, TableRow{
			Instrument:  string(inst),
			DomainLabel: spec.DomainLabel,
			Score:       latest.Total,
			Max:         spec.Max,
			Severity:    latest.SeverityBand,
			Priority:    RowPriority(s.protocol, *latest),
			Date:        latest.Date,
		})
	}
	for _, ev := range ov.Timeline {
		p.Chart = append(p.Chart, ChartPoint{Date: ev.Date, Instrument: string(ev.Instrument), Score: ev.Score})
	}

	p.Narrative = s.narrative(ctx, ov, profile, p.Table)
	return p, nil
}

// Generate builds and serializes the report under the protocol's size cap.
func (s *Service) Generate(ctx context.Context, patientID string) (string, error) {
	p, err := s.Build(ctx, patientID)
	if err != nil {
		return "", err
	}
	return Assemble(p, s.protocol.Report), nil
}

func (s *Service) narrative(ctx context.Context, ov *assessment.PatientOverview, profile *risk.Profile, table []TableRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Clinical Assessment Report\n")
	fmt.Fprintf(&b, "Patient: %s\n", ov.PatientID)
	fmt.Fprintf(&b, "Data source: %s\n", ov.DataSource)

	if len(table) > 0 {
		b.WriteString("\nCurrent Scores:\n")
		for _, row := range table {
			fmt.Fprintf(&b, "- %s (%s): %d/%d, %s, priority %s\n",
				row.DomainLabel, strings.ToUpper(row.Instrument), row.Score, row.Max, row.Severity, row.Priority)
		}
	} else {
		b.WriteString("\nNo assessment scores on record.\n")
	}

	fmt.Fprintf(&b, "\nComposite Risk: %.2f (%s)\n", profile.CompositeScore, profile.RiskLevel)
	if profile.NeedsAttention {
		b.WriteString("This patient is flagged as needing clinical attention.\n")
	}

	if len(profile.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for i, rec := range profile.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
		}
	}

	if items := s.supportingEvidence(ctx, profile); len(items) > 0 {
		b.WriteString("\nSupporting Evidence:\n")
		for _, item := range items {
			fmt.Fprintf(&b, "- %s (%s, relevance %.2f)\n", item.Text, item.Source, item.Relevance)
		}
	}
	return b.String()
}

// supportingEvidence queries the similarity-search service for the
// patient's elevated domains. Zero or partial results are fine; a lookup
// failure only drops the section.
func (s *Service) supportingEvidence(ctx context.Context, profile *risk.Profile) []evidence.Result {
	if s.evidence == nil {
		return nil
	}
	var terms []string
	for _, f := range profile.ContributingFactors {
		if f.RiskLevel >= 3 {
			terms = append(terms, f.Factor)
		}
	}
	if len(terms) == 0 {
		terms = append(terms, "routine monitoring")
	}
	results, err := s.evidence.Search(ctx, strings.Join(terms, " ")+" treatment", 3)
	if err != nil {
		s.log.Warn().Err(err).Str("patient_id", profile.PatientID).
			Msg("evidence lookup failed, omitting section")
		return nil
	}
	return results
}
