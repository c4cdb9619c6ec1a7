package risk

import (
	"math"

	"github.com/clinsight/clinsight/internal/config"
	"github.com/clinsight/clinsight/internal/domain/assessment"
)

// Inputs carries everything Aggregate needs for one patient. Latest holds
// the most recent score per instrument; nil entries mean the instrument was
// never administered. SubstanceScore is the 1-4 substance risk score, valid
// only when SubstancePresent is set.
type Inputs struct {
	PatientID        string
	Latest           map[assessment.Instrument]*assessment.DomainScore
	SubstancePresent bool
	SubstanceScore   int
	SubstanceActive  bool
	DataSource       string
}

type domainInput struct {
	present    bool
	ladder     int
	normalized float64
}

// Aggregate blends the per-domain 1-4 risk levels into a weighted composite.
// Weights are renormalized over the domains actually present, so a patient
// missing an instrument is judged on what was measured rather than
// penalized or diluted by absent data. With nothing present at all the
// profile is low risk with a zero composite, unless the patient carries an
// active substance-use flag; active use with no instrument scores is an
// attention case on its own.
func Aggregate(in Inputs, p *config.Protocol) *Profile {
	if p == nil {
		p = config.DefaultProtocol()
	}

	domains := map[string]domainInput{
		FactorDepression:   instrumentDomain(in.Latest[assessment.PHQ]),
		FactorAnxiety:      instrumentDomain(in.Latest[assessment.GAD]),
		FactorSubstanceUse: substanceDomain(in),
		FactorFunction:     functionDomain(in.Latest),
	}

	profile := &Profile{
		PatientID:       in.PatientID,
		RiskLevel:       Low,
		SubstanceActive: in.SubstanceActive,
		DataSource:      in.DataSource,
	}

	instrumentsMeasured := domains[FactorDepression].present ||
		domains[FactorAnxiety].present ||
		domains[FactorFunction].present

	var weightSum float64
	for _, factor := range factorOrder {
		if domains[factor].present {
			weightSum += p.RiskWeights[factor]
		}
	}
	if weightSum == 0 {
		// An active-use flag with nothing measured still needs eyes on it.
		if in.SubstanceActive {
			profile.NeedsAttention = true
			profile.RiskLevel = Moderate
			profile.Recommendations = recommend(domains, profile.RiskLevel)
		}
		return profile
	}

	var composite float64
	for _, factor := range factorOrder {
		d := domains[factor]
		if !d.present {
			continue
		}
		w := p.RiskWeights[factor] / weightSum
		composite += w * float64(d.ladder)
		profile.ContributingFactors = append(profile.ContributingFactors, ContributingFactor{
			Factor:          factor,
			Weight:          round2(w),
			NormalizedScore: round2(d.normalized),
			RiskLevel:       d.ladder,
		})
	}
	profile.CompositeScore = round2(composite)

	t := p.RiskThresholds
	switch {
	case profile.CompositeScore >= t.High,
		in.SubstanceActive && profile.CompositeScore >= t.SubstanceHigh:
		profile.RiskLevel = High
	case profile.CompositeScore >= t.Low:
		profile.RiskLevel = Moderate
	}

	profile.NeedsAttention = profile.RiskLevel != Low ||
		profile.CompositeScore > t.Attention ||
		(in.SubstanceActive && profile.CompositeScore > t.AttentionSubstance) ||
		(in.SubstanceActive && !instrumentsMeasured)

	// A patient flagged for attention is never presented as low risk.
	if profile.NeedsAttention && profile.RiskLevel == Low {
		profile.RiskLevel = Moderate
	}

	profile.Recommendations = recommend(domains, profile.RiskLevel)
	return profile
}

func instrumentDomain(score *assessment.DomainScore) domainInput {
	if score == nil {
		return domainInput{}
	}
	return domainInput{
		present:    true,
		ladder:     DomainLadder(*score),
		normalized: normalizedScore(*score),
	}
}

func substanceDomain(in Inputs) domainInput {
	if !in.SubstancePresent {
		return domainInput{}
	}
	score := in.SubstanceScore
	if score < 1 {
		score = 1
	}
	if score > 4 {
		score = 4
	}
	return domainInput{
		present:    true,
		ladder:     score,
		normalized: float64(score-1) / 3,
	}
}

// functionDomain blends the trauma, wellbeing and emotion-regulation
// instruments into one functional-impairment signal.
func functionDomain(latest map[assessment.Instrument]*assessment.DomainScore) domainInput {
	var ladderSum, normSum float64
	n := 0
	for _, inst := range []assessment.Instrument{assessment.PTSD, assessment.WHO, assessment.DERS} {
		score := latest[inst]
		if score == nil {
			continue
		}
		ladderSum += float64(DomainLadder(*score))
		normSum += normalizedScore(*score)
		n++
	}
	if n == 0 {
		return domainInput{}
	}
	return domainInput{
		present:    true,
		ladder:     int(math.Round(ladderSum / float64(n))),
		normalized: normSum / float64(n),
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
