package risk

// Level classifies a composite risk score.
type Level string

const (
	Low      Level = "low"
	Moderate Level = "moderate"
	High     Level = "high"
)

// Factor names one domain's contribution to the composite. Factors are
// always reported in a fixed order so downstream renderers stay stable.
const (
	FactorDepression   = "depression"
	FactorAnxiety      = "anxiety"
	FactorSubstanceUse = "substance_use"
	FactorFunction     = "function"
)

var factorOrder = []string{FactorDepression, FactorAnxiety, FactorSubstanceUse, FactorFunction}

// ContributingFactor is one domain's weighted share of the composite.
type ContributingFactor struct {
	Factor          string  `json:"factor"`
	Weight          float64 `json:"weight"` // effective weight after renormalization
	NormalizedScore float64 `json:"normalized_score"`
	RiskLevel       int     `json:"risk_level"` // per-domain ladder, 1-4
}

// Profile is the aggregated risk picture for one patient.
type Profile struct {
	PatientID           string               `json:"patient_id"`
	CompositeScore      float64              `json:"composite_score"` // 1-4 ladder, 2 decimals
	RiskLevel           Level                `json:"risk_level"`
	NeedsAttention      bool                 `json:"needs_attention"`
	ContributingFactors []ContributingFactor `json:"contributing_factors"`
	Recommendations     []string             `json:"recommendations"`
	SubstanceActive     bool                 `json:"substance_active"`
	DataSource          string               `json:"data_source"`
}
