package substance

import "strings"

// Record is one substance-history row for a patient, as charted: which
// substance, whether use is current, and the reported pattern.
type Record struct {
	PatientID    string `json:"patient_id"`
	Substance    string `json:"substance"`
	UseFlag      string `json:"use_flag"` // "active" or "inactive"
	PatternOfUse string `json:"pattern_of_use"`
	RecordedDate string `json:"recorded_date,omitempty"`
}

// highRiskSubstances are the agents that raise the substance risk score on
// their own when use is active.
var highRiskSubstances = map[string]bool{
	"heroin":           true,
	"cocaine (powder)": true,
	"crack cocaine":    true,
	"crystal meth":     true,
	"oxycontin":        true,
	"fentanyl":         true,
	"methamphetamine":  true,
}

// IsHighRisk reports whether the named substance is on the elevated-risk
// list. Matching is case-insensitive.
func IsHighRisk(name string) bool {
	return highRiskSubstances[strings.ToLower(strings.TrimSpace(name))]
}

// Active reports whether the record describes current use.
func (r Record) Active() bool {
	return strings.EqualFold(strings.TrimSpace(r.UseFlag), "active")
}

// DailyUse reports whether the charted pattern describes daily use.
func (r Record) DailyUse() bool {
	return strings.Contains(strings.ToLower(r.PatternOfUse), "daily")
}

// Profile is the scored substance-use picture for one patient.
type Profile struct {
	PatientID      string   `json:"patient_id"`
	Active         []Record `json:"active"`
	Historical     []Record `json:"historical"`
	ActiveCount    int      `json:"active_count"`
	HighRiskActive []string `json:"high_risk_active,omitempty"`
	DailyUse       bool     `json:"daily_use"`
	RiskScore      int      `json:"risk_score"` // 1 (baseline) to 4
	DataSource     string   `json:"data_source"`
}

// RiskScore computes the 1-4 substance risk score from a patient's records.
// Baseline 1; +1 for three or more active substances; +2 for any active
// high-risk substance; +1 for any active daily-use pattern; capped at 4.
func RiskScore(records []Record) int {
	score := 1
	activeCount := 0
	highRisk := false
	daily := false
	for _, r := range records {
		if !r.Active() {
			continue
		}
		activeCount++
		if IsHighRisk(r.Substance) {
			highRisk = true
		}
		if r.DailyUse() {
			daily = true
		}
	}
	if activeCount >= 3 {
		score++
	}
	if highRisk {
		score += 2
	}
	if daily {
		score++
	}
	if score > 4 {
		score = 4
	}
	return score
}

// BuildProfile splits the records into active and historical use and scores
// them.
func BuildProfile(patientID string, records []Record, dataSource string) *Profile {
	p := &Profile{PatientID: patientID, DataSource: dataSource, RiskScore: RiskScore(records)}
	for _, r := range records {
		if r.Active() {
			p.Active = append(p.Active, r)
			p.ActiveCount++
			if IsHighRisk(r.Substance) {
				p.HighRiskActive = append(p.HighRiskActive, r.Substance)
			}
			if r.DailyUse() {
				p.DailyUse = true
			}
		} else {
			p.Historical = append(p.Historical, r)
		}
	}
	return p
}
