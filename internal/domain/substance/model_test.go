package substance

import "testing"

func active(substance, pattern string) Record {
	return Record{Substance: substance, UseFlag: "active", PatternOfUse: pattern}
}

func TestRiskScore(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    int
	}{
		{"no history", nil, 1},
		{"inactive only", []Record{{Substance: "Alcohol", UseFlag: "inactive"}}, 1},
		{"one low-risk active", []Record{active("Alcohol", "social")}, 1},
		{"daily use", []Record{active("Alcohol", "daily")}, 2},
		{"high-risk substance", []Record{active("Fentanyl", "weekly")}, 3},
		{"three active", []Record{active("Alcohol", "social"), active("Cannabis", "weekly"), active("Tobacco", "social")}, 2},
		{"high-risk plus daily", []Record{active("Heroin", "daily")}, 4},
		{"everything caps at four", []Record{
			active("Heroin", "daily"),
			active("Crystal Meth", "daily"),
			active("Alcohol", "daily"),
			active("Cannabis", "daily"),
		}, 4},
		{"inactive high-risk does not count", []Record{{Substance: "Heroin", UseFlag: "inactive", PatternOfUse: "daily"}}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := RiskScore(tc.records); got != tc.want {
				t.Errorf("RiskScore = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestIsHighRisk(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Heroin", true},
		{"heroin", true},
		{"  Fentanyl ", true},
		{"Cocaine (Powder)", true},
		{"Crack Cocaine", true},
		{"Crystal Meth", true},
		{"Oxycontin", true},
		{"Methamphetamine", true},
		{"Alcohol", false},
		{"Cannabis", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := IsHighRisk(tc.name); got != tc.want {
			t.Errorf("IsHighRisk(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestRecord_Active(t *testing.T) {
	if !(Record{UseFlag: "Active"}).Active() {
		t.Error("case-insensitive active flag should match")
	}
	if (Record{UseFlag: "inactive"}).Active() {
		t.Error("inactive flag should not read as active")
	}
	if (Record{}).Active() {
		t.Error("blank flag should not read as active")
	}
}

func TestBuildProfile(t *testing.T) {
	records := []Record{
		active("Fentanyl", "weekly"),
		active("Alcohol", "daily"),
		{Substance: "Cannabis", UseFlag: "inactive", PatternOfUse: "stopped"},
	}
	p := BuildProfile("P-1", records, "real")

	if p.ActiveCount != 2 || len(p.Active) != 2 {
		t.Errorf("active count = %d, want 2", p.ActiveCount)
	}
	if len(p.Historical) != 1 {
		t.Errorf("historical = %d, want 1", len(p.Historical))
	}
	if len(p.HighRiskActive) != 1 || p.HighRiskActive[0] != "Fentanyl" {
		t.Errorf("high-risk active = %v", p.HighRiskActive)
	}
	if !p.DailyUse {
		t.Error("daily use should be flagged")
	}
	if p.RiskScore != 4 {
		t.Errorf("risk score = %d, want 4 (high-risk +2, daily +1)", p.RiskScore)
	}
	if p.DataSource != "real" {
		t.Errorf("data source = %q", p.DataSource)
	}
}
