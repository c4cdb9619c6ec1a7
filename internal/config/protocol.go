package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Protocol carries every clinical tuning constant the pipeline uses:
// composite-risk weights, severity cut-points, report row priorities and
// payload limits. Thresholds are swappable per clinical protocol without
// touching pipeline logic; compiled-in defaults match the dashboard's
// published behavior.
type Protocol struct {
	RiskWeights    map[string]float64       `yaml:"risk_weights"`
	RiskThresholds RiskThresholds           `yaml:"risk_thresholds"`
	SeverityBands  map[string][]SeverityCut `yaml:"severity_bands"`
	RowPriority    map[string]PriorityCut   `yaml:"row_priority"`
	Report         ReportLimits             `yaml:"report"`
}

// SeverityCut assigns a band to totals up to and including UpTo. Cuts are
// evaluated in order; the last cut's UpTo is the instrument maximum.
type SeverityCut struct {
	Band string `yaml:"band"`
	UpTo int    `yaml:"up_to"`
}

// RiskThresholds classify the composite score, which is expressed on the
// 1-4 per-domain risk ladder.
type RiskThresholds struct {
	Low                float64 `yaml:"low"`                 // composite below this is low risk
	High               float64 `yaml:"high"`                // composite at or above this is high risk
	SubstanceHigh      float64 `yaml:"substance_high"`      // high risk when substance domain active and composite at or above this
	Attention          float64 `yaml:"attention"`           // needs-attention when composite exceeds this
	AttentionSubstance float64 `yaml:"attention_substance"` // needs-attention when substance active and composite exceeds this
}

// PriorityCut tags report table rows. A score above High is high priority,
// above Medium is medium, otherwise low. Reversed instruments (WHO-5) flag
// high priority below the cut instead.
type PriorityCut struct {
	High     int  `yaml:"high"`
	Medium   int  `yaml:"medium"`
	Reversed bool `yaml:"reversed"`
}

// ReportLimits bound the serialized report payload.
type ReportLimits struct {
	MaxChars   int `yaml:"max_chars"`
	TruncateTo int `yaml:"truncate_to"`
}

// DefaultProtocol returns the dashboard's standard clinical protocol.
func DefaultProtocol() *Protocol {
	return &Protocol{
		RiskWeights: map[string]float64{
			"depression":    0.25,
			"anxiety":       0.25,
			"substance_use": 0.20,
			"function":      0.30,
		},
		RiskThresholds: RiskThresholds{
			Low:                2.0,
			High:               3.0,
			SubstanceHigh:      2.5,
			Attention:          2.0,
			AttentionSubstance: 1.2,
		},
		SeverityBands: map[string][]SeverityCut{
			"ptsd": {
				{Band: "minimal", UpTo: 19},
				{Band: "mild", UpTo: 39},
				{Band: "moderate", UpTo: 59},
				{Band: "severe", UpTo: 80},
			},
			"phq": {
				{Band: "minimal", UpTo: 4},
				{Band: "mild", UpTo: 9},
				{Band: "moderate", UpTo: 14},
				{Band: "moderately_severe", UpTo: 19},
				{Band: "severe", UpTo: 27},
			},
			"gad": {
				{Band: "minimal", UpTo: 4},
				{Band: "mild", UpTo: 9},
				{Band: "moderate", UpTo: 14},
				{Band: "severe", UpTo: 21},
			},
			// WHO-5 bands are on the 0-100 scaled score (raw total x 4).
			"who": {
				{Band: "poor_wellbeing", UpTo: 52},
				{Band: "below_average", UpTo: 68},
				{Band: "good_wellbeing", UpTo: 100},
			},
			"ders": {
				{Band: "low_difficulties", UpTo: 90},
				{Band: "moderate_difficulties", UpTo: 120},
				{Band: "high_difficulties", UpTo: 180},
			},
		},
		RowPriority: map[string]PriorityCut{
			"ptsd": {High: 40, Medium: 20},
			"phq":  {High: 15, Medium: 9},
			"gad":  {High: 10, Medium: 5},
			"ders": {High: 100, Medium: 80},
			"who":  {High: 50, Medium: 68, Reversed: true},
		},
		Report: ReportLimits{
			MaxChars:   15000,
			TruncateTo: 14500,
		},
	}
}

// LoadProtocol reads a YAML protocol file over the defaults. An empty path
// returns the defaults unchanged.
func LoadProtocol(path string) (*Protocol, error) {
	p := DefaultProtocol()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read protocol file: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse protocol file: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("protocol file %s: %w", path, err)
	}
	return p, nil
}

// Validate rejects weight tables that do not sum to 1 and cut-point lists
// that are out of order.
func (p *Protocol) Validate() error {
	var sum float64
	for _, w := range p.RiskWeights {
		if w < 0 {
			return fmt.Errorf("negative risk weight")
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("risk weights must sum to 1.0, got %.4f", sum)
	}
	for inst, cuts := range p.SeverityBands {
		if len(cuts) == 0 {
			return fmt.Errorf("instrument %s has no severity bands", inst)
		}
		for i := 1; i < len(cuts); i++ {
			if cuts[i].UpTo <= cuts[i-1].UpTo {
				return fmt.Errorf("instrument %s severity cuts out of order", inst)
			}
		}
	}
	if p.Report.TruncateTo > p.Report.MaxChars {
		return fmt.Errorf("report truncate_to exceeds max_chars")
	}
	return nil
}
