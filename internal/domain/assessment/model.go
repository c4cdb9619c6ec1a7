package assessment

import (
	"time"
)

// RawItemResponse is one instrument's per-question answers for one patient
// on one date, exactly as the data provider returned them. Answers are keyed
// by question slot and may be numbers or strings; the scorer coerces them.
// Immutable once recorded.
type RawItemResponse struct {
	PatientID      string                 `json:"patient_id"`
	Instrument     Instrument             `json:"instrument"`
	AssessmentDate string                 `json:"assessment_date"` // may be blank
	Answers        map[string]interface{} `json:"answers"`
}

// DomainScore is the standardized total derived from exactly one
// RawItemResponse. Never mutated after creation.
type DomainScore struct {
	PatientID         string     `json:"patient_id"`
	Instrument        Instrument `json:"instrument"`
	Date              string     `json:"date,omitempty"` // YYYY-MM-DD, blank when unparseable
	Total             int        `json:"total"`
	ScaledTotal       int        `json:"scaled_total,omitempty"` // WHO-5 only: raw x4
	SeverityBand      string     `json:"severity_band"`
	QuestionsAnswered int        `json:"questions_answered"`
}

// DomainSeries is the dated history of one (patient, instrument) pair,
// sorted ascending by date. Entries with blank dates are excluded at
// construction.
type DomainSeries []DomainScore

// Direction is the qualitative trend tag for a series.
type Direction string

const (
	Increasing       Direction = "increasing"
	Decreasing       Direction = "decreasing"
	Stable           Direction = "stable"
	SingleAssessment Direction = "single_assessment"
	InsufficientData Direction = "insufficient_data"
)

// Glyph is the chart arrow mirroring Direction under the same dead-band.
type Glyph string

const (
	Up   Glyph = "up"
	Down Glyph = "down"
	Flat Glyph = "flat"
)

// TrendRecord summarizes movement across a DomainSeries.
type TrendRecord struct {
	Instrument      Instrument `json:"instrument"`
	Change          int        `json:"change"`
	PercentChange   float64    `json:"percent_change"` // 1 decimal
	Direction       Direction  `json:"direction"`
	Glyph           Glyph      `json:"glyph"`
	AssessmentCount int        `json:"assessment_count"`
	DateRange       string     `json:"date_range"`
	FirstScore      int        `json:"first_score"`
	LatestScore     int        `json:"latest_score"`
}

// TimelineEvent is one point on the merged cross-instrument chronology.
type TimelineEvent struct {
	Date        string     `json:"date"`
	Instrument  Instrument `json:"instrument"`
	Score       int        `json:"score"`
	DomainLabel string     `json:"domain_label"`
}

// dateLayouts are the formats the data provider has been observed to emit.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// NormalizeDate parses a provider date string and reduces it to YYYY-MM-DD.
// Blank or unparseable input returns "", which excludes the record from
// series construction.
func NormalizeDate(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// Today returns the current date in series format.
func Today() string {
	return time.Now().Format("2006-01-02")
}
