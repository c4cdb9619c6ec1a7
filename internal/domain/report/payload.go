// Package report assembles the clinician-facing report: a narrative text
// body followed by machine-readable sentinel-tagged JSON blocks. The
// sentinel grammar is the wire format between this service and every
// renderer; Assemble and Parse are exact inverses for untruncated payloads.
package report

import (
	"github.com/clinsight/clinsight/internal/domain/assessment"
)

// Sentinel tags, in required emission order.
const (
	TagTable    = "ASSESSMENT_TABLE"
	TagChart    = "CHART_DATA"
	TagTrend    = "TREND_DATA"
	TagTimeline = "TIMELINE_DATA"
)

var tagOrder = []string{TagTable, TagChart, TagTrend, TagTimeline}

// TruncationMarker is appended verbatim when the payload exceeds the cap.
const TruncationMarker = "...[Content truncated for system limits]"

// Priority tags a table row for the dashboard, independent of the risk
// aggregator's classification.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// TableRow is one line of the assessment summary table.
type TableRow struct {
	Instrument  string   `json:"instrument"`
	DomainLabel string   `json:"domain_label"`
	Score       int      `json:"score"`
	Max         int      `json:"max"`
	Severity    string   `json:"severity"`
	Priority    Priority `json:"priority"`
	Date        string   `json:"date,omitempty"`
}

// ChartPoint is one plotted score.
type ChartPoint struct {
	Date       string `json:"date"`
	Instrument string `json:"instrument"`
	Score      int    `json:"score"`
}

// Payload is the structured content of a report, before serialization.
// Any block may be empty; empty blocks are still emitted so consumers see
// every tag exactly once.
type Payload struct {
	Narrative string                     `json:"narrative"`
	Table     []TableRow                 `json:"table"`
	Chart     []ChartPoint               `json:"chart"`
	Trends    []assessment.TrendRecord   `json:"trends"`
	Timeline  []assessment.TimelineEvent `json:"timeline"`
}
