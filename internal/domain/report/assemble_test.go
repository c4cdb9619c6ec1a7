package report

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/clinsight/clinsight/internal/config"
	"github.com/clinsight/clinsight/internal/domain/assessment"
)

func samplePayload() *Payload {
	return &Payload{
		Narrative: "Clinical Assessment Report\nPatient: P-1\n\nCurrent Scores:\n- Depression (PHQ): 12/27, moderate, priority Medium",
		Table: []TableRow{
			{Instrument: "phq", DomainLabel: "Depression", Score: 12, Max: 27, Severity: "moderate", Priority: PriorityMedium, Date: "2025-03-01"},
		},
		Chart: []ChartPoint{
			{Date: "2025-02-01", Instrument: "phq", Score: 15},
			{Date: "2025-03-01", Instrument: "phq", Score: 12},
		},
		Trends: []assessment.TrendRecord{
			{Instrument: assessment.PHQ, Change: -3, PercentChange: -20, Direction: assessment.Decreasing, Glyph: assessment.Down, AssessmentCount: 2, DateRange: "2025-02-01 to 2025-03-01", FirstScore: 15, LatestScore: 12},
		},
		Timeline: []assessment.TimelineEvent{
			{Date: "2025-02-01", Instrument: assessment.PHQ, Score: 15, DomainLabel: "Depression"},
			{Date: "2025-03-01", Instrument: assessment.PHQ, Score: 12, DomainLabel: "Depression"},
		},
	}
}

func defaultLimits() config.ReportLimits {
	return config.DefaultProtocol().Report
}

func TestAssemble_EmitsAllTagsInOrder(t *testing.T) {
	out := Assemble(samplePayload(), defaultLimits())

	last := -1
	for _, tag := range tagOrder {
		open := strings.Index(out, "["+tag+"]")
		closing := strings.Index(out, "[/"+tag+"]")
		if open == -1 || closing == -1 {
			t.Fatalf("missing block %s", tag)
		}
		if open < last {
			t.Errorf("block %s out of order", tag)
		}
		last = open
	}
	if !strings.HasPrefix(out, "Clinical Assessment Report") {
		t.Error("narrative should lead the payload")
	}
	if strings.Contains(out, TruncationMarker) {
		t.Error("untruncated payload should not carry the marker")
	}
}

func TestAssembleParse_RoundTrip(t *testing.T) {
	p := samplePayload()
	got := Parse(Assemble(p, defaultLimits()))

	if got.Narrative != p.Narrative {
		t.Errorf("narrative round-trip mismatch:\n got %q\nwant %q", got.Narrative, p.Narrative)
	}
	if !reflect.DeepEqual(got.Table, p.Table) {
		t.Errorf("table round-trip mismatch: %+v", got.Table)
	}
	if !reflect.DeepEqual(got.Chart, p.Chart) {
		t.Errorf("chart round-trip mismatch: %+v", got.Chart)
	}
	if !reflect.DeepEqual(got.Trends, p.Trends) {
		t.Errorf("trends round-trip mismatch: %+v", got.Trends)
	}
	if !reflect.DeepEqual(got.Timeline, p.Timeline) {
		t.Errorf("timeline round-trip mismatch: %+v", got.Timeline)
	}
}

func TestAssembleParse_RoundTrip_WhitespacePadding(t *testing.T) {
	p := samplePayload()
	p.Narrative = "\n  " + p.Narrative + "  \n\n"
	got := Parse(Assemble(p, defaultLimits()))

	if got.Narrative != p.Narrative {
		t.Errorf("padded narrative round-trip mismatch:\n got %q\nwant %q", got.Narrative, p.Narrative)
	}
}

func TestAssemble_TruncatesOnRuneBoundary(t *testing.T) {
	p := samplePayload()
	p.Narrative = strings.Repeat("réévaluation clinique à 6 mois, données complètes ", 400)

	out := Assemble(p, defaultLimits())
	if !utf8.ValidString(out) {
		t.Fatal("truncated payload contains a split UTF-8 sequence")
	}
	if !strings.Contains(out, TruncationMarker) {
		t.Error("expected truncation marker")
	}
	if len(out) > defaultLimits().TruncateTo {
		t.Errorf("len = %d, want <= %d", len(out), defaultLimits().TruncateTo)
	}
}

func TestAssemble_TruncatesOversizedNarrative(t *testing.T) {
	p := samplePayload()
	p.Narrative = strings.Repeat("clinical narrative text ", 700) // ~16,800 chars
	limits := defaultLimits()

	out := Assemble(p, limits)
	if len(out) > limits.TruncateTo {
		t.Errorf("truncated length = %d, want <= %d", len(out), limits.TruncateTo)
	}
	if !strings.Contains(out, TruncationMarker) {
		t.Error("expected truncation marker")
	}
	assertNoSplitTags(t, out)

	// All four blocks survive: only the narrative was cut.
	for _, tag := range tagOrder {
		if !strings.Contains(out, "["+tag+"]") {
			t.Errorf("block %s should survive narrative truncation", tag)
		}
	}
}

func TestAssemble_DropsWholeTrailingBlocks(t *testing.T) {
	p := samplePayload()
	// Inflate the timeline so the blocks alone exceed the cap.
	var timeline []assessment.TimelineEvent
	for i := 0; i < 400; i++ {
		timeline = append(timeline, assessment.TimelineEvent{
			Date: "2025-01-01", Instrument: assessment.PHQ, Score: 10, DomainLabel: "Depression",
		})
	}
	p.Timeline = timeline
	limits := config.ReportLimits{MaxChars: 3000, TruncateTo: 2800}

	out := Assemble(p, limits)
	if len(out) > limits.TruncateTo {
		t.Errorf("length = %d, want <= %d", len(out), limits.TruncateTo)
	}
	assertNoSplitTags(t, out)
	if strings.Contains(out, "["+TagTimeline+"]") {
		t.Error("oversized timeline block should be dropped whole")
	}
	if !strings.Contains(out, "["+TagTable+"]") {
		t.Error("leading blocks should survive")
	}
}

func TestAssemble_EmptyPayload(t *testing.T) {
	out := Assemble(&Payload{Narrative: "No data."}, defaultLimits())
	for _, tag := range tagOrder {
		if !strings.Contains(out, "["+tag+"]") {
			t.Errorf("empty payload still emits block %s", tag)
		}
	}
	got := Parse(out)
	if got.Narrative != "No data." {
		t.Errorf("narrative = %q", got.Narrative)
	}
	if got.Table != nil || got.Chart != nil {
		t.Errorf("empty blocks should parse as absent")
	}
}

// assertNoSplitTags verifies every opening tag has its closing tag and no
// tag text is cut mid-way.
func assertNoSplitTags(t *testing.T, out string) {
	t.Helper()
	for _, tag := range tagOrder {
		opens := strings.Count(out, "["+tag+"]")
		closes := strings.Count(out, "[/"+tag+"]")
		if opens != closes {
			t.Errorf("block %s has %d opens and %d closes", tag, opens, closes)
		}
		if opens > 1 {
			t.Errorf("block %s emitted %d times", tag, opens)
		}
	}
}

func TestParse_BadBlockJSONIsAbsent(t *testing.T) {
	serialized := "Narrative here.\n\n[ASSESSMENT_TABLE]{not valid json[/ASSESSMENT_TABLE]\n\n[CHART_DATA][{\"date\":\"2025-01-01\",\"instrument\":\"phq\",\"score\":9}][/CHART_DATA]"
	p := Parse(serialized)

	if p.Table != nil {
		t.Errorf("malformed table should be absent, got %+v", p.Table)
	}
	if len(p.Chart) != 1 || p.Chart[0].Score != 9 {
		t.Errorf("valid chart block should survive, got %+v", p.Chart)
	}
	if p.Narrative != "Narrative here." {
		t.Errorf("narrative = %q", p.Narrative)
	}
}

func TestParse_NoBlocks(t *testing.T) {
	p := Parse("Just prose, no tags.")
	if p.Narrative != "Just prose, no tags." {
		t.Errorf("narrative = %q", p.Narrative)
	}
	if p.Table != nil || p.Chart != nil || p.Trends != nil || p.Timeline != nil {
		t.Error("no blocks should parse as all absent")
	}
}
