package assessment

import (
	"testing"
)

func phqAnswers(values ...float64) map[string]interface{} {
	spec, _ := SpecFor(PHQ)
	m := make(map[string]interface{}, len(values))
	for i, v := range values {
		if i >= len(spec.ItemKeys) {
			break
		}
		m[spec.ItemKeys[i]] = v
	}
	return m
}

func TestScore_PHQ(t *testing.T) {
	s := NewScorer(nil)
	sc := s.Score(RawItemResponse{
		PatientID:      "P-1",
		Instrument:     PHQ,
		AssessmentDate: "2025-03-14",
		Answers:        phqAnswers(1, 2, 1, 0, 1, 2, 1, 0, 0),
	})

	if sc.Total != 8 {
		t.Errorf("total = %d, want 8", sc.Total)
	}
	if sc.SeverityBand != "mild" {
		t.Errorf("severity = %q, want mild", sc.SeverityBand)
	}
	if sc.QuestionsAnswered != 6 {
		t.Errorf("questions answered = %d, want 6", sc.QuestionsAnswered)
	}
	if sc.Date != "2025-03-14" {
		t.Errorf("date = %q, want 2025-03-14", sc.Date)
	}
	if sc.ScaledTotal != 0 {
		t.Errorf("unexpected scaled total %d for unscaled instrument", sc.ScaledTotal)
	}
}

func TestScore_ClampsToInstrumentMax(t *testing.T) {
	s := NewScorer(nil)
	sc := s.Score(RawItemResponse{
		Instrument: PHQ,
		Answers:    phqAnswers(9, 9, 9, 9, 9, 9, 9, 9, 9),
	})
	if sc.Total != 27 {
		t.Errorf("total = %d, want clamp at 27", sc.Total)
	}
	if sc.SeverityBand != "severe" {
		t.Errorf("severity = %q, want severe", sc.SeverityBand)
	}
}

func TestScore_WHOScaledBands(t *testing.T) {
	s := NewScorer(nil)
	spec, _ := SpecFor(WHO)

	tests := []struct {
		name      string
		item      float64
		total     int
		scaled    int
		severity  string
	}{
		{"all fives", 5, 25, 100, "good_wellbeing"},
		{"all threes", 3, 15, 60, "below_average"},
		{"all twos", 2, 10, 40, "poor_wellbeing"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			answers := map[string]interface{}{}
			for _, k := range spec.ItemKeys {
				answers[k] = tc.item
			}
			sc := s.Score(RawItemResponse{Instrument: WHO, Answers: answers})
			if sc.Total != tc.total {
				t.Errorf("total = %d, want %d", sc.Total, tc.total)
			}
			if sc.ScaledTotal != tc.scaled {
				t.Errorf("scaled = %d, want %d", sc.ScaledTotal, tc.scaled)
			}
			if sc.SeverityBand != tc.severity {
				t.Errorf("severity = %q, want %q", sc.SeverityBand, tc.severity)
			}
		})
	}
}

func TestScore_CoercesMixedAnswerTypes(t *testing.T) {
	s := NewScorer(nil)
	spec, _ := SpecFor(GAD)
	answers := map[string]interface{}{
		spec.ItemKeys[0]: "3",
		spec.ItemKeys[1]: 2,
		spec.ItemKeys[2]: 1.0,
		spec.ItemKeys[3]: nil,
		spec.ItemKeys[4]: "not a number",
		spec.ItemKeys[5]: true,
	}
	sc := s.Score(RawItemResponse{Instrument: GAD, Answers: answers})
	if sc.Total != 7 {
		t.Errorf("total = %d, want 7", sc.Total)
	}
	if sc.QuestionsAnswered != 4 {
		t.Errorf("questions answered = %d, want 4", sc.QuestionsAnswered)
	}
}

func TestScore_MissingItemsContributeZero(t *testing.T) {
	s := NewScorer(nil)
	sc := s.Score(RawItemResponse{Instrument: PHQ, Answers: phqAnswers(3)})
	if sc.Total != 3 {
		t.Errorf("total = %d, want 3", sc.Total)
	}
	if sc.QuestionsAnswered != 1 {
		t.Errorf("questions answered = %d, want 1", sc.QuestionsAnswered)
	}
}

func TestScore_UnknownInstrument(t *testing.T) {
	s := NewScorer(nil)
	sc := s.Score(RawItemResponse{PatientID: "P-1", Instrument: "eeg", Answers: map[string]interface{}{"q1": 5}})
	if sc.Total != 0 || sc.SeverityBand != "" {
		t.Errorf("unknown instrument should produce empty score, got %+v", sc)
	}
}

func TestScore_Idempotent(t *testing.T) {
	s := NewScorer(nil)
	r := RawItemResponse{Instrument: PHQ, AssessmentDate: "2025-01-01", Answers: phqAnswers(1, 2, 3)}
	a := s.Score(r)
	b := s.Score(r)
	if a != b {
		t.Errorf("scoring is not deterministic: %+v vs %+v", a, b)
	}
}

func TestBuildSeries_SortsAndPicksLatest(t *testing.T) {
	s := NewScorer(nil)
	responses := []RawItemResponse{
		{Instrument: PHQ, AssessmentDate: "2025-03-01", Answers: phqAnswers(2, 2)},
		{Instrument: PHQ, AssessmentDate: "2025-01-01", Answers: phqAnswers(3, 3)},
		{Instrument: PHQ, AssessmentDate: "2025-02-01", Answers: phqAnswers(1, 1)},
	}
	series, latest := s.BuildSeries(responses)

	if len(series) != 3 {
		t.Fatalf("series length = %d, want 3", len(series))
	}
	for i := 1; i < len(series); i++ {
		if series[i].Date < series[i-1].Date {
			t.Errorf("series not sorted at %d: %s before %s", i, series[i-1].Date, series[i].Date)
		}
	}
	if latest == nil || latest.Date != "2025-03-01" {
		t.Fatalf("latest = %+v, want the 2025-03-01 score", latest)
	}
	if latest.Total != 4 {
		t.Errorf("latest total = %d, want 4", latest.Total)
	}
}

func TestBuildSeries_UndatedStillProducesLatest(t *testing.T) {
	s := NewScorer(nil)
	series, latest := s.BuildSeries([]RawItemResponse{
		{Instrument: GAD, AssessmentDate: "", Answers: map[string]interface{}{"col_1": 2}},
	})
	if len(series) != 0 {
		t.Errorf("undated response should not enter the series, got %d entries", len(series))
	}
	if latest == nil || latest.Total != 2 {
		t.Fatalf("latest = %+v, want total 2", latest)
	}
}

func TestBuildSeries_Empty(t *testing.T) {
	s := NewScorer(nil)
	series, latest := s.BuildSeries(nil)
	if len(series) != 0 || latest != nil {
		t.Errorf("empty input should yield empty series and nil latest")
	}
}
