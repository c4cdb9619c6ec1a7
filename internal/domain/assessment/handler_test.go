package assessment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler(src Source) (*Handler, *echo.Echo) {
	h := NewHandler(newTestService(src, nil))
	e := echo.New()
	return h, e
}

func TestHandler_GetOverview(t *testing.T) {
	src := newMockSource("real")
	src.add(RawItemResponse{PatientID: "P-1", Instrument: PHQ, AssessmentDate: "2025-01-01", Answers: phqAnswers(2, 2, 2)})
	h, e := newTestHandler(src)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("P-1")

	if err := h.GetOverview(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var ov PatientOverview
	if err := json.Unmarshal(rec.Body.Bytes(), &ov); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if ov.PatientID != "P-1" || ov.DataSource != "real" {
		t.Errorf("overview = %+v", ov)
	}
	if len(ov.Latest) != 1 || ov.Latest[0].Total != 6 {
		t.Errorf("latest = %+v, want one score of 6", ov.Latest)
	}
}

func TestHandler_GetOverview_InstrumentFilter(t *testing.T) {
	src := newMockSource("real")
	src.add(RawItemResponse{PatientID: "P-1", Instrument: PHQ, AssessmentDate: "2025-01-01", Answers: phqAnswers(2)})
	src.add(RawItemResponse{PatientID: "P-1", Instrument: GAD, AssessmentDate: "2025-01-01", Answers: map[string]interface{}{"col_1": 3}})
	h, e := newTestHandler(src)

	req := httptest.NewRequest(http.MethodGet, "/?instruments=gad", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("P-1")

	if err := h.GetOverview(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var ov PatientOverview
	if err := json.Unmarshal(rec.Body.Bytes(), &ov); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(ov.Latest) != 1 || ov.Latest[0].Instrument != GAD {
		t.Errorf("latest = %+v, want only the GAD score", ov.Latest)
	}
	if len(ov.Trends) != 1 {
		t.Errorf("trends = %d, want 1", len(ov.Trends))
	}
}

func TestHandler_GetOverview_BadLimit(t *testing.T) {
	h, e := newTestHandler(newMockSource("real"))
	req := httptest.NewRequest(http.MethodGet, "/?limit=abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("P-1")

	err := h.GetOverview(c)
	if err == nil {
		t.Fatal("expected error for non-numeric limit")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("error = %v, want HTTP 400", err)
	}
}

func TestHandler_ListPatients(t *testing.T) {
	src := newMockSource("real")
	src.add(RawItemResponse{PatientID: "P-1", Instrument: PHQ, Answers: phqAnswers(1)})
	src.add(RawItemResponse{PatientID: "P-2", Instrument: PHQ, Answers: phqAnswers(2)})
	h, e := newTestHandler(src)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListPatients(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Total)
	}
}

func TestHandler_GetTimeline(t *testing.T) {
	src := newMockSource("real")
	src.add(RawItemResponse{PatientID: "P-1", Instrument: PHQ, AssessmentDate: "2025-01-01", Answers: phqAnswers(2, 2)})
	h, e := newTestHandler(src)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("P-1")

	if err := h.GetTimeline(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp struct {
		Timeline []TimelineEvent `json:"timeline"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(resp.Timeline) != 1 || resp.Timeline[0].Score != 4 {
		t.Errorf("timeline = %+v", resp.Timeline)
	}
}
