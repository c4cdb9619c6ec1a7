// Package mcptools exposes the scoring pipeline as MCP tools over stdio,
// for clients that drive the dashboard through a tool-invocation channel
// instead of HTTP.
package mcptools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/clinsight/clinsight/internal/domain/assessment"
	"github.com/clinsight/clinsight/internal/domain/risk"
	"github.com/clinsight/clinsight/internal/domain/substance"
)

// HealthFunc reports service health for the health_check tool.
type HealthFunc func(ctx context.Context) (interface{}, error)

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("encode result: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// -- list_all_patients --

type ListPatientsTool struct {
	assessments *assessment.Service
}

func NewListPatientsTool(svc *assessment.Service) *ListPatientsTool {
	return &ListPatientsTool{assessments: svc}
}

func (t *ListPatientsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_all_patients",
		mcp.WithDescription("List every patient in the dataset with their most recent assessment date."),
	)
}

func (t *ListPatientsTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	patients, err := t.assessments.AllPatients(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]interface{}{
		"patients": patients,
		"count":    len(patients),
	})
}

// -- get_all_patient_assessments --

type PatientAssessmentsTool struct {
	assessments *assessment.Service
}

func NewPatientAssessmentsTool(svc *assessment.Service) *PatientAssessmentsTool {
	return &PatientAssessmentsTool{assessments: svc}
}

func (t *PatientAssessmentsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_all_patient_assessments",
		mcp.WithDescription(
			"Score every assessment on record for one patient: latest totals with "+
				"severity bands, per-instrument history, trends and the merged timeline.",
		),
		mcp.WithString("patient_id",
			mcp.Required(),
			mcp.Description("Patient identifier."),
		),
		mcp.WithString("instruments",
			mcp.Description("Comma-separated instrument subset (ptsd, phq, gad, who, ders). Empty means all."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Most recent N assessments per instrument. 0 means no limit."),
		),
	)
}

func (t *PatientAssessmentsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	patientID := req.GetString("patient_id", "")
	if patientID == "" {
		return mcp.NewToolResultError("patient_id is required"), nil
	}
	f := assessment.Filter{Limit: int(req.GetFloat("limit", 0))}
	if raw := req.GetString("instruments", ""); raw != "" {
		codes := strings.Split(raw, ",")
		for i := range codes {
			codes[i] = strings.ToLower(strings.TrimSpace(codes[i]))
		}
		f.Instruments = assessment.ParseInstruments(codes)
	}
	ov, err := t.assessments.Overview(ctx, patientID, f)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(ov)
}

// -- calculate_composite_risk_score --

type CompositeRiskTool struct {
	risks *risk.Service
}

func NewCompositeRiskTool(svc *risk.Service) *CompositeRiskTool {
	return &CompositeRiskTool{risks: svc}
}

func (t *CompositeRiskTool) Definition() mcp.Tool {
	return mcp.NewTool("calculate_composite_risk_score",
		mcp.WithDescription(
			"Compute the weighted composite risk score for one patient across "+
				"depression, anxiety, substance use and functional domains, with "+
				"contributing factors and recommendations.",
		),
		mcp.WithString("patient_id",
			mcp.Required(),
			mcp.Description("Patient identifier."),
		),
	)
}

func (t *CompositeRiskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	patientID := req.GetString("patient_id", "")
	if patientID == "" {
		return mcp.NewToolResultError("patient_id is required"), nil
	}
	profile, err := t.risks.Profile(ctx, patientID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(profile)
}

// -- analyze_patient_progress --

type ProgressTool struct {
	assessments *assessment.Service
}

func NewProgressTool(svc *assessment.Service) *ProgressTool {
	return &ProgressTool{assessments: svc}
}

func (t *ProgressTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_patient_progress",
		mcp.WithDescription("Derive per-instrument trends (direction, change, percent change) across a patient's assessment history."),
		mcp.WithString("patient_id",
			mcp.Required(),
			mcp.Description("Patient identifier."),
		),
	)
}

func (t *ProgressTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	patientID := req.GetString("patient_id", "")
	if patientID == "" {
		return mcp.NewToolResultError("patient_id is required"), nil
	}
	report, err := t.assessments.Progress(ctx, patientID, assessment.Filter{})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(report)
}

// -- identify_patients_needing_attention --

type AttentionTool struct {
	risks *risk.Service
}

func NewAttentionTool(svc *risk.Service) *AttentionTool {
	return &AttentionTool{risks: svc}
}

func (t *AttentionTool) Definition() mcp.Tool {
	return mcp.NewTool("identify_patients_needing_attention",
		mcp.WithDescription("Screen the whole population against clinical thresholds (PCL-5 >= 50, PHQ-9 >= 15, GAD-7 >= 15) and list flagged patients."),
	)
}

func (t *AttentionTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := t.risks.NeedsAttention(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(report)
}

// -- get_patient_substance_history --

type SubstanceHistoryTool struct {
	substances *substance.Service
}

func NewSubstanceHistoryTool(svc *substance.Service) *SubstanceHistoryTool {
	return &SubstanceHistoryTool{substances: svc}
}

func (t *SubstanceHistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("get_patient_substance_history",
		mcp.WithDescription("Return a patient's charted substance history split into active and historical use, with the 1-4 substance risk score."),
		mcp.WithString("patient_id",
			mcp.Required(),
			mcp.Description("Patient identifier."),
		),
	)
}

func (t *SubstanceHistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	patientID := req.GetString("patient_id", "")
	if patientID == "" {
		return mcp.NewToolResultError("patient_id is required"), nil
	}
	profile, err := t.substances.History(ctx, patientID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(profile)
}

// -- health_check --

type HealthTool struct {
	health HealthFunc
}

func NewHealthTool(fn HealthFunc) *HealthTool {
	return &HealthTool{health: fn}
}

func (t *HealthTool) Definition() mcp.Tool {
	return mcp.NewTool("health_check",
		mcp.WithDescription("Report service health: data store reachability, per-table probes, uptime and version."),
	)
}

func (t *HealthTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.health == nil {
		return jsonResult(map[string]string{"status": "healthy"})
	}
	status, err := t.health(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(status)
}
