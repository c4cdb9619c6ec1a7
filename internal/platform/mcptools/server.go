package mcptools

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/clinsight/clinsight/internal/domain/assessment"
	"github.com/clinsight/clinsight/internal/domain/risk"
	"github.com/clinsight/clinsight/internal/domain/substance"
)

// Deps are the services the tool surface is built over.
type Deps struct {
	Assessments *assessment.Service
	Substances  *substance.Service
	Risks       *risk.Service
	Health      HealthFunc
	Name        string
	Version     string
}

// New assembles the MCP server with every tool registered. Business logic
// stays in the domain services; this is wiring only.
func New(d Deps) *server.MCPServer {
	if d.Name == "" {
		d.Name = "clinsight"
	}
	if d.Version == "" {
		d.Version = "dev"
	}

	s := server.NewMCPServer(
		d.Name,
		d.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	listTool := NewListPatientsTool(d.Assessments)
	s.AddTool(listTool.Definition(), listTool.Handle)

	assessTool := NewPatientAssessmentsTool(d.Assessments)
	s.AddTool(assessTool.Definition(), assessTool.Handle)

	riskTool := NewCompositeRiskTool(d.Risks)
	s.AddTool(riskTool.Definition(), riskTool.Handle)

	progressTool := NewProgressTool(d.Assessments)
	s.AddTool(progressTool.Definition(), progressTool.Handle)

	attentionTool := NewAttentionTool(d.Risks)
	s.AddTool(attentionTool.Definition(), attentionTool.Handle)

	substanceTool := NewSubstanceHistoryTool(d.Substances)
	s.AddTool(substanceTool.Definition(), substanceTool.Handle)

	healthTool := NewHealthTool(d.Health)
	s.AddTool(healthTool.Definition(), healthTool.Handle)

	return s
}

// ServeStdio runs the server over stdin/stdout until the client hangs up.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

const instructions = `Clinical assessment scoring tools for a behavioral-health
dashboard. Instruments: PCL-5 (ptsd), PHQ-9 (phq), GAD-7 (gad), WHO-5 (who),
DERS (ders). Scores carry severity bands; composite risk blends domains on a
1-4 scale. Start with list_all_patients to discover identifiers.`
