package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/jsonkraft/internal/application"
	"github.com/openkraft/jsonkraft/internal/domain"
)

// Services are the application services the MCP tools call into.
// Registry may be nil, in which case schema_id arguments and schema
// resources report that no registry is configured.
type Services struct {
	Analyzer  *application.AnalyzeService
	Repairer  *application.RepairService
	Converter *application.ConvertService
	Registry  domain.SchemaRegistry
}

// NewJSONKraftMCPServer creates an MCP server with all jsonkraft tools and
// resources registered.
func NewJSONKraftMCPServer(version string, svc Services) *server.MCPServer {
	s := server.NewMCPServer(
		"jsonkraft",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, svc)
	registerResources(s, svc)

	return s
}
