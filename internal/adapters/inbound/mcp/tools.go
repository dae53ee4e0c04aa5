package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/jsonkraft/internal/domain"
)

var errNoRegistry = errors.New("no schema registry configured")

// registerTools registers all jsonkraft MCP tools on the given server.
func registerTools(s *server.MCPServer, svc Services) {
	// 1. jsonkraft_analyze
	s.AddTool(
		mcplib.NewTool("jsonkraft_analyze",
			mcplib.WithDescription("Analyze a JSON document and return the full validation result: score breakdown, structure, security issues, data quality and recommendations"),
			mcplib.WithString("json",
				mcplib.Required(),
				mcplib.Description("The JSON text to analyze"),
			),
			mcplib.WithString("schema", mcplib.Description("Optional JSON Schema document to validate against")),
			mcplib.WithString("schema_id", mcplib.Description("Optional id or name of a registered schema")),
		),
		handleAnalyze(svc),
	)

	// 2. jsonkraft_repair
	s.AddTool(
		mcplib.NewTool("jsonkraft_repair",
			mcplib.WithDescription("Repair malformed JSON with local rules, falling back to the AI collaborator when allowed"),
			mcplib.WithString("json",
				mcplib.Required(),
				mcplib.Description("The malformed JSON text"),
			),
			mcplib.WithBoolean("allow_ai", mcplib.Description("Allow the AI fallback (default true)")),
		),
		handleRepair(svc),
	)

	// 3. jsonkraft_convert
	s.AddTool(
		mcplib.NewTool("jsonkraft_convert",
			mcplib.WithDescription("Convert a JSON document to yaml, toml, xml, csv, toon or pretty json"),
			mcplib.WithString("json",
				mcplib.Required(),
				mcplib.Description("The JSON text to convert"),
			),
			mcplib.WithString("format",
				mcplib.Required(),
				mcplib.Description("Target format: json, yaml, toml, xml, csv or toon"),
			),
		),
		handleConvert(svc),
	)
}

func handleAnalyze(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		text, err := request.RequireString("json")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		args := request.GetArguments()
		var schema []byte
		if inline, _ := args["schema"].(string); inline != "" {
			schema = []byte(inline)
		} else if id, _ := args["schema_id"].(string); id != "" {
			if svc.Registry == nil {
				return errorResult(errNoRegistry.Error()), nil
			}
			_, doc, err := svc.Registry.Get(id)
			if err != nil {
				return errorResult(err.Error()), nil
			}
			schema = doc
		}

		result, err := svc.Analyzer.Analyze(ctx, text, schema)
		if err != nil {
			return errorResult(fmt.Sprintf("analysis failed: %v", err)), nil
		}
		return jsonResult(result)
	}
}

// repairResponse carries the best-effort result alongside the failure
// reason, so a caller still sees which rules fired.
type repairResponse struct {
	domain.RepairResult
	Error string `json:"error,omitempty"`
}

func handleRepair(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		text, err := request.RequireString("json")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		allowAI := true
		if v, ok := request.GetArguments()["allow_ai"].(bool); ok {
			allowAI = v
		}

		res, err := svc.Repairer.Repair(ctx, text, allowAI)
		if err != nil {
			out, mErr := jsonResult(repairResponse{RepairResult: res, Error: err.Error()})
			if mErr != nil {
				return nil, mErr
			}
			out.IsError = true
			return out, nil
		}
		return jsonResult(repairResponse{RepairResult: res})
	}
}

func handleConvert(svc Services) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		text, err := request.RequireString("json")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		format, err := request.RequireString("format")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		out, err := svc.Converter.Convert(text, format)
		if err != nil {
			return errorResult(fmt.Sprintf("conversion failed: %v", err)), nil
		}
		return textResult(out), nil
	}
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
