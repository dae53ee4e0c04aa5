package mcp

import (
	"context"
	"encoding/json"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/jsonkraft/internal/adapters/outbound/encoder"
	"github.com/openkraft/jsonkraft/internal/adapters/outbound/registry"
	"github.com/openkraft/jsonkraft/internal/adapters/outbound/schema"
	"github.com/openkraft/jsonkraft/internal/application"
	"github.com/openkraft/jsonkraft/internal/domain"
)

func newServices(t *testing.T) Services {
	t.Helper()
	cfg := domain.DefaultConfig()
	return Services{
		Analyzer:  application.NewAnalyzeService(cfg, application.WithValidator(schema.New())),
		Repairer:  application.NewRepairService(cfg.Repair, nil, nil),
		Converter: application.NewConvertService(encoder.All()...),
		Registry:  registry.New(t.TempDir()),
	}
}

func callTool(t *testing.T, h func(context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error), args map[string]any) (*mcplib.CallToolResult, string) {
	t.Helper()
	req := mcplib.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return res, text.Text
}

func TestHandleAnalyze(t *testing.T) {
	res, text := callTool(t, handleAnalyze(newServices(t)), map[string]any{
		"json": `{"id": 1, "name": "Alice"}`,
	})
	assert.False(t, res.IsError)

	var result domain.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(text), &result))
	assert.True(t, result.IsValid)
	assert.Positive(t, result.Score())
}

func TestHandleAnalyze_MissingJSON(t *testing.T) {
	res, text := callTool(t, handleAnalyze(newServices(t)), map[string]any{})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "json")
}

func TestHandleAnalyze_InlineSchema(t *testing.T) {
	_, text := callTool(t, handleAnalyze(newServices(t)), map[string]any{
		"json":   `{"name": "Alice"}`,
		"schema": `{"type":"object","required":["id"]}`,
	})

	var result domain.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(text), &result))
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "required", result.Errors[0].Keyword)
}

func TestHandleAnalyze_RegisteredSchema(t *testing.T) {
	svc := newServices(t)
	_, err := svc.Registry.Add("user", "1.0.0", nil, []byte(`{"type":"object","required":["id"]}`))
	require.NoError(t, err)

	_, text := callTool(t, handleAnalyze(svc), map[string]any{
		"json":      `{"name": "Alice"}`,
		"schema_id": "user",
	})

	var result domain.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(text), &result))
	assert.False(t, result.IsValid)
}

func TestHandleAnalyze_UnknownSchemaID(t *testing.T) {
	res, text := callTool(t, handleAnalyze(newServices(t)), map[string]any{
		"json":      `{}`,
		"schema_id": "missing",
	})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "schema not found")
}

func TestHandleAnalyze_NoRegistry(t *testing.T) {
	svc := newServices(t)
	svc.Registry = nil
	res, text := callTool(t, handleAnalyze(svc), map[string]any{
		"json":      `{}`,
		"schema_id": "user",
	})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "no schema registry")
}

func TestHandleRepair(t *testing.T) {
	res, text := callTool(t, handleRepair(newServices(t)), map[string]any{
		"json": `{"a": 1,}`,
	})
	assert.False(t, res.IsError)

	var out repairResponse
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.True(t, out.Succeeded)
	assert.JSONEq(t, `{"a": 1}`, out.Text)
	assert.Empty(t, out.Error)
}

func TestHandleRepair_Unavailable(t *testing.T) {
	res, text := callTool(t, handleRepair(newServices(t)), map[string]any{
		"json":     "not json at all",
		"allow_ai": false,
	})
	assert.True(t, res.IsError)

	var out repairResponse
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.False(t, out.Succeeded)
	assert.Equal(t, "not json at all", out.Text)
	assert.Contains(t, out.Error, "repair unavailable")
}

func TestHandleConvert(t *testing.T) {
	res, text := callTool(t, handleConvert(newServices(t)), map[string]any{
		"json":   `[{"a":1,"b":"x"}]`,
		"format": "csv",
	})
	assert.False(t, res.IsError)
	assert.Equal(t, "a,b\n1,x\n", text)
}

func TestHandleConvert_Errors(t *testing.T) {
	svc := newServices(t)

	res, text := callTool(t, handleConvert(svc), map[string]any{"json": `{"a":1}`, "format": "ini"})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "unsupported format")

	res, text = callTool(t, handleConvert(svc), map[string]any{"json": `{"a":1}`, "format": "csv"})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "CSV conversion requires")

	res, _ = callTool(t, handleConvert(svc), map[string]any{"json": `{"a":1}`})
	assert.True(t, res.IsError)
}
