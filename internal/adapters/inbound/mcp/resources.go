package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerResources registers the schema registry resources.
func registerResources(s *server.MCPServer, svc Services) {
	// jsonkraft://schemas - registered schema records
	s.AddResource(
		mcplib.NewResource(
			"jsonkraft://schemas",
			"Schemas",
			mcplib.WithResourceDescription("Schemas registered with jsonkraft schema add"),
			mcplib.WithMIMEType("application/json"),
		),
		handleSchemasResource(svc),
	)

	// jsonkraft://schemas/{id} - one schema document (resource template)
	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			"jsonkraft://schemas/{id}",
			"Schema Document",
			mcplib.WithTemplateDescription("A registered JSON Schema document, by id or name"),
			mcplib.WithTemplateMIMEType("application/schema+json"),
		),
		handleSchemaResource(svc),
	)
}

func handleSchemasResource(svc Services) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		if svc.Registry == nil {
			return nil, errNoRegistry
		}
		records, err := svc.Registry.List()
		if err != nil {
			return nil, fmt.Errorf("listing schemas: %w", err)
		}

		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling schemas: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "jsonkraft://schemas",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

func handleSchemaResource(svc Services) server.ResourceTemplateHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		if svc.Registry == nil {
			return nil, errNoRegistry
		}
		id := templateArg(request.Params.Arguments["id"])
		if id == "" {
			return nil, fmt.Errorf("missing schema id")
		}

		_, doc, err := svc.Registry.Get(id)
		if err != nil {
			return nil, err
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/schema+json",
				Text:     string(doc),
			},
		}, nil
	}
}

// templateArg accepts both shapes URI template matching produces.
func templateArg(v any) string {
	switch a := v.(type) {
	case string:
		return a
	case []string:
		if len(a) > 0 {
			return a[0]
		}
	}
	return ""
}
