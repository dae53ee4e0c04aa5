package cli

import (
	mcpadapter "github.com/openkraft/jsonkraft/internal/adapters/inbound/mcp"
	"github.com/openkraft/jsonkraft/internal/adapters/outbound/encoder"
	"github.com/openkraft/jsonkraft/internal/application"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the jsonkraft MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(opts))
	return cmd
}

func newMCPServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start jsonkraft MCP server (stdio)",
		Long:  "Start the jsonkraft MCP server using stdio transport. This lets AI assistants analyze, repair and convert JSON and read registered schemas.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newMCPServer(opts)
			if err != nil {
				return err
			}
			return server.ServeStdio(s)
		},
	}
}

func newMCPServer(opts *rootOptions) (*server.MCPServer, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}
	analyzer, err := opts.analyzeService(cfg, true)
	if err != nil {
		return nil, err
	}
	reg, err := opts.registry()
	if err != nil {
		return nil, err
	}
	return mcpadapter.NewJSONKraftMCPServer(version, mcpadapter.Services{
		Analyzer:  analyzer,
		Repairer:  opts.repairService(cfg, true),
		Converter: application.NewConvertService(encoder.All()...),
		Registry:  reg,
	}), nil
}
