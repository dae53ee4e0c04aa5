package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openkraft/jsonkraft/internal/adapters/outbound/tui"
)

func newSchemaCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage registered JSON Schemas",
		Long:  "Store JSON Schema documents under .jsonkraft/schemas so analyze can refer to them with --schema-id.",
	}
	cmd.AddCommand(newSchemaAddCmd(opts))
	cmd.AddCommand(newSchemaListCmd(opts))
	cmd.AddCommand(newSchemaShowCmd(opts))
	cmd.AddCommand(newSchemaRemoveCmd(opts))
	return cmd
}

func newSchemaAddCmd(opts *rootOptions) *cobra.Command {
	var (
		schemaVersion string
		tags          []string
	)

	cmd := &cobra.Command{
		Use:   "add <name> <file>",
		Short: "Register a schema document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[1], err)
			}
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			rec, err := reg.Add(args[0], schemaVersion, tags, doc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s@%s (%s)\n", rec.Name, rec.Version, rec.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaVersion, "version", "1.0.0", "Schema version")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag to attach (repeatable)")

	return cmd
}

func newSchemaListCmd(opts *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			records, err := reg.List()
			if err != nil {
				return err
			}
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			table, err := tui.RenderSchemas(records)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output records as JSON")

	return cmd
}

func newSchemaShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|name>",
		Short: "Print a registered schema document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			_, doc, err := reg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ensureNewline(string(doc)))
			return nil
		},
	}
}

func newSchemaRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id|name>",
		Aliases: []string{"rm"},
		Short:   "Delete a registered schema",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			if err := reg.Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}
