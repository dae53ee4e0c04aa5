package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openkraft/jsonkraft/internal/adapters/outbound/tui"
)

func newRepairCmd(opts *rootOptions) *cobra.Command {
	var (
		write      bool
		noAI       bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "repair [file]",
		Short: "Fix malformed JSON",
		Long:  "Apply local repair rules (comments, quotes, trailing commas, bare keys, truncation) and fall back to the AI collaborator when they are not enough. The repaired text goes to stdout unless --write is set.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if write && name == stdinName {
				return errors.New("--write needs a file argument")
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			svc := opts.repairService(cfg, !noAI)
			res, repairErr := svc.Repair(cmd.Context(), text, !noAI)

			switch {
			case jsonOutput:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
			case write && res.Succeeded:
				info, err := os.Stat(name)
				if err != nil {
					return err
				}
				if err := os.WriteFile(name, []byte(ensureNewline(res.Text)), info.Mode().Perm()); err != nil {
					return fmt.Errorf("writing %s: %w", name, err)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderRepair(res))
			default:
				fmt.Fprint(cmd.ErrOrStderr(), tui.RenderRepair(res))
				if res.Succeeded {
					fmt.Fprint(cmd.OutOrStdout(), ensureNewline(res.Text))
				}
			}
			return repairErr
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Rewrite the file in place")
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "Never call the AI fallback")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the repair result as JSON")

	return cmd
}
