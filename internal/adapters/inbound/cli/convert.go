package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openkraft/jsonkraft/internal/adapters/outbound/encoder"
	"github.com/openkraft/jsonkraft/internal/application"
)

func newConvertCmd(opts *rootOptions) *cobra.Command {
	var (
		to     string
		output string
	)

	svc := application.NewConvertService(encoder.All()...)
	formats := make([]string, 0, len(svc.Formats()))
	for _, f := range svc.Formats() {
		formats = append(formats, string(f))
	}

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert JSON to another format",
		Long:  fmt.Sprintf("Convert a JSON document to one of: %s.", strings.Join(formats, ", ")),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			out, err := svc.Convert(text, to)
			if err != nil {
				return fmt.Errorf("converting %s: %w", name, err)
			}
			out = ensureNewline(out)

			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			}
			if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			opts.logger.Info("converted", "from", name, "to", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Target format ("+strings.Join(formats, ", ")+")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
