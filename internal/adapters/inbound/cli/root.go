package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/openkraft/jsonkraft/internal/adapters/outbound/aifix"
	"github.com/openkraft/jsonkraft/internal/adapters/outbound/cache"
	"github.com/openkraft/jsonkraft/internal/adapters/outbound/config"
	"github.com/openkraft/jsonkraft/internal/adapters/outbound/registry"
	"github.com/openkraft/jsonkraft/internal/adapters/outbound/schema"
	"github.com/openkraft/jsonkraft/internal/application"
	"github.com/openkraft/jsonkraft/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
)

// stdinName labels results read from standard input.
const stdinName = "<stdin>"

type rootOptions struct {
	verbose bool
	dir     string
	logger  *charmlog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{logger: charmlog.New(io.Discard)}

	cmd := &cobra.Command{
		Use:           "jsonkraft",
		Short:         "Score, repair and convert JSON",
		Long:          "jsonkraft analyzes JSON documents for structure, security and data quality, scores them 0-100, repairs malformed input and converts to other formats.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.logger = charmlog.NewWithOptions(cmd.ErrOrStderr(), charmlog.Options{
				ReportTimestamp: false,
				Prefix:          "jsonkraft",
			})
			if opts.verbose {
				opts.logger.SetLevel(charmlog.DebugLevel)
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.dir, "dir", ".", "Project directory holding .jsonkraft.yaml and .jsonkraft/")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newAnalyzeCmd(opts))
	cmd.AddCommand(newRepairCmd(opts))
	cmd.AddCommand(newConvertCmd(opts))
	cmd.AddCommand(newSchemaCmd(opts))
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func (o *rootOptions) projectDir() (string, error) {
	abs, err := filepath.Abs(o.dir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}

func (o *rootOptions) loadConfig() (domain.ProjectConfig, error) {
	dir, err := o.projectDir()
	if err != nil {
		return domain.ProjectConfig{}, err
	}
	cfg, err := config.New().Load(dir)
	if err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func (o *rootOptions) registry() (*registry.FileRegistry, error) {
	dir, err := o.projectDir()
	if err != nil {
		return nil, err
	}
	return registry.New(filepath.Join(dir, registry.Dir)), nil
}

func (o *rootOptions) analyzeService(cfg domain.ProjectConfig, useCache bool) (*application.AnalyzeService, error) {
	svcOpts := []application.AnalyzeOption{
		application.WithValidator(schema.New()),
		application.WithLogger(o.logger),
	}
	if useCache && cfg.Cache.Enabled {
		dir, err := o.projectDir()
		if err != nil {
			return nil, err
		}
		cacheDir := cfg.Cache.Dir
		if !filepath.IsAbs(cacheDir) {
			cacheDir = filepath.Join(dir, cacheDir)
		}
		ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
		svcOpts = append(svcOpts, application.WithCache(cache.New(cacheDir, ttl)))
	}
	return application.NewAnalyzeService(cfg, svcOpts...), nil
}

func (o *rootOptions) repairService(cfg domain.ProjectConfig, allowAI bool) *application.RepairService {
	var ai domain.AIRepairer
	if cfg.Repair.AI && allowAI {
		if r, ok := aifix.FromEnv(cfg.Repair); ok {
			ai = r
		} else {
			o.logger.Debug("AI repair disabled", "reason", "ANTHROPIC_API_KEY not set")
		}
	}
	return application.NewRepairService(cfg.Repair, ai, o.logger)
}

// readInput reads a file argument, or stdin when the argument is "-" or absent.
func readInput(cmd *cobra.Command, args []string) (name, text string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return stdinName, string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return args[0], string(data), nil
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
