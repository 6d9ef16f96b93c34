// Package cli implements the ftpred command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/FastTargetPred/internal/config"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	NoColor    bool
}

// CLIContext carries the loaded configuration through the command tree.
type CLIContext struct {
	Config  *config.Config
	Logger  logging.Logger
	NoColor bool
}

// flagKeys maps command-line flags to config keys.  Flags keep the short
// names of the historical command line.
var flagKeys = map[string]string{
	"db":           "database.path",
	"source":       "database.source",
	"info":         "database.info_file",
	"fp":           "prediction.fingerprints",
	"tc":           "prediction.tanimoto_thresholds",
	"sd":           "prediction.zscore_threshold",
	"nbt":          "prediction.max_targets",
	"cpu":          "prediction.workers",
	"bppt":         "prediction.keep_all_matches",
	"noinfo":       "prediction.no_info",
	"output":       "output.path",
	"format":       "output.format",
	"keep-temp":    "workspace.keep_temp",
	"maya-bin-dir": "tools.maya_bin_dir",
	"log-level":    "log.level",
}

// NewRootCommand creates the root command with all subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ftpred",
		Short: "Fast similarity-based target prediction",
		Long: "ftpred predicts the biological targets of query molecules by searching a\n" +
			"reference database of annotated molecules for similar fingerprints.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.String("db", "", "database prefix (default db/chembl25_active)")
	pf.String("source", "", "database blob source (local, minio)")

	cmd.AddCommand(
		NewPredictCmd(),
		NewScoreCmd(),
		NewConvertCmd(),
	)
	return cmd
}

// addScoringFlags registers the flags shared by predict and score.
func addScoringFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSlice("tc", nil, "Tanimoto threshold per fingerprint, in fingerprint order")
	f.Float64("sd", 0, "consensus z-score threshold (default 0.8)")
	f.Int("nbt", 0, "number of targets reported per molecule (default 100)")
	f.StringP("output", "o", "", "output file; must not exist (default stdout)")
	f.StringP("format", "f", "", "output format (txt, csv)")
	f.Int("cpu", 0, "number of parallel workers (default 4)")
	f.Bool("bppt", false, "report every matching database molecule per target")
	f.Bool("noinfo", false, "only report the Uniprot and ChEMBL columns of target info")
	f.String("info", "", "target info file")
	f.Bool("keep-temp", false, "keep query files after the run")
}

// persistentPreRun loads config and logger, then stores CLIContext.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	if opts.NoColor {
		color.NoColor = true
	}
	if err := fingerprintsFromFiles(cmd); err != nil {
		return err
	}

	cfg, err := config.LoadWithFlags(opts.ConfigPath, cmd.Flags(), flagKeys)
	if err != nil {
		return err
	}
	if opts.Verbose {
		cfg.Log.Level = logging.LevelDebug
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeConfigInvalid, "logger initialization failed")
	}
	logging.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, &CLIContext{
		Config:  cfg,
		Logger:  logger,
		NoColor: opts.NoColor,
	}))
	return nil
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New(errors.CodeInternal, "command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.New(errors.CodeInternal, "CLIContext not found in command context")
	}
	return cliCtx, nil
}

// Execute is the main entry point for the CLI application.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		PrintError(rootCmd.ErrOrStderr(), err)
		return err
	}
	return nil
}

// PrintError writes a formatted error message.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s %s\n", color.New(color.FgRed, color.Bold).Sprint("Error:"), err.Error())
}

// PrintWarning writes a formatted warning.
func PrintWarning(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", color.New(color.FgYellow).Sprint("Warning:"), msg)
}

// parseTypedPaths splits TYPE=path values.
func parseTypedPaths(values []string) ([]string, []string, error) {
	names := make([]string, 0, len(values))
	paths := make([]string, 0, len(values))
	for _, v := range values {
		name, path, ok := strings.Cut(v, "=")
		if !ok || name == "" || path == "" {
			return nil, nil, errors.Newf(errors.CodeInvalidArg, "expected TYPE=path, got %q", v)
		}
		names = append(names, name)
		paths = append(paths, path)
	}
	return names, paths, nil
}

//Personal.AI order the ending
