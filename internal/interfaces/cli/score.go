package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/FastTargetPred/internal/application/prediction"
	"github.com/turtacn/FastTargetPred/internal/domain/fingerprint"
)

// NewScoreCmd predicts targets from fingerprint files generated earlier.
func NewScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score --fpf TYPE=path [--fpf TYPE=path...]",
		Short: "Predict targets from pre-generated fingerprint files",
		Long: "score skips fingerprint generation and reads MayaChemTools text output\n" +
			"directly, one file per fingerprint type, in the given order.",
		Args: cobra.NoArgs,
		RunE: runScore,
	}
	addScoringFlags(cmd)
	cmd.Flags().StringArray("fpf", nil, "fingerprint file as TYPE=path (repeatable)")
	cmd.Flags().StringSlice("fp", nil, "")
	_ = cmd.Flags().MarkHidden("fp")
	_ = cmd.MarkFlagRequired("fpf")
	return cmd
}

// fingerprintsFromFiles copies the types named by --fpf into the hidden --fp
// flag so that the thresholds are validated against them.
func fingerprintsFromFiles(cmd *cobra.Command) error {
	f := cmd.Flags().Lookup("fpf")
	if f == nil || !f.Changed {
		return nil
	}
	values, err := cmd.Flags().GetStringArray("fpf")
	if err != nil {
		return err
	}
	names, _, err := parseTypedPaths(values)
	if err != nil {
		return err
	}
	return cmd.Flags().Set("fp", strings.Join(names, ","))
}

func runScore(cmd *cobra.Command, _ []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg := cliCtx.Config

	values, err := cmd.Flags().GetStringArray("fpf")
	if err != nil {
		return err
	}
	_, paths, err := parseTypedPaths(values)
	if err != nil {
		return err
	}
	if cfg.Output.Path != "" {
		if err := prediction.ValidateOutputPath(cfg.Output.Path); err != nil {
			return err
		}
	}
	specs, err := cfg.FingerprintSpecs()
	if err != nil {
		return err
	}
	thresholds := cfg.Thresholds(specs)

	files := make([]fingerprint.GeneratedFile, len(specs))
	for i, s := range specs {
		files[i] = fingerprint.GeneratedFile{Type: s.Type, BitLength: s.BitLength, Path: paths[i]}
	}
	merged, err := prediction.CollectFingerprints(files)
	if err != nil {
		return err
	}

	a := newApp(cfg, cliCtx.Logger)
	defer a.close()
	_, err = a.predict(cmd.Context(), specs, thresholds, merged, cmd.OutOrStdout(), cmd.ErrOrStderr())
	return err
}

//Personal.AI order the ending
