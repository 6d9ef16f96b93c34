package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/FastTargetPred/internal/application/prediction"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/generator"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/logging"
)

// NewPredictCmd generates fingerprints for SD files and predicts their
// targets.
func NewPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict SDF [SDF...]",
		Short: "Predict the targets of the molecules of one or more SD files",
		Long: "predict merges the SD files, generates the requested fingerprints with\n" +
			"MayaChemTools and scores every molecule against the reference database.",
		Args: cobra.MinimumNArgs(1),
		RunE: runPredict,
	}
	addScoringFlags(cmd)
	cmd.Flags().StringSlice("fp", nil, "fingerprint types (ECFP4, ECFP6, MACCS, PL)")
	cmd.Flags().String("maya-bin-dir", "", "MayaChemTools bin directory")
	return cmd
}

func runPredict(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg, logger := cliCtx.Config, cliCtx.Logger
	ctx := cmd.Context()

	specs, err := cfg.FingerprintSpecs()
	if err != nil {
		return err
	}
	if cfg.Output.Path != "" {
		if err := prediction.ValidateOutputPath(cfg.Output.Path); err != nil {
			return err
		}
	}

	sdf, err := generator.MergeStructureFiles(args, cfg.Workspace.GeneratorOutputDir)
	if err != nil {
		return err
	}
	maya, err := generator.NewMaya(generator.ToolConfig{
		PerlPath:   cfg.Tools.PerlPath,
		MayaBinDir: cfg.Tools.MayaBinDir,
		OutputDir:  cfg.Workspace.GeneratorOutputDir,
	}, logger)
	if err != nil {
		return err
	}

	logger.Info("generating fingerprints", logging.String("structures", sdf), logging.Int("types", len(specs)))
	merged, err := prediction.CollectFingerprints(maya.Generate(ctx, sdf, specs))
	if err != nil {
		return err
	}

	a := newApp(cfg, logger)
	defer a.close()
	_, err = a.predict(ctx, specs, cfg.Thresholds(specs), merged, cmd.OutOrStdout(), cmd.ErrOrStderr())
	return err
}

//Personal.AI order the ending
