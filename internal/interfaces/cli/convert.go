package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/FastTargetPred/internal/domain/fingerprint"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// NewConvertCmd builds a database blob from generator text output.
func NewConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert --fp TYPE --in FILE",
		Short: "Convert text fingerprints of reference molecules into a database blob",
		Long: "convert reads MayaChemTools text fingerprints and stores them in the binary\n" +
			"database layout under <db>_<TYPE>.bfp, locally or in MinIO.",
		Args: cobra.NoArgs,
		RunE: runConvert,
	}
	cmd.Flags().String("fp", "", "fingerprint type of the input")
	cmd.Flags().String("in", "", "text fingerprint file")
	cmd.Flags().String("out", "", "object name (default <db>_<TYPE>.bfp)")
	_ = cmd.MarkFlagRequired("fp")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func runConvert(cmd *cobra.Command, _ []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg, logger := cliCtx.Config, cliCtx.Logger

	fp, _ := cmd.Flags().GetString("fp")
	in, _ := cmd.Flags().GetString("in")
	out, _ := cmd.Flags().GetString("out")

	spec, err := fingerprint.Lookup(fp)
	if err != nil {
		return err
	}
	if out == "" {
		out = fingerprint.DatabaseObjectName(cfg.Database.Path, spec.Type)
	}

	f, err := os.Open(in)
	if err != nil {
		return errors.New(errors.CodeInvalidArg, "open fingerprint file").WithDetail(in).WithCause(err)
	}
	defer f.Close()
	frags, err := fingerprint.ReadText(f, spec.BitLength)
	if err != nil {
		return err
	}

	entries := make([]fingerprint.DatabaseEntry, len(frags))
	for i, fr := range frags {
		entries[i] = fingerprint.DatabaseEntry{ID: fr.Molecule, Bytes: fr.Bytes}
	}
	var buf bytes.Buffer
	if err := fingerprint.EncodeDatabase(&buf, entries, spec.PayloadSize()); err != nil {
		return err
	}

	a := newApp(cfg, logger)
	defer a.close()
	store, err := a.blobStore()
	if err != nil {
		return err
	}
	if err := store.Put(cmd.Context(), out, buf.Bytes()); err != nil {
		return err
	}

	logger.Info("database blob written",
		logging.String("fingerprint", string(spec.Type)),
		logging.String("object", out),
		logging.Int("molecules", len(entries)),
		logging.Int("bytes", buf.Len()))
	fmt.Fprintf(cmd.OutOrStdout(), "OK: %d molecules written to %s\n", len(entries), out)
	return nil
}

//Personal.AI order the ending
