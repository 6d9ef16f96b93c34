// Package generator runs the external fingerprint generation tools.
package generator

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/FastTargetPred/internal/domain/fingerprint"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// ToolConfig locates the MayaChemTools installation.
type ToolConfig struct {
	PerlPath   string `mapstructure:"perl_path"`
	MayaBinDir string `mapstructure:"maya_bin_dir"`
	OutputDir  string `mapstructure:"generator_output_dir"`
}

// Maya generates fingerprints with the MayaChemTools perl scripts.
type Maya struct {
	cfg    ToolConfig
	logger logging.Logger
}

// NewMaya checks that perl and the MayaChemTools bin directory exist.
func NewMaya(cfg ToolConfig, logger logging.Logger) (*Maya, error) {
	if cfg.PerlPath == "" {
		cfg.PerlPath = "/usr/bin/perl"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "out"
	}
	if _, err := exec.LookPath(cfg.PerlPath); err != nil {
		return nil, errors.New(errors.CodeToolNotFound, "perl not found").
			WithDetail(cfg.PerlPath).WithCause(err)
	}
	if cfg.MayaBinDir == "" {
		return nil, errors.New(errors.CodeToolNotFound, "MayaChemTools bin directory not configured")
	}
	info, err := os.Stat(cfg.MayaBinDir)
	if err != nil || !info.IsDir() {
		return nil, errors.New(errors.CodeToolNotFound, "MayaChemTools bin directory not found").
			WithDetail(cfg.MayaBinDir).WithCause(err)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Maya{cfg: cfg, logger: logger}, nil
}

// Generate runs one script per spec concurrently and returns the results in
// spec order.
func (m *Maya) Generate(ctx context.Context, structurePath string, specs []fingerprint.Spec) []fingerprint.GeneratedFile {
	out := make([]fingerprint.GeneratedFile, len(specs))
	for i, s := range specs {
		out[i] = fingerprint.GeneratedFile{Type: s.Type, BitLength: s.BitLength}
	}

	sdf, err := filepath.Abs(structurePath)
	if err == nil {
		err = os.MkdirAll(m.cfg.OutputDir, 0o755)
	}
	if err != nil {
		for i := range out {
			out[i].Err = errors.Wrap(err, errors.CodeFingerprintGenerationFailed, "failed to prepare generator output")
		}
		return out
	}

	var g errgroup.Group
	for i, s := range specs {
		i, s := i, s
		g.Go(func() error {
			out[i].Path, out[i].Err = m.run(ctx, sdf, s)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (m *Maya) command(ctx context.Context, sdf string, s fingerprint.Spec) *exec.Cmd {
	args := []string{filepath.Join(m.cfg.MayaBinDir, s.Script)}
	args = append(args, s.ScriptArgs...)
	args = append(args,
		"--output", "FP",
		"--CompoundIDMode", "MolName",
		"-r", outputRoot(sdf, s.Type),
		"-o", sdf,
	)
	cmd := exec.CommandContext(ctx, m.cfg.PerlPath, args...)
	cmd.Dir = m.cfg.OutputDir
	return cmd
}

func outputRoot(sdf string, t fingerprint.Type) string {
	stem := strings.TrimSuffix(filepath.Base(sdf), filepath.Ext(sdf))
	return fmt.Sprintf("%s_%s", stem, t)
}

func (m *Maya) run(ctx context.Context, sdf string, s fingerprint.Spec) (string, error) {
	start := time.Now()
	cmd := m.command(ctx, sdf, s)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", errors.New(errors.CodeFingerprintGenerationFailed,
			fmt.Sprintf("Maya issued an error during %s fingerprint calculation : \n%s", s.Type, stderr.String())).
			WithCause(err)
	}

	logPath := filepath.Join(m.cfg.OutputDir, fmt.Sprintf("log_%s.log", s.Type))
	if err := os.WriteFile(logPath, stdout.Bytes(), 0o644); err != nil {
		m.logger.Warn("failed to write generator log", logging.String("path", logPath), logging.Err(err))
	}

	path := filepath.Join(m.cfg.OutputDir, outputRoot(sdf, s.Type)+".fpf")
	if _, err := os.Stat(path); err != nil {
		return "", errors.New(errors.CodeFingerprintGenerationFailed, "generator produced no output").
			WithDetail(path).WithCause(err)
	}
	m.logger.Info("fingerprints generated",
		logging.String("fingerprint", string(s.Type)),
		logging.String("path", path),
		logging.Duration("duration", time.Since(start)))
	return path, nil
}

//Personal.AI order the ending
