package generator

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/FastTargetPred/internal/domain/fingerprint"
	"github.com/turtacn/FastTargetPred/internal/testutil"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// fakePerl writes "<root>.fpf" into its working directory and fails for
// MACCS.
const fakePerl = `#!/bin/sh
root=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-r" ]; then root="$2"; fi
  shift
done
case "$root" in
  *MACCS*) echo "bad maya" >&2; exit 3 ;;
esac
printf '# header\nM1 ff00\n' > "$root.fpf"
echo "generated $root"
`

func setup(t *testing.T) (ToolConfig, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script generator")
	}
	dir := t.TempDir()
	perl := filepath.Join(dir, "perl")
	require.NoError(t, os.WriteFile(perl, []byte(fakePerl), 0o755))
	bin := filepath.Join(dir, "maya", "bin")
	require.NoError(t, os.MkdirAll(bin, 0o755))
	sdf := testutil.WriteFile(t, dir, "input.sdf", "M1\n$$$$\n")
	return ToolConfig{PerlPath: perl, MayaBinDir: bin, OutputDir: filepath.Join(dir, "out")}, sdf
}

func specs(t *testing.T, names ...string) []fingerprint.Spec {
	t.Helper()
	s, err := fingerprint.Resolve(names)
	require.NoError(t, err)
	return s
}

func TestNewMaya_MissingTools(t *testing.T) {
	cfg, _ := setup(t)

	bad := cfg
	bad.PerlPath = filepath.Join(t.TempDir(), "nope")
	_, err := NewMaya(bad, nil)
	assert.True(t, errors.IsCode(err, errors.CodeToolNotFound))

	bad = cfg
	bad.MayaBinDir = ""
	_, err = NewMaya(bad, nil)
	assert.True(t, errors.IsCode(err, errors.CodeToolNotFound))

	bad = cfg
	bad.MayaBinDir = filepath.Join(t.TempDir(), "missing")
	_, err = NewMaya(bad, nil)
	assert.True(t, errors.IsCode(err, errors.CodeToolNotFound))
}

func TestGenerate_Success(t *testing.T) {
	cfg, sdf := setup(t)
	m, err := NewMaya(cfg, testutil.NewMockLogger())
	require.NoError(t, err)

	got := m.Generate(context.Background(), sdf, specs(t, "ECFP4", "PL"))
	require.Len(t, got, 2)
	for i, want := range []fingerprint.Type{fingerprint.ECFP4, fingerprint.PL} {
		require.NoError(t, got[i].Err)
		assert.Equal(t, want, got[i].Type)
		assert.Equal(t, uint32(1024), got[i].BitLength)
		assert.Equal(t, filepath.Join(cfg.OutputDir, "input_"+string(want)+".fpf"), got[i].Path)
		assert.Equal(t, "# header\nM1 ff00\n", testutil.ReadFile(t, got[i].Path))

		logText := testutil.ReadFile(t, filepath.Join(cfg.OutputDir, "log_"+string(want)+".log"))
		assert.Contains(t, logText, "generated input_"+string(want))
	}
}

func TestGenerate_CommandLine(t *testing.T) {
	cfg, _ := setup(t)
	m, err := NewMaya(cfg, nil)
	require.NoError(t, err)

	cmd := m.command(context.Background(), "/data/mols.sdf", specs(t, "ECFP6")[0])
	assert.Equal(t, cfg.OutputDir, cmd.Dir)
	assert.Equal(t, []string{
		cfg.PerlPath,
		filepath.Join(cfg.MayaBinDir, "ExtendedConnectivityFingerprints.pl"),
		"-m", "ExtendedConnectivityBits", "-n", "3",
		"--output", "FP", "--CompoundIDMode", "MolName",
		"-r", "mols_ECFP6",
		"-o", "/data/mols.sdf",
	}, cmd.Args)
}

func TestGenerate_FailureIsPerType(t *testing.T) {
	cfg, sdf := setup(t)
	m, err := NewMaya(cfg, nil)
	require.NoError(t, err)

	got := m.Generate(context.Background(), sdf, specs(t, "MACCS", "ECFP4"))
	require.Len(t, got, 2)

	require.Error(t, got[0].Err)
	assert.True(t, errors.IsCode(got[0].Err, errors.CodeFingerprintGenerationFailed))
	assert.True(t, strings.Contains(got[0].Err.Error(),
		"Maya issued an error during MACCS fingerprint calculation : \nbad maya"))
	assert.Empty(t, got[0].Path)

	assert.NoError(t, got[1].Err)
	assert.FileExists(t, got[1].Path)
}

//Personal.AI order the ending
