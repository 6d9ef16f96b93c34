package prediction

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/FastTargetPred/internal/domain/fingerprint"
	"github.com/turtacn/FastTargetPred/internal/testutil"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

func TestCollectFingerprints_MergesInRequestOrder(t *testing.T) {
	dir := t.TempDir()
	ecfp := testutil.WriteFile(t, dir, "in_ECFP4.fpf", "# header\n# more\nM1 ff00\nM2 00ff\n")
	maccs := testutil.WriteFile(t, dir, "in_MACCS.fpf", "#\nM2 0f\nM1 f0\nM3 aa\n")

	merged, err := CollectFingerprints([]fingerprint.GeneratedFile{
		{Type: fingerprint.ECFP4, BitLength: 16, Path: ecfp},
		{Type: fingerprint.MACCS, BitLength: 8, Path: maccs},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"M1", "M2", "M3"}, merged.Order)
	require.Len(t, merged.Fragments["M1"], 2)
	assert.Equal(t, []byte{0xff, 0x00}, merged.Fragments["M1"][0].Bytes)
	assert.Equal(t, uint32(8), merged.Fragments["M1"][1].BitLength)
	assert.Len(t, merged.Fragments["M3"], 1)
	assert.Equal(t, 3, merged.Len())
}

func TestCollectFingerprints_GeneratorFailureAbortsFirst(t *testing.T) {
	dir := t.TempDir()
	bad := testutil.WriteFile(t, dir, "bad.fpf", "M1 zz\n")

	_, err := CollectFingerprints([]fingerprint.GeneratedFile{
		{Type: fingerprint.ECFP4, BitLength: 8, Path: bad},
		{Type: fingerprint.MACCS, BitLength: 8, Err: assert.AnError},
	})
	assert.True(t, errors.IsCode(err, errors.CodeFingerprintGenerationFailed))
}

func TestCollectFingerprints_MissingFile(t *testing.T) {
	_, err := CollectFingerprints([]fingerprint.GeneratedFile{
		{Type: fingerprint.ECFP4, BitLength: 8, Path: filepath.Join(t.TempDir(), "nope.fpf")},
	})
	assert.True(t, errors.IsCode(err, errors.CodeFingerprintGenerationFailed))
}

func TestCollectFingerprints_ParseFailure(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "x.fpf", "M1 zz\n")
	_, err := CollectFingerprints([]fingerprint.GeneratedFile{
		{Type: fingerprint.ECFP4, BitLength: 8, Path: path},
	})
	assert.True(t, errors.IsCode(err, errors.CodeFingerprintParseFailed))
}

//Personal.AI order the ending
