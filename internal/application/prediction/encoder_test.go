package prediction

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/FastTargetPred/internal/domain/fingerprint"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/FastTargetPred/internal/testutil"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

func specs(t *testing.T, names ...string) []fingerprint.Spec {
	t.Helper()
	s, err := fingerprint.Resolve(names)
	require.NoError(t, err)
	return s
}

func TestEncoder_LoadDatabases(t *testing.T) {
	var mu sync.Mutex
	var asked []string
	source := fingerprint.BlobSourceFunc(func(_ context.Context, name string) ([]byte, error) {
		mu.Lock()
		asked = append(asked, name)
		mu.Unlock()
		return []byte(name), nil
	})

	enc := NewEncoder(EncoderConfig{
		DatabasePrefix: "db/chembl",
		Specs:          specs(t, "ECFP4", "MACCS"),
	}, source, logging.NewNopLogger(), nil)

	blobs, err := enc.LoadDatabases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("db/chembl_ECFP4.bfp"), []byte("db/chembl_MACCS.bfp")}, blobs)
	assert.ElementsMatch(t, []string{"db/chembl_ECFP4.bfp", "db/chembl_MACCS.bfp"}, asked)
}

func TestEncoder_LoadDatabasesFailure(t *testing.T) {
	source := fingerprint.BlobSourceFunc(func(_ context.Context, name string) ([]byte, error) {
		if name == "p_MACCS.bfp" {
			return nil, assert.AnError
		}
		return []byte{1}, nil
	})
	enc := NewEncoder(EncoderConfig{DatabasePrefix: "p", Specs: specs(t, "ECFP4", "MACCS")}, source, logging.NewNopLogger(), nil)

	_, err := enc.LoadDatabases(context.Background())
	assert.True(t, errors.IsCode(err, errors.CodeBlobSourceFailed))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestEncoder_Args(t *testing.T) {
	enc := NewEncoder(EncoderConfig{
		Specs:              specs(t, "ECFP4", "PL"),
		Thresholds:         []float64{0.6, 0.7},
		ConsensusThreshold: 1.5,
	}, nil, logging.NewNopLogger(), nil)

	args := enc.Args([][]byte{{1}, {2}})
	assert.True(t, args.Consensus)
	assert.Equal(t, "consensus", args.Mode())

	req := args.Request("/tmp/q.qbfp")
	assert.Equal(t, "/tmp/q.qbfp", req.QueryPath)
	assert.Equal(t, []float64{0.6, 0.7}, req.Thresholds)
	assert.Equal(t, 1.5, req.ConsensusThreshold)
	assert.Len(t, req.Databases, 2)
}

func TestEncoder_Encode(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "queries", "run")
	enc := NewEncoder(EncoderConfig{Dir: dir}, nil, logging.NewNopLogger(), nil)

	merged := &Merged{
		Order: []string{"M1", "M2"},
		Fragments: map[string][]fingerprint.Fragment{
			"M1": {{Molecule: "M1", Bytes: []byte{0xf0}, BitLength: 8}},
			"M2": {{Molecule: "M2", Bytes: []byte{0x0f}, BitLength: 8}},
		},
	}
	args := &ScoreArgs{}
	qs, err := enc.Encode(context.Background(), merged, args)
	require.NoError(t, err)
	require.Len(t, qs, 2)

	for i, q := range qs {
		assert.Equal(t, merged.Order[i], q.Molecule)
		assert.Equal(t, filepath.Join(dir, q.Molecule+fingerprint.QueryExt), q.Path)
		assert.Same(t, args, q.Args)

		frags, err := fingerprint.ReadQueryFile(q.Path)
		require.NoError(t, err)
		assert.Equal(t, merged.Fragments[q.Molecule], frags)
	}
}

func TestEncoder_EncodeUnwritableDir(t *testing.T) {
	blocker := testutil.WriteFile(t, t.TempDir(), "file", "x")
	enc := NewEncoder(EncoderConfig{Dir: filepath.Join(blocker, "sub")}, nil, logging.NewNopLogger(), nil)

	_, err := enc.Encode(context.Background(), &Merged{Order: []string{"M"}}, &ScoreArgs{})
	assert.True(t, errors.IsCode(err, errors.CodeQueryEncodingFailed))
}

//Personal.AI order the ending
