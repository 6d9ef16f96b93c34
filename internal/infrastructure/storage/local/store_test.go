package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/FastTargetPred/internal/testutil"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

func TestStore_Fetch(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteBytes(t, dir, "db_ECFP4.bfp", []byte{2, 'D', '1', 0xff})

	s := NewStore(dir)
	data, err := s.Fetch(context.Background(), "db_ECFP4.bfp")
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 'D', '1', 0xff}, data)

	_, err = s.Fetch(context.Background(), "db_MACCS.bfp")
	assert.True(t, errors.IsCode(err, errors.CodeBlobNotFound))
}

func TestStore_AbsoluteNameIgnoresRoot(t *testing.T) {
	path := testutil.WriteBytes(t, t.TempDir(), "x.bfp", []byte{1})
	data, err := NewStore("/nonexistent").Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, data)
}

func TestStore_PutCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	require.NoError(t, s.Put(context.Background(), "db/chembl_PL.bfp", []byte("blob")))

	got, err := os.ReadFile(filepath.Join(dir, "db", "chembl_PL.bfp"))
	require.NoError(t, err)
	assert.Equal(t, "blob", string(got))

	entries, err := os.ReadDir(filepath.Join(dir, "db"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestStore_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStore(t.TempDir()).Fetch(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

//Personal.AI order the ending
