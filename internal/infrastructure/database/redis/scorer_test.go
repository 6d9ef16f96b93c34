package redis

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/FastTargetPred/internal/domain/fingerprint"
	"github.com/turtacn/FastTargetPred/internal/domain/similarity"
	"github.com/turtacn/FastTargetPred/internal/testutil"
)

func writeQuery(t *testing.T, name string, payload byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name+fingerprint.QueryExt)
	require.NoError(t, fingerprint.WriteQueryFile(path, []fingerprint.Fragment{
		{Molecule: name, Bytes: []byte{payload}, BitLength: 8},
	}))
	return path
}

type countingScorer struct {
	calls   atomic.Int32
	entries []similarity.Entry
	err     error
}

func (c *countingScorer) Score(context.Context, *similarity.Request) ([]similarity.Entry, error) {
	c.calls.Add(1)
	return c.entries, c.err
}

func newCachingScorer(t *testing.T, inner similarity.Scorer) (*CachingScorer, redismock.ClientMock, *testutil.MockLogger) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	logger := testutil.NewMockLogger()
	cache := NewRedisCache(NewClientFromUniversal(db, logger), logger, WithPrefix("t:"), WithJitter(false))
	return NewCachingScorer(inner, cache, time.Hour, logger, nil), mock, logger
}

func request(path string) *similarity.Request {
	return &similarity.Request{
		QueryPath:  path,
		Databases:  [][]byte{{2, 'D', '1', 0xf0}},
		Thresholds: []float64{0.5},
	}
}

func TestCachingScorer_MissThenStore(t *testing.T) {
	inner := &countingScorer{entries: []similarity.Entry{{ID: "D1", Scores: []float64{1}}}}
	s, mock, _ := newCachingScorer(t, inner)

	req := request(writeQuery(t, "M1", 0xf0))
	frags, err := fingerprint.ReadQueryFile(req.QueryPath)
	require.NoError(t, err)
	key := "t:" + s.key(frags, req)
	data, _ := json.Marshal(inner.entries)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, data, time.Hour).SetVal("OK")

	got, err := s.Score(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, inner.entries, got)
	assert.Equal(t, int32(1), inner.calls.Load())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingScorer_Hit(t *testing.T) {
	inner := &countingScorer{}
	s, mock, _ := newCachingScorer(t, inner)

	req := request(writeQuery(t, "M1", 0xf0))
	frags, _ := fingerprint.ReadQueryFile(req.QueryPath)
	mock.ExpectGet("t:" + s.key(frags, req)).SetVal(`[{"id":"D7","scores":[0.4,0.9]}]`)

	got, err := s.Score(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []similarity.Entry{{ID: "D7", Scores: []float64{0.4, 0.9}}}, got)
	assert.Zero(t, inner.calls.Load())
}

func TestCachingScorer_CacheDownFallsThrough(t *testing.T) {
	inner := &countingScorer{entries: []similarity.Entry{}}
	s, mock, logger := newCachingScorer(t, inner)

	req := request(writeQuery(t, "M1", 0xf0))
	frags, _ := fingerprint.ReadQueryFile(req.QueryPath)
	key := "t:" + s.key(frags, req)
	mock.ExpectGet(key).SetErr(assert.AnError)
	mock.ExpectSet(key, []byte("[]"), time.Hour).SetErr(assert.AnError)

	got, err := s.Score(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.True(t, logger.HasMessage("warn", "score cache read failed"))
	assert.True(t, logger.HasMessage("warn", "score cache write failed"))
}

func TestCachingScorer_InnerErrorNotCached(t *testing.T) {
	inner := &countingScorer{err: assert.AnError}
	s, mock, _ := newCachingScorer(t, inner)

	req := request(writeQuery(t, "M1", 0xf0))
	frags, _ := fingerprint.ReadQueryFile(req.QueryPath)
	mock.ExpectGet("t:" + s.key(frags, req)).RedisNil()

	_, err := s.Score(context.Background(), req)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingScorer_Key(t *testing.T) {
	s, _, _ := newCachingScorer(t, &countingScorer{})
	keyOf := func(req *similarity.Request) string {
		frags, err := fingerprint.ReadQueryFile(req.QueryPath)
		require.NoError(t, err)
		return s.key(frags, req)
	}

	base := request(writeQuery(t, "M1", 0xf0))
	renamed := request(writeQuery(t, "OTHER", 0xf0))
	assert.Equal(t, keyOf(base), keyOf(renamed), "molecule names do not affect the key")

	assert.NotEqual(t, keyOf(base), keyOf(request(writeQuery(t, "M1", 0x0f))))

	stricter := request(base.QueryPath)
	stricter.Thresholds = []float64{0.6}
	assert.NotEqual(t, keyOf(base), keyOf(stricter))

	otherDB := request(base.QueryPath)
	otherDB.Databases = [][]byte{{2, 'D', '2', 0xf0}}
	assert.NotEqual(t, keyOf(base), keyOf(otherDB))
}

func TestCachingScorer_InvalidRequest(t *testing.T) {
	s, _, _ := newCachingScorer(t, &countingScorer{})
	_, err := s.Score(context.Background(), &similarity.Request{})
	assert.Error(t, err)
}

//Personal.AI order the ending
