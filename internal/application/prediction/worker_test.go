package prediction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/FastTargetPred/internal/domain/similarity"
	"github.com/turtacn/FastTargetPred/internal/domain/target"
	"github.com/turtacn/FastTargetPred/internal/testutil"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// scriptedScorer answers by query path.
type scriptedScorer map[string][]similarity.Entry

func (s scriptedScorer) Score(_ context.Context, req *similarity.Request) ([]similarity.Entry, error) {
	entries, ok := s[req.QueryPath]
	if !ok {
		return nil, assert.AnError
	}
	return entries, nil
}

func queries(paths ...string) []Query {
	args := &ScoreArgs{Thresholds: []float64{0.5}}
	out := make([]Query, len(paths))
	for i, p := range paths {
		out[i] = Query{Molecule: "mol-" + p, Path: p, Args: args}
	}
	return out
}

func TestWorker_FailureIsIsolated(t *testing.T) {
	scorer := scriptedScorer{
		"a": {{ID: "D1", Scores: []float64{0.9}}},
		"c": {{ID: "D9", Scores: []float64{0.7}}},
	}
	broker := NewStaticBroker(target.Table{"D1": {"T1"}}, nil)
	logger := testutil.NewMockLogger()
	w := NewWorker(0, scorer, broker, false, logger, nil)

	progress := make(chan Signal, 3)
	results := make(chan ResultMessage, 3)
	require.NoError(t, w.Run(context.Background(), queries("a", "b", "c"), progress, results))

	assert.Len(t, progress, 3)
	require.Len(t, results, 3)

	a := <-results
	assert.Equal(t, "mol-a", a.Molecule)
	assert.NoError(t, a.Err)
	assert.Equal(t, []target.Match{{DatabaseID: "D1", Score: 0.9}}, a.Best.Matches("T1"))

	b := <-results
	assert.True(t, errors.IsCode(b.Err, errors.CodeScoringFailed))
	assert.Zero(t, b.Best.Len())
	assert.True(t, logger.HasMessage("error", "scoring failed"))

	c := <-results
	assert.NoError(t, c.Err)
	assert.Zero(t, c.Best.Len(), "unmapped database ids contribute no targets")
}

func TestWorker_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := NewWorker(1, scriptedScorer{}, NewStaticBroker(target.Table{}, nil), false, testutil.NewMockLogger(), nil)

	results := make(chan ResultMessage, 1)
	err := w.Run(ctx, queries("a"), make(chan Signal, 1), results)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestWorker_KeepAll(t *testing.T) {
	scorer := scriptedScorer{"a": {
		{ID: "D1", Scores: []float64{0.6}},
		{ID: "D2", Scores: []float64{0.8}},
	}}
	broker := NewStaticBroker(target.Table{"D1": {"T1"}, "D2": {"T1"}}, nil)
	w := NewWorker(0, scorer, broker, true, testutil.NewMockLogger(), nil)

	results := make(chan ResultMessage, 1)
	require.NoError(t, w.Run(context.Background(), queries("a"), make(chan Signal, 1), results))
	assert.Len(t, (<-results).Best.Matches("T1"), 2)
}

func TestWorker_WaitsForTargetLookup(t *testing.T) {
	release := make(chan struct{})
	broker := StartBroker(context.Background(),
		func(context.Context) (target.Table, error) {
			<-release
			return target.Table{"D1": {"T1"}}, nil
		},
		func(context.Context) (*target.InfoTable, error) { return nil, nil },
		testutil.NewMockLogger())
	logger := testutil.NewMockLogger()
	w := NewWorker(0, scriptedScorer{"a": {{ID: "D1", Scores: []float64{0.9}}}}, broker, false, logger, nil)

	progress := make(chan Signal, 1)
	results := make(chan ResultMessage, 1)
	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background(), queries("a"), progress, results) }()

	assert.Eventually(t, func() bool { return logger.HasMessage("debug", "waiting for target lookup") },
		time.Second, 5*time.Millisecond)
	assert.Empty(t, results)

	close(release)
	require.NoError(t, <-done)
	msg := <-results
	assert.Equal(t, []target.Match{{DatabaseID: "D1", Score: 0.9}}, msg.Best.Matches("T1"))
}

//Personal.AI order the ending
