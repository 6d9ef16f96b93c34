package prediction

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/FastTargetPred/internal/domain/target"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

func TestGate_ReadersBlockUntilPublished(t *testing.T) {
	g := NewGate[target.Table]()
	assert.False(t, g.Ready())

	var wg sync.WaitGroup
	got := make([]target.Table, 5)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := g.Wait(context.Background())
			assert.NoError(t, err)
			got[i] = v
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	want := target.Table{"D1": {"T1"}}
	assert.True(t, g.Publish(want))
	wg.Wait()

	for _, v := range got {
		assert.Equal(t, want, v)
	}
	assert.True(t, g.Ready())
}

func TestGate_ReleasedOnce(t *testing.T) {
	g := NewGate[int]()
	assert.True(t, g.Publish(1))
	assert.False(t, g.Publish(2))
	assert.False(t, g.Fail(assert.AnError))

	v, err := g.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestGate_Fail(t *testing.T) {
	g := NewGate[int]()
	g.Fail(assert.AnError)
	_, err := g.Wait(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestGate_WaitHonoursContext(t *testing.T) {
	g := NewGate[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := g.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStartBroker_LoadsConcurrently(t *testing.T) {
	release := make(chan struct{})
	b := StartBroker(context.Background(),
		func(ctx context.Context) (target.Table, error) {
			<-release
			return target.Table{"D1": {"T1"}}, nil
		},
		func(ctx context.Context) (*target.InfoTable, error) {
			return &target.InfoTable{Columns: []string{"CHEMBL"}, Records: map[string][][]string{}}, nil
		},
		logging.NewNopLogger(),
	)

	info, err := b.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"CHEMBL"}, info.Columns)
	assert.False(t, b.targets.Ready())

	close(release)
	require.NoError(t, b.Ready(context.Background()))
	tbl, _ := b.Targets(context.Background())
	assert.Equal(t, []string{"T1"}, tbl.Targets("D1"))
}

func TestStartBroker_LoadError(t *testing.T) {
	b := StartBroker(context.Background(),
		func(ctx context.Context) (target.Table, error) { return nil, assert.AnError },
		func(ctx context.Context) (*target.InfoTable, error) { return nil, nil },
		logging.NewNopLogger(),
	)
	err := b.Ready(context.Background())
	assert.True(t, errors.IsCode(err, errors.CodeLookupLoadFailed))

	info, err := b.Info(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, info)
}

//Personal.AI order the ending
