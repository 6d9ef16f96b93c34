package prediction

import (
	"context"
	"sync"
	"time"

	"github.com/turtacn/FastTargetPred/internal/domain/target"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// Gate publishes a single value, or a failure, to any number of readers.
// Readers block until the gate is released; after that the value is frozen.
type Gate[T any] struct {
	once sync.Once
	done chan struct{}
	val  T
	err  error
}

// NewGate returns an unreleased gate.
func NewGate[T any]() *Gate[T] {
	return &Gate[T]{done: make(chan struct{})}
}

// Publish releases the gate with v.  Only the first Publish or Fail has an
// effect; it reports whether this call released the gate.
func (g *Gate[T]) Publish(v T) bool {
	return g.release(v, nil)
}

// Fail releases the gate with err.
func (g *Gate[T]) Fail(err error) bool {
	var zero T
	return g.release(zero, err)
}

func (g *Gate[T]) release(v T, err error) bool {
	released := false
	g.once.Do(func() {
		g.val, g.err = v, err
		close(g.done)
		released = true
	})
	return released
}

// Ready reports whether the gate has been released.
func (g *Gate[T]) Ready() bool {
	select {
	case <-g.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the gate is released or ctx is done.
func (g *Gate[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-g.done:
		return g.val, g.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// TableLoader loads the database-to-targets table.
type TableLoader func(ctx context.Context) (target.Table, error)

// InfoLoader loads the target info table.
type InfoLoader func(ctx context.Context) (*target.InfoTable, error)

// Broker shares the lookup tables between the coordinator and the workers.
// Both tables load in the background from the moment the broker starts.
type Broker struct {
	targets *Gate[target.Table]
	info    *Gate[*target.InfoTable]
}

// StartBroker launches both loaders and returns immediately.
func StartBroker(ctx context.Context, loadTargets TableLoader, loadInfo InfoLoader, logger logging.Logger) *Broker {
	b := &Broker{
		targets: NewGate[target.Table](),
		info:    NewGate[*target.InfoTable](),
	}

	go func() {
		start := time.Now()
		t, err := loadTargets(ctx)
		if err != nil {
			b.targets.Fail(errors.Wrap(err, errors.CodeLookupLoadFailed, "load target lookup"))
			return
		}
		b.targets.Publish(t)
		logger.Debug("target lookup loaded", logging.Int("entries", len(t)), logging.Duration("took", time.Since(start)))
	}()

	go func() {
		start := time.Now()
		info, err := loadInfo(ctx)
		if err != nil {
			b.info.Fail(errors.Wrap(err, errors.CodeLookupLoadFailed, "load target info"))
			return
		}
		if info == nil {
			info = &target.InfoTable{Records: map[string][][]string{}}
		}
		b.info.Publish(info)
		logger.Debug("target info loaded", logging.Int("targets", len(info.Records)), logging.Duration("took", time.Since(start)))
	}()

	return b
}

// NewStaticBroker returns a broker whose tables are already available.
func NewStaticBroker(t target.Table, info *target.InfoTable) *Broker {
	b := &Broker{targets: NewGate[target.Table](), info: NewGate[*target.InfoTable]()}
	b.targets.Publish(t)
	b.info.Publish(info)
	return b
}

// Targets waits for the target table.
func (b *Broker) Targets(ctx context.Context) (target.Table, error) {
	return b.targets.Wait(ctx)
}

// Info waits for the info table.
func (b *Broker) Info(ctx context.Context) (*target.InfoTable, error) {
	return b.info.Wait(ctx)
}

// Ready waits for both tables and returns the first load error.
func (b *Broker) Ready(ctx context.Context) error {
	if _, err := b.Targets(ctx); err != nil {
		return err
	}
	_, err := b.Info(ctx)
	return err
}

//Personal.AI order the ending
