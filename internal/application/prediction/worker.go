package prediction

import (
	"context"
	"time"

	"github.com/turtacn/FastTargetPred/internal/domain/similarity"
	"github.com/turtacn/FastTargetPred/internal/domain/target"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// Signal is one progress tick.
type Signal struct{}

// ResultMessage carries the outcome of one molecule to the sink.  Err is set
// when its scoring failed; Best is then empty.
type ResultMessage struct {
	Molecule string
	Best     *target.PerTargetBest
	Err      error
}

// Worker scores a chunk of queries sequentially.
type Worker struct {
	id      int
	scorer  similarity.Scorer
	broker  *Broker
	keepAll bool
	logger  logging.Logger
	metrics *prometheus.PredictionMetrics

	hits []target.Hit
}

// NewWorker creates a worker.  metrics may be nil.
func NewWorker(id int, scorer similarity.Scorer, broker *Broker, keepAll bool, logger logging.Logger, metrics *prometheus.PredictionMetrics) *Worker {
	return &Worker{
		id:      id,
		scorer:  scorer,
		broker:  broker,
		keepAll: keepAll,
		logger:  logger.With(logging.Int("worker", id)),
		metrics: metrics,
	}
}

// Run processes chunk in order.  For every molecule it emits exactly one
// progress signal and one result, also when that molecule fails.  It stops
// early only when ctx is cancelled.
func (w *Worker) Run(ctx context.Context, chunk []Query, progress chan<- Signal, results chan<- ResultMessage) error {
	w.metrics.WorkerStarted()
	defer w.metrics.WorkerStopped()

	if !w.broker.targets.Ready() {
		w.logger.Debug("waiting for target lookup")
	}
	table, err := w.broker.Targets(ctx)
	if err != nil {
		return err
	}

	for _, q := range chunk {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := w.process(ctx, q, table)
		if msg.Err != nil && ctx.Err() != nil {
			return ctx.Err()
		}

		select {
		case progress <- Signal{}:
		case <-ctx.Done():
			return ctx.Err()
		}
		select {
		case results <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (w *Worker) process(ctx context.Context, q Query, table target.Table) ResultMessage {
	start := time.Now()
	entries, err := w.scorer.Score(ctx, q.Args.Request(q.Path))
	if err != nil {
		err = errors.Wrapf(err, errors.CodeScoringFailed, "score %s", q.Molecule)
		w.metrics.RecordMolecule(q.Args.Mode(), time.Since(start), 0, 0, err)
		w.logger.Error("scoring failed", logging.String("molecule", q.Molecule), logging.Err(err))
		return ResultMessage{Molecule: q.Molecule, Best: target.NewPerTargetBest(), Err: err}
	}

	w.hits = w.hits[:0]
	for _, e := range entries {
		w.hits = append(w.hits, target.Hit{
			DatabaseID: e.ID,
			Targets:    table.Targets(e.ID),
			Score:      e.Score(),
		})
	}
	best := target.Reduce(w.hits, w.keepAll)

	w.metrics.RecordMolecule(q.Args.Mode(), time.Since(start), len(entries), best.Len(), nil)
	w.logger.Debug("molecule scored",
		logging.String("molecule", q.Molecule),
		logging.Int("hits", len(entries)),
		logging.Int("targets", best.Len()))
	return ResultMessage{Molecule: q.Molecule, Best: best}
}

//Personal.AI order the ending
