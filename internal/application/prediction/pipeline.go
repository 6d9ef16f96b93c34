package prediction

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/FastTargetPred/internal/domain/fingerprint"
	"github.com/turtacn/FastTargetPred/internal/domain/similarity"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// Options configures a run.
type Options struct {
	// Encoder.Dir is the base query directory; each run writes into its own
	// sub-directory named after the run id.
	Encoder EncoderConfig
	Sink    SinkConfig

	Workers  int
	KeepAll  bool
	KeepTemp bool

	// ProgressOut receives the progress bar; nil disables it.
	ProgressOut io.Writer
}

// Dependencies are the collaborators of a run.
type Dependencies struct {
	Source    fingerprint.BlobSource
	Scorer    similarity.Scorer
	Broker    *Broker
	Dest      *Destination
	Publisher Publisher
	Logger    logging.Logger
	Metrics   *prometheus.PredictionMetrics

	// OpenDest is called once startup has succeeded when Dest is nil.  The
	// pipeline closes the destination it opens.
	OpenDest func() (*Destination, error)
}

// Summary describes a finished run.
type Summary struct {
	RunID     string
	Molecules int
	Written   int
	Failed    int
	Ticks     int
	Starved   bool
	Duration  time.Duration
}

// Pipeline coordinates encoding, scoring and output of one run.
type Pipeline struct {
	opts Options
	deps Dependencies
}

// NewPipeline creates a Pipeline.
func NewPipeline(deps Dependencies, opts Options) *Pipeline {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}
	return &Pipeline{opts: opts, deps: deps}
}

// Run scores every molecule of merged.  Startup failures (databases, lookup
// tables, query files) abort before any output.  Failures of individual
// molecules are reported in the output and counted in the summary.  A
// starved consumer ends the run early with Summary.Starved set.
func (p *Pipeline) Run(ctx context.Context, merged *Merged) (*Summary, error) {
	start := time.Now()
	runID := p.opts.Sink.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := p.deps.Logger.With(logging.String("run_id", runID))

	if merged.Len() == 0 {
		return nil, errors.New(errors.CodeNoMolecules, "no molecules to score")
	}

	encCfg := p.opts.Encoder
	encCfg.Dir = filepath.Join(encCfg.Dir, runID)
	encoder := NewEncoder(encCfg, p.deps.Source, logger, p.deps.Metrics)
	if !p.opts.KeepTemp {
		defer func() {
			if err := os.RemoveAll(encCfg.Dir); err != nil {
				logger.Warn("remove query directory", logging.String("dir", encCfg.Dir), logging.Err(err))
			}
		}()
	}

	args := encoder.Args(nil)
	var queries []Query
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dbs, err := encoder.LoadDatabases(gctx)
		args.Databases = dbs
		return err
	})
	g.Go(func() error {
		var err error
		queries, err = encoder.Encode(gctx, merged, args)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := p.deps.Broker.Ready(ctx); err != nil {
		return nil, err
	}
	info, _ := p.deps.Broker.Info(ctx)

	dest := p.deps.Dest
	if dest == nil {
		if p.deps.OpenDest == nil {
			return nil, errors.New(errors.CodeOutputUnavailable, "no output destination")
		}
		opened, err := p.deps.OpenDest()
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := opened.Close(); err != nil {
				logger.Warn("close output", logging.Err(err))
			}
		}()
		dest = opened
	}
	logging.LogStageDuration(logger, "prepare", start)

	total := len(queries)
	progress := make(chan Signal, total)
	results := make(chan ResultMessage, total)

	consumerCtx, stopConsumers := context.WithCancel(ctx)
	defer stopConsumers()

	type trackerResult struct {
		ticks int
		err   error
	}
	trackerDone := make(chan trackerResult, 1)
	if p.opts.ProgressOut != nil {
		tracker := NewProgressTracker(p.opts.ProgressOut, total, p.opts.Sink.Timeout, logger)
		go func() {
			n, err := tracker.Run(consumerCtx, progress)
			_, _ = io.WriteString(p.opts.ProgressOut, "\n")
			trackerDone <- trackerResult{n, err}
		}()
	} else {
		trackerDone <- trackerResult{}
	}

	type sinkResult struct {
		stats SinkStats
		err   error
	}
	sinkCfg := p.opts.Sink
	sinkCfg.RunID = runID
	sink := NewSink(sinkCfg, dest, info, total, p.deps.Publisher, logger.Named("sink"), p.deps.Metrics)
	sinkDone := make(chan sinkResult, 1)
	go func() {
		stats, err := sink.Run(consumerCtx, results)
		sinkDone <- sinkResult{stats, err}
	}()

	chunks := Partition(queries, p.opts.Workers)
	logger.Info("scoring started",
		logging.Int("molecules", total),
		logging.Int("workers", len(chunks)),
		logging.Bool("consensus", args.Consensus))

	wg, wctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		w := NewWorker(i, p.deps.Scorer, p.deps.Broker, p.opts.KeepAll, logger.Named("worker"), p.deps.Metrics)
		chunk := chunk
		wg.Go(func() error { return w.Run(wctx, chunk, progress, results) })
	}
	workerErr := wg.Wait()
	if workerErr != nil {
		stopConsumers()
	}

	tr := <-trackerDone
	sr := <-sinkDone

	summary := &Summary{
		RunID:     runID,
		Molecules: total,
		Written:   sr.stats.Written,
		Failed:    sr.stats.Failed,
		Ticks:     tr.ticks,
		Duration:  time.Since(start),
	}
	if workerErr != nil {
		return summary, workerErr
	}
	for _, err := range []error{sr.err, tr.err} {
		switch {
		case err == nil:
		case errors.Is(err, ErrStarved):
			summary.Starved = true
		default:
			return summary, err
		}
	}

	p.deps.Metrics.RecordStage("run", summary.Duration)
	logger.Info("run finished",
		logging.Int("written", summary.Written),
		logging.Int("failed", summary.Failed),
		logging.Bool("starved", summary.Starved),
		logging.Duration("took", summary.Duration))
	return summary, nil
}

//Personal.AI order the ending
