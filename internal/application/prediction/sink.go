package prediction

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/turtacn/FastTargetPred/internal/domain/target"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// Publisher receives every prediction in addition to the output sink.
type Publisher interface {
	Publish(ctx context.Context, p *target.Prediction) error
}

// Destination is where rendered results are written.
type Destination struct {
	io.Writer
	closer io.Closer
	// ToFile is false for stdout.  Stdout blocks are followed by a blank line.
	ToFile bool
}

// Close closes the underlying file, if any.
func (d *Destination) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// StdoutDestination writes to w as the terminal stream.
func StdoutDestination(w io.Writer) *Destination {
	return &Destination{Writer: w}
}

// ValidateOutputPath checks that path does not exist yet and that its
// directory does.
func ValidateOutputPath(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.New(errors.CodeOutputUnavailable, "output file already exists").WithDetail(path)
	}
	dir := filepath.Dir(path)
	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		return errors.New(errors.CodeOutputUnavailable, "output directory does not exist").WithDetail(dir)
	}
	return nil
}

// OpenFileDestination creates path in append mode.  The file must not exist.
func OpenFileDestination(path string) (*Destination, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_APPEND|os.O_WRONLY, 0o644)
	if os.IsExist(err) {
		return nil, errors.New(errors.CodeOutputUnavailable, "output file already exists").WithDetail(path)
	}
	if err != nil {
		return nil, errors.New(errors.CodeOutputUnavailable, "open output file").WithDetail(path).WithCause(err)
	}
	return &Destination{Writer: f, closer: f, ToFile: true}, nil
}

// SinkConfig controls rendering.
type SinkConfig struct {
	Format       Format
	CSVDelimiter string
	MaxTargets   int
	Timeout      time.Duration
	RunID        string
}

// Sink renders result messages as they arrive.
type Sink struct {
	cfg       SinkConfig
	dest      *Destination
	info      *target.InfoTable
	total     int
	publisher Publisher
	logger    logging.Logger
	metrics   *prometheus.PredictionMetrics
	render    formatter
}

// NewSink creates a sink expecting total messages.  publisher and metrics
// may be nil.
func NewSink(cfg SinkConfig, dest *Destination, info *target.InfoTable, total int, publisher Publisher, logger logging.Logger, metrics *prometheus.PredictionMetrics) *Sink {
	if cfg.CSVDelimiter == "" {
		cfg.CSVDelimiter = DefaultCSVDelimiter
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultStarvationTimeout
	}
	render, ok := formatters[cfg.Format]
	if !ok {
		render = formatText
	}
	return &Sink{
		cfg:       cfg,
		dest:      dest,
		info:      info,
		total:     total,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		render:    render,
	}
}

// SinkStats summarises a sink run.
type SinkStats struct {
	Written int
	Failed  int
}

// Run consumes messages until total have been written, the wait for one
// exceeds the starvation timeout, or ctx is done.
func (s *Sink) Run(ctx context.Context, results <-chan ResultMessage) (SinkStats, error) {
	var stats SinkStats
	rc := &renderContext{
		info:       s.info,
		delimiter:  s.cfg.CSVDelimiter,
		maxTargets: s.cfg.MaxTargets,
		header:     true,
	}

	timer := time.NewTimer(s.cfg.Timeout)
	defer timer.Stop()

	for stats.Written < s.total {
		var msg ResultMessage
		select {
		case msg = <-results:
		case <-timer.C:
			s.logger.Warn("result stream starved, output may be incomplete",
				logging.Int("written", stats.Written), logging.Int("expected", s.total))
			return stats, ErrStarved
		case <-ctx.Done():
			return stats, ctx.Err()
		}
		resetTimer(timer, s.cfg.Timeout)

		block := s.render(rc, msg)
		rc.header = false
		if !s.dest.ToFile {
			block += "\n"
		}
		if _, err := io.WriteString(s.dest, block); err != nil {
			return stats, errors.Wrap(err, errors.CodeOutputFailed, "write results")
		}
		stats.Written++
		if msg.Err != nil {
			stats.Failed++
		}
		s.publish(ctx, msg)
	}
	return stats, nil
}

func (s *Sink) publish(ctx context.Context, msg ResultMessage) {
	if s.publisher == nil {
		return
	}
	p := &target.Prediction{
		RunID:     s.cfg.RunID,
		Molecule:  msg.Molecule,
		Rows:      rankRows(msg.Best, s.cfg.MaxTargets),
		CreatedAt: time.Now().UTC(),
	}
	if msg.Err != nil {
		p.Error = msg.Err.Error()
		p.Rows = nil
	}
	err := s.publisher.Publish(ctx, p)
	s.metrics.RecordPublish(err)
	if err != nil {
		s.logger.Warn("publish prediction failed", logging.String("molecule", msg.Molecule), logging.Err(err))
	}
}

//Personal.AI order the ending
