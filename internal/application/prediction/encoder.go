package prediction

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/FastTargetPred/internal/domain/fingerprint"
	"github.com/turtacn/FastTargetPred/internal/domain/similarity"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// ScoreArgs are the scorer arguments shared by every query of a run.
type ScoreArgs struct {
	Databases          [][]byte
	Thresholds         []float64
	ConsensusThreshold float64
	Consensus          bool
}

// Request builds the scorer request of one query file.
func (a *ScoreArgs) Request(queryPath string) *similarity.Request {
	return &similarity.Request{
		QueryPath:          queryPath,
		Databases:          a.Databases,
		Thresholds:         a.Thresholds,
		ConsensusThreshold: a.ConsensusThreshold,
		Consensus:          a.Consensus,
	}
}

// Mode labels the scoring mode for metrics.
func (a *ScoreArgs) Mode() string {
	if a.Consensus {
		return "consensus"
	}
	return "single"
}

// Query is one encoded molecule ready for scoring.
type Query struct {
	Molecule string
	Path     string
	Args     *ScoreArgs
}

// EncoderConfig describes where queries go and how they are scored.
type EncoderConfig struct {
	Dir                string
	DatabasePrefix     string
	Specs              []fingerprint.Spec
	Thresholds         []float64
	ConsensusThreshold float64
}

// Encoder writes query files and loads the database blobs they are scored
// against.
type Encoder struct {
	cfg     EncoderConfig
	source  fingerprint.BlobSource
	logger  logging.Logger
	metrics *prometheus.PredictionMetrics
}

// NewEncoder creates an Encoder.  metrics may be nil.
func NewEncoder(cfg EncoderConfig, source fingerprint.BlobSource, logger logging.Logger, metrics *prometheus.PredictionMetrics) *Encoder {
	return &Encoder{cfg: cfg, source: source, logger: logger, metrics: metrics}
}

// LoadDatabases fetches one blob per fingerprint type concurrently.
func (e *Encoder) LoadDatabases(ctx context.Context) ([][]byte, error) {
	start := time.Now()
	blobs := make([][]byte, len(e.cfg.Specs))
	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range e.cfg.Specs {
		i, spec := i, spec
		g.Go(func() error {
			name := fingerprint.DatabaseObjectName(e.cfg.DatabasePrefix, spec.Type)
			b, err := e.source.Fetch(gctx, name)
			if err != nil {
				return errors.Wrapf(err, errors.CodeBlobSourceFailed, "load %s database", spec.Type)
			}
			e.metrics.RecordBlob(string(spec.Type), len(b))
			e.logger.Debug("database blob loaded",
				logging.String("fingerprint", string(spec.Type)),
				logging.String("object", name),
				logging.Int("bytes", len(b)))
			blobs[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	e.metrics.RecordStage("load_databases", time.Since(start))
	return blobs, nil
}

// Args assembles the shared scorer arguments.
func (e *Encoder) Args(databases [][]byte) *ScoreArgs {
	return &ScoreArgs{
		Databases:          databases,
		Thresholds:         e.cfg.Thresholds,
		ConsensusThreshold: e.cfg.ConsensusThreshold,
		Consensus:          fingerprint.IsConsensus(e.cfg.Specs),
	}
}

// Encode writes one query file per molecule into the query directory and
// returns the queries in molecule order.  Every file is complete before it
// is returned.
func (e *Encoder) Encode(ctx context.Context, merged *Merged, args *ScoreArgs) ([]Query, error) {
	start := time.Now()
	if err := os.MkdirAll(e.cfg.Dir, 0o755); err != nil {
		return nil, errors.New(errors.CodeQueryEncodingFailed, "create query directory").
			WithDetail(e.cfg.Dir).WithCause(err)
	}

	queries := make([]Query, 0, merged.Len())
	for _, name := range merged.Order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(e.cfg.Dir, name+fingerprint.QueryExt)
		if err := fingerprint.WriteQueryFile(path, merged.Fragments[name]); err != nil {
			return nil, err
		}
		queries = append(queries, Query{Molecule: name, Path: path, Args: args})
	}

	e.metrics.RecordStage("encode", time.Since(start))
	e.logger.Info("query files written",
		logging.Int("molecules", len(queries)),
		logging.String("dir", e.cfg.Dir))
	return queries, nil
}

//Personal.AI order the ending
