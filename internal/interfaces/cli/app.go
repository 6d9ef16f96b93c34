package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"

	"github.com/turtacn/FastTargetPred/internal/application/prediction"
	"github.com/turtacn/FastTargetPred/internal/config"
	"github.com/turtacn/FastTargetPred/internal/domain/fingerprint"
	"github.com/turtacn/FastTargetPred/internal/domain/similarity"
	"github.com/turtacn/FastTargetPred/internal/domain/target"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/database/redis"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/storage/local"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/storage/minio"
	"github.com/turtacn/FastTargetPred/internal/intelligence/tanimoto"
)

// app holds the collaborators built from the configuration.  close releases
// them in reverse order.
type app struct {
	cfg     *config.Config
	logger  logging.Logger
	metrics *prometheus.PredictionMetrics
	closers []func() error
}

func newApp(cfg *config.Config, logger logging.Logger) *app {
	return &app{cfg: cfg, logger: logger}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("release resource", logging.Err(err))
		}
	}
}

// startMetrics registers the prediction metrics and serves them until ctx is
// done.  Disabled metrics leave a.metrics nil.
func (a *app) startMetrics(ctx context.Context) error {
	if !a.cfg.Metrics.Enabled {
		return nil
	}
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            a.cfg.Metrics.Namespace,
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, a.logger)
	if err != nil {
		return err
	}
	a.metrics = prometheus.NewPredictionMetrics(collector)
	go func() {
		if err := prometheus.Serve(ctx, a.cfg.Metrics.Addr, collector, a.logger); err != nil {
			a.logger.Warn("metrics listener stopped", logging.Err(err))
		}
	}()
	return nil
}

// blobStore returns the configured database blob store.
func (a *app) blobStore() (fingerprint.BlobStore, error) {
	if a.cfg.Database.Source != "minio" {
		return local.NewStore(""), nil
	}
	mc := a.cfg.MinIO
	client, err := minio.NewMinIOClient(&minio.MinIOConfig{
		Endpoint:        mc.Endpoint,
		AccessKeyID:     mc.AccessKey,
		SecretAccessKey: mc.SecretKey,
		UseSSL:          mc.UseSSL,
		Region:          mc.Region,
		Bucket:          mc.Bucket,
		Prefix:          mc.Prefix,
		ConnectTimeout:  mc.ConnectTimeout,
		CreateBucket:    mc.CreateBucket,
	}, a.logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	return client, nil
}

// scorer returns the Tanimoto scorer, behind the Redis cache when enabled.
func (a *app) scorer() (similarity.Scorer, error) {
	var s similarity.Scorer = tanimoto.NewScorer()
	if !a.cfg.Redis.Enabled {
		return s, nil
	}
	rc := a.cfg.Redis
	client, err := redis.NewClient(&redis.RedisConfig{
		Addr:         rc.Addr,
		Password:     rc.Password,
		DB:           rc.DB,
		PoolSize:     rc.PoolSize,
		DialTimeout:  rc.DialTimeout,
		ReadTimeout:  rc.ReadTimeout,
		WriteTimeout: rc.WriteTimeout,
	}, a.logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	cache := redis.NewRedisCache(client, a.logger, redis.WithPrefix(rc.KeyPrefix), redis.WithDefaultTTL(rc.TTL))
	return redis.NewCachingScorer(s, cache, rc.TTL, a.logger, a.metrics), nil
}

// publisher returns the Kafka publisher, or nil when disabled.
func (a *app) publisher() (prediction.Publisher, error) {
	if !a.cfg.Kafka.Enabled {
		return nil, nil
	}
	kc := a.cfg.Kafka
	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:          kc.Brokers,
		Topic:            kc.Topic,
		Acks:             kc.Acks,
		MaxRetries:       kc.MaxRetries,
		CompressionCodec: kc.Compression,
		WriteTimeout:     kc.WriteTimeout,
		SASLEnabled:      kc.SASLEnabled,
		SASLMechanism:    kc.SASLMechanism,
		SASLUsername:     kc.SASLUsername,
		SASLPassword:     kc.SASLPassword,
		TLSEnabled:       kc.TLSEnabled,
		TLSCertPath:      kc.TLSCertPath,
	}, a.logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, producer.Close)
	return kafka.NewPredictionPublisher(producer, kc.Topic), nil
}

// startBroker begins loading both lookup tables in the background.
func (a *app) startBroker(ctx context.Context) *prediction.Broker {
	db := a.cfg.Database
	infoOpts := target.InfoOptions{
		Delimiter: a.cfg.InfoDelimiterRune(),
		IDColumn:  db.InfoIDColumn,
	}
	if a.cfg.Prediction.NoInfo {
		infoOpts.Keep = target.CompactColumns(db.InfoIDColumn)
	}
	return prediction.StartBroker(ctx,
		func(context.Context) (target.Table, error) { return target.LoadTable(target.LookupPath(db.Path)) },
		func(context.Context) (*target.InfoTable, error) { return target.LoadInfo(db.InfoFile, infoOpts) },
		a.logger)
}

// destination returns the stdout destination, or an opener for the
// configured file.  The pipeline only opens the file once startup has
// succeeded; callers validate the path before any work.
func (a *app) destination(stdout io.Writer) (*prediction.Destination, func() (*prediction.Destination, error)) {
	path := a.cfg.Output.Path
	if path == "" {
		return prediction.StdoutDestination(stdout), nil
	}
	return nil, func() (*prediction.Destination, error) { return prediction.OpenFileDestination(path) }
}

// predict scores merged against the database and writes the results to
// stdout or the configured file.
func (a *app) predict(ctx context.Context, specs []fingerprint.Spec, thresholds []float64, merged *prediction.Merged, stdout, stderr io.Writer) (*prediction.Summary, error) {
	format, err := prediction.ParseFormat(a.cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	dest, openDest := a.destination(stdout)
	toFile := openDest != nil
	if err := a.startMetrics(ctx); err != nil {
		return nil, err
	}
	broker := a.startBroker(ctx)
	source, err := a.blobStore()
	if err != nil {
		return nil, err
	}
	scorer, err := a.scorer()
	if err != nil {
		return nil, err
	}
	publisher, err := a.publisher()
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	opts := prediction.Options{
		Encoder: prediction.EncoderConfig{
			Dir:                a.cfg.Workspace.QueryDir,
			DatabasePrefix:     a.cfg.Database.Path,
			Specs:              specs,
			Thresholds:         thresholds,
			ConsensusThreshold: a.cfg.Prediction.ZScoreThreshold,
		},
		Sink: prediction.SinkConfig{
			Format:       format,
			CSVDelimiter: a.cfg.Output.CSVDelimiter,
			MaxTargets:   a.cfg.Prediction.MaxTargets,
			Timeout:      a.cfg.Prediction.StarvationTimeout,
			RunID:        runID,
		},
		Workers:  a.cfg.Prediction.Workers,
		KeepAll:  a.cfg.Prediction.KeepAllMatches,
		KeepTemp: a.cfg.Workspace.KeepTemp,
	}
	if toFile {
		opts.ProgressOut = stdout
	}

	p := prediction.NewPipeline(prediction.Dependencies{
		Source:    source,
		Scorer:    scorer,
		Broker:    broker,
		Dest:      dest,
		OpenDest:  openDest,
		Publisher: publisher,
		Logger:    a.logger,
		Metrics:   a.metrics,
	}, opts)
	summary, err := p.Run(ctx, merged)
	if err != nil {
		return summary, err
	}
	if summary.Starved {
		PrintWarning(stderr, "a worker stopped reporting, results may be incomplete")
	}
	if toFile {
		printSummary(stderr, summary, a.cfg.Output.Path)
	}
	return summary, nil
}

// printSummary renders the run summary as a table.
func printSummary(w io.Writer, s *prediction.Summary, output string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Run", "Molecules", "Written", "Failed", "Duration", "Output"})
	table.SetBorder(false)
	table.Append([]string{
		s.RunID,
		strconv.Itoa(s.Molecules),
		strconv.Itoa(s.Written),
		strconv.Itoa(s.Failed),
		s.Duration.Round(1e6).String(),
		output,
	})
	table.Render()
	if s.Failed > 0 {
		PrintWarning(w, fmt.Sprintf("%d molecule(s) could not be scored", s.Failed))
	}
}

//Personal.AI order the ending
