package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultFingerprint       = "ECFP4"
	DefaultZScoreThreshold   = 0.8
	DefaultMaxTargets        = 100
	DefaultWorkers           = 4
	DefaultStarvationTimeout = 60 * time.Second

	DefaultDatabasePath  = "db/chembl25_active"
	DefaultInfoFile      = "db/uniprot_database_ChEMBL.csv"
	DefaultInfoDelimiter = "\t"
	DefaultInfoIDColumn  = "CHEMBL"
	DefaultSource        = "local"

	DefaultOutputFormat = "txt"
	DefaultCSVDelimiter = "\t"

	DefaultQueryDir           = "temp/binary_fingerprints"
	DefaultGeneratorOutputDir = "out"
	DefaultPerlPath           = "/usr/bin/perl"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "ftpred-databases"

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisTTL       = 24 * time.Hour
	DefaultRedisKeyPrefix = "ftpred:"

	DefaultKafkaBroker = "localhost:9092"
	DefaultKafkaTopic  = "ftpred.predictions"

	DefaultMetricsAddr      = ":9090"
	DefaultMetricsNamespace = "ftpred"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// ApplyDefaults fills every zero-value field in cfg with its default.
// Explicitly set fields are left unchanged.  Booleans default to false and
// are never touched.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Prediction ────────────────────────────────────────────────────────────
	if len(cfg.Prediction.Fingerprints) == 0 {
		cfg.Prediction.Fingerprints = []string{DefaultFingerprint}
	}
	if cfg.Prediction.ZScoreThreshold == 0 {
		cfg.Prediction.ZScoreThreshold = DefaultZScoreThreshold
	}
	if cfg.Prediction.MaxTargets == 0 {
		cfg.Prediction.MaxTargets = DefaultMaxTargets
	}
	if cfg.Prediction.Workers == 0 {
		cfg.Prediction.Workers = DefaultWorkers
	}
	if cfg.Prediction.StarvationTimeout == 0 {
		cfg.Prediction.StarvationTimeout = DefaultStarvationTimeout
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath
	}
	if cfg.Database.InfoFile == "" {
		cfg.Database.InfoFile = DefaultInfoFile
	}
	if cfg.Database.InfoDelimiter == "" {
		cfg.Database.InfoDelimiter = DefaultInfoDelimiter
	}
	if cfg.Database.InfoIDColumn == "" {
		cfg.Database.InfoIDColumn = DefaultInfoIDColumn
	}
	if cfg.Database.Source == "" {
		cfg.Database.Source = DefaultSource
	}

	// ── Output ────────────────────────────────────────────────────────────────
	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultOutputFormat
	}
	if cfg.Output.CSVDelimiter == "" {
		cfg.Output.CSVDelimiter = DefaultCSVDelimiter
	}

	// ── Workspace / tools ─────────────────────────────────────────────────────
	if cfg.Workspace.QueryDir == "" {
		cfg.Workspace.QueryDir = DefaultQueryDir
	}
	if cfg.Workspace.GeneratorOutputDir == "" {
		cfg.Workspace.GeneratorOutputDir = DefaultGeneratorOutputDir
	}
	if cfg.Tools.PerlPath == "" {
		cfg.Tools.PerlPath = DefaultPerlPath
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = DefaultRedisTTL
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = DefaultMetricsAddr
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// NewDefaultConfig returns a Config holding only defaults.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending
