// Package config defines the configuration of ftpred.  No I/O or parsing
// logic lives here, only plain data types and validation.
package config

import (
	"strings"
	"time"

	"github.com/turtacn/FastTargetPred/internal/domain/fingerprint"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// PredictionConfig holds the scoring parameters of a run.
type PredictionConfig struct {
	Fingerprints       []string      `mapstructure:"fingerprints"`
	TanimotoThresholds []float64     `mapstructure:"tanimoto_thresholds"`
	ZScoreThreshold    float64       `mapstructure:"zscore_threshold"`
	MaxTargets         int           `mapstructure:"max_targets"`
	Workers            int           `mapstructure:"workers"`
	KeepAllMatches     bool          `mapstructure:"keep_all_matches"`
	NoInfo             bool          `mapstructure:"no_info"`
	StarvationTimeout  time.Duration `mapstructure:"starvation_timeout"`
}

// DatabaseConfig locates the reference database and its lookup tables.
type DatabaseConfig struct {
	Path          string `mapstructure:"path"`
	InfoFile      string `mapstructure:"info_file"`
	InfoDelimiter string `mapstructure:"info_delimiter"`
	InfoIDColumn  string `mapstructure:"info_id_column"`
	Source        string `mapstructure:"source"` // "local" | "minio"
}

// OutputConfig selects where and how results are written.
type OutputConfig struct {
	Path         string `mapstructure:"path"` // empty means stdout
	Format       string `mapstructure:"format"`
	CSVDelimiter string `mapstructure:"csv_delimiter"`
}

// WorkspaceConfig holds scratch directories.
type WorkspaceConfig struct {
	QueryDir           string `mapstructure:"query_dir"`
	GeneratorOutputDir string `mapstructure:"generator_output_dir"`
	KeepTemp           bool   `mapstructure:"keep_temp"`
}

// ToolsConfig locates the fingerprint generator.
type ToolsConfig struct {
	PerlPath   string `mapstructure:"perl_path"`
	MayaBinDir string `mapstructure:"maya_bin_dir"`
}

// MinIOConfig holds object-storage parameters for database blobs.
type MinIOConfig struct {
	Endpoint       string        `mapstructure:"endpoint"`
	AccessKey      string        `mapstructure:"access_key"`
	SecretKey      string        `mapstructure:"secret_key"`
	Bucket         string        `mapstructure:"bucket"`
	Prefix         string        `mapstructure:"prefix"`
	Region         string        `mapstructure:"region"`
	UseSSL         bool          `mapstructure:"use_ssl"`
	CreateBucket   bool          `mapstructure:"create_bucket"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// RedisConfig holds the score cache parameters.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	TTL          time.Duration `mapstructure:"ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds result publishing parameters.
type KafkaConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Brokers       []string      `mapstructure:"brokers"`
	Topic         string        `mapstructure:"topic"`
	Acks          string        `mapstructure:"acks"`
	Compression   string        `mapstructure:"compression"`
	MaxRetries    int           `mapstructure:"max_retries"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	SASLEnabled   bool          `mapstructure:"sasl_enabled"`
	SASLMechanism string        `mapstructure:"sasl_mechanism"`
	SASLUsername  string        `mapstructure:"sasl_username"`
	SASLPassword  string        `mapstructure:"sasl_password"`
	TLSEnabled    bool          `mapstructure:"tls_enabled"`
	TLSCertPath   string        `mapstructure:"tls_cert_path"`
}

// MetricsConfig holds the Prometheus listener parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addr      string `mapstructure:"addr"`
	Namespace string `mapstructure:"namespace"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Prediction PredictionConfig `mapstructure:"prediction"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Output     OutputConfig     `mapstructure:"output"`
	Workspace  WorkspaceConfig  `mapstructure:"workspace"`
	Tools      ToolsConfig      `mapstructure:"tools"`
	MinIO      MinIOConfig      `mapstructure:"minio"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Log        LogConfig        `mapstructure:"log"`
}

// FingerprintSpecs resolves the configured fingerprint names.
func (c *Config) FingerprintSpecs() ([]fingerprint.Spec, error) {
	return fingerprint.Resolve(c.Prediction.Fingerprints)
}

// Thresholds returns one Tanimoto threshold per spec: the configured values
// when given, the per-type defaults otherwise.
func (c *Config) Thresholds(specs []fingerprint.Spec) []float64 {
	if len(c.Prediction.TanimotoThresholds) > 0 {
		return c.Prediction.TanimotoThresholds
	}
	out := make([]float64, len(specs))
	for i, s := range specs {
		out[i] = s.DefaultThreshold
	}
	return out
}

// InfoDelimiterRune returns the info file delimiter as a rune.
func (c *Config) InfoDelimiterRune() rune {
	return []rune(c.Database.InfoDelimiter)[0]
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

func invalid(format string, args ...interface{}) error {
	return errors.Newf(errors.CodeConfigInvalid, "config: "+format, args...)
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered.
func (c *Config) Validate() error {
	specs, err := c.FingerprintSpecs()
	if err != nil {
		return errors.Wrap(err, errors.CodeConfigInvalid, "config: prediction.fingerprints")
	}
	if n := len(c.Prediction.TanimotoThresholds); n > 0 && n != len(specs) {
		return invalid("%d tanimoto thresholds for %d fingerprints", n, len(specs))
	}
	for _, t := range c.Prediction.TanimotoThresholds {
		if t < 0 || t > 1 {
			return invalid("tanimoto threshold %g is outside [0, 1]", t)
		}
	}
	if c.Prediction.ZScoreThreshold < 0 {
		return invalid("prediction.zscore_threshold must be ≥ 0, got %g", c.Prediction.ZScoreThreshold)
	}
	if c.Prediction.MaxTargets < 1 {
		return invalid("prediction.max_targets must be ≥ 1, got %d", c.Prediction.MaxTargets)
	}
	if c.Prediction.Workers < 1 {
		return invalid("prediction.workers must be ≥ 1, got %d", c.Prediction.Workers)
	}
	if c.Prediction.StarvationTimeout <= 0 {
		return invalid("prediction.starvation_timeout must be positive")
	}

	if c.Database.Path == "" {
		return invalid("database.path is required")
	}
	if len([]rune(c.Database.InfoDelimiter)) != 1 {
		return invalid("database.info_delimiter must be a single character, got %q", c.Database.InfoDelimiter)
	}
	switch c.Database.Source {
	case "local":
	case "minio":
		if c.MinIO.Endpoint == "" {
			return invalid("minio.endpoint is required when database.source is minio")
		}
	default:
		return invalid("database.source %q is invalid; expected local|minio", c.Database.Source)
	}

	switch strings.ToLower(c.Output.Format) {
	case "txt", "csv":
	default:
		return invalid("output.format %q is invalid; expected txt|csv", c.Output.Format)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return invalid("redis.addr is required when the score cache is enabled")
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return invalid("kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.Topic == "" {
			return invalid("kafka.topic is required")
		}
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return invalid("metrics.addr is required when metrics are enabled")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return invalid("log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

//Personal.AI order the ending
