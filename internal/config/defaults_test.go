package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, []string{"ECFP4"}, cfg.Prediction.Fingerprints)
	assert.Nil(t, cfg.Prediction.TanimotoThresholds)
	assert.Equal(t, 0.8, cfg.Prediction.ZScoreThreshold)
	assert.Equal(t, 100, cfg.Prediction.MaxTargets)
	assert.Equal(t, 4, cfg.Prediction.Workers)
	assert.Equal(t, 60*time.Second, cfg.Prediction.StarvationTimeout)
	assert.False(t, cfg.Prediction.NoInfo)
	assert.Equal(t, "db/chembl25_active", cfg.Database.Path)
	assert.Equal(t, "\t", cfg.Database.InfoDelimiter)
	assert.Equal(t, "CHEMBL", cfg.Database.InfoIDColumn)
	assert.Equal(t, "local", cfg.Database.Source)
	assert.Equal(t, "txt", cfg.Output.Format)
	assert.Empty(t, cfg.Output.Path)
	assert.Equal(t, "temp/binary_fingerprints", cfg.Workspace.QueryDir)
	assert.Equal(t, "out", cfg.Workspace.GeneratorOutputDir)
	assert.Equal(t, "/usr/bin/perl", cfg.Tools.PerlPath)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, "ftpred.predictions", cfg.Kafka.Topic)
	assert.Equal(t, "ftpred", cfg.Metrics.Namespace)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Prediction.Workers = 16
	cfg.Output.Format = "csv"
	ApplyDefaults(cfg)

	assert.Equal(t, 16, cfg.Prediction.Workers)
	assert.Equal(t, "csv", cfg.Output.Format)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

//Personal.AI order the ending
