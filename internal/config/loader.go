package config

import (
	"reflect"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "FTPRED"

// newViper builds a Viper instance with YAML file type, FTPRED_ env prefix
// and a key replacer that maps "." → "_" so that nested keys like
// "database.path" resolve to "FTPRED_DATABASE_PATH".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnvs(v, reflect.TypeOf(Config{}), "")
	return v
}

// bindEnvs registers every mapstructure key so that Unmarshal sees
// environment overrides even when no config file mentions the key.
func bindEnvs(v *viper.Viper, t reflect.Type, prefix string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		if f.Type.Kind() == reflect.Struct && f.Type.PkgPath() == t.PkgPath() {
			bindEnvs(v, f.Type, key)
			continue
		}
		_ = v.BindEnv(key)
	}
}

// Load reads the YAML file at configPath, merges FTPRED_* environment
// overrides, applies defaults for unset fields and validates the result.
func Load(configPath string) (*Config, error) {
	return LoadWithFlags(configPath, nil, nil)
}

// LoadFromEnv builds a Config from FTPRED_* environment variables only.
//
//	FTPRED_<SECTION>_<FIELD>   e.g.  FTPRED_PREDICTION_WORKERS, FTPRED_REDIS_ADDR
func LoadFromEnv() (*Config, error) {
	return LoadWithFlags("", nil, nil)
}

// LoadWithFlags is Load with command-line overrides.  keys maps flag names
// to config keys; only flags set on the command line are applied, and they
// win over the file and the environment.  An empty configPath skips the
// file.
func LoadWithFlags(configPath string, flags *pflag.FlagSet, keys map[string]string) (*Config, error) {
	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, errors.CodeConfigInvalid, "config: failed to read config file %q", configPath)
		}
	}
	if flags != nil {
		var bindErr error
		flags.Visit(func(f *pflag.Flag) {
			key, ok := keys[f.Name]
			if !ok || bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(key, f)
		})
		if bindErr != nil {
			return nil, errors.Wrap(bindErr, errors.CodeConfigInvalid, "config: failed to bind flags")
		}
	}
	return unmarshalAndFinalize(v)
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigInvalid, "config: failed to unmarshal configuration")
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

//Personal.AI order the ending
