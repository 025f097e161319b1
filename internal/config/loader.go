package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const envPrefix = "QSTATUS"

func setDefaults(v *viper.Viper) {
	v.SetDefault("scheduler.qstat_path", "qstat")
	v.SetDefault("scheduler.qacct_path", "qacct")
	v.SetDefault("scheduler.qdel_path", "qdel")
	v.SetDefault("scheduler.query_timeout", "30s")

	v.SetDefault("hung.min_wait_minutes", 45)
	v.SetDefault("hung.max_cpu_ratio", 0.05)

	v.SetDefault("missing.wait_minutes", 10)

	v.SetDefault("markers.dir", defaultMarkerDir())

	v.SetDefault("logging.level", "warn")
}

// defaultMarkerDir returns a per-user directory on what is normally a
// cluster-shared filesystem ($HOME), falling back to the system temp dir.
func defaultMarkerDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "qstatus")
	}
	return filepath.Join(home, ".qstatus", "markers")
}

// Load builds the configuration. Precedence, lowest to highest: built-in
// defaults, the config file (the explicit path when given, otherwise
// <user config dir>/qstatus/config.yaml when present), QSTATUS_* env vars.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "qstatus"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Hung.MinWaitMinutes < 0 {
		return fmt.Errorf("hung.min_wait_minutes must be >= 0")
	}
	if cfg.Hung.MaxCPURatio < 0 || cfg.Hung.MaxCPURatio > 1 {
		return fmt.Errorf("hung.max_cpu_ratio must be within [0, 1]")
	}
	if cfg.Missing.WaitMinutes < 0 {
		return fmt.Errorf("missing.wait_minutes must be >= 0")
	}
	if strings.TrimSpace(cfg.Markers.Dir) == "" {
		return fmt.Errorf("markers.dir is required")
	}
	return nil
}
