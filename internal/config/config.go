// Package config loads qstatus configuration from defaults, an optional
// YAML file, and QSTATUS_* environment variables.
package config

import "time"

// Config is the full runtime configuration.
type Config struct {
	Scheduler SchedulerConfig `mapstructure:"scheduler" yaml:"scheduler"`
	Hung      HungConfig      `mapstructure:"hung" yaml:"hung"`
	Missing   MissingConfig   `mapstructure:"missing" yaml:"missing"`
	Markers   MarkersConfig   `mapstructure:"markers" yaml:"markers"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// SchedulerConfig locates the scheduler command-line tools and bounds
// how long a single query may block.
type SchedulerConfig struct {
	QstatPath    string        `mapstructure:"qstat_path" yaml:"qstat_path"`
	QacctPath    string        `mapstructure:"qacct_path" yaml:"qacct_path"`
	QdelPath     string        `mapstructure:"qdel_path" yaml:"qdel_path"`
	QueryTimeout time.Duration `mapstructure:"query_timeout" yaml:"query_timeout"`
}

// HungConfig tunes the hung-job detector.
type HungConfig struct {
	// MinWaitMinutes is how long a job must have been on wallclock
	// before the cpu/wallclock ratio is considered meaningful.
	MinWaitMinutes int `mapstructure:"min_wait_minutes" yaml:"min_wait_minutes"`

	// MaxCPURatio is the cpu/wallclock ratio below which a job old
	// enough to judge is declared hung.
	MaxCPURatio float64 `mapstructure:"max_cpu_ratio" yaml:"max_cpu_ratio"`
}

// MissingConfig tunes the missing-job escalation tracker.
type MissingConfig struct {
	// WaitMinutes is the grace period between first noticing a job is
	// missing from every live source and consulting accounting.
	WaitMinutes int `mapstructure:"wait_minutes" yaml:"wait_minutes"`
}

// MarkersConfig locates the shared marker directory holding the job
// wrapper's .exit files and the tracker's .missing files.
type MarkersConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// LoggingConfig controls stderr logging.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}
