package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

type MonitorConfig struct {
	PollIntervalSeconds int    `mapstructure:"poll_interval_seconds"`
	LogFile             string `mapstructure:"log_file"`
}

type EventsConfig struct {
	CollectIntervalSeconds int `mapstructure:"collect_interval_seconds"`
	LookbackMinutes        int `mapstructure:"lookback_minutes"`
}

type ReportConfig struct {
	Dir        string `mapstructure:"dir"`
	PingTarget string `mapstructure:"ping_target"`
	PingCount  int    `mapstructure:"ping_count"`
}

type Config struct {
	Monitor MonitorConfig `mapstructure:"monitor"`
	Events  EventsConfig  `mapstructure:"events"`
	Report  ReportConfig  `mapstructure:"report"`
	Logging LoggingConfig `mapstructure:"logging"`
}

func (m MonitorConfig) PollInterval() time.Duration {
	return time.Duration(m.PollIntervalSeconds) * time.Second
}

func (e EventsConfig) CollectInterval() time.Duration {
	return time.Duration(e.CollectIntervalSeconds) * time.Second
}

func (e EventsConfig) Lookback() time.Duration {
	return time.Duration(e.LookbackMinutes) * time.Minute
}

// Load reads the config file at path. A missing file is not an error: the
// agent runs with defaults so it can be started with zero setup.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// env overrides: WIFIWATCH_MONITOR_LOG_FILE etc. (optional)
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("monitor.poll_interval_seconds", 10)
	v.SetDefault("monitor.log_file", "wifiwatch.log")
	v.SetDefault("events.collect_interval_seconds", 300)
	v.SetDefault("events.lookback_minutes", 15)
	v.SetDefault("report.dir", ".")
	v.SetDefault("report.ping_target", "8.8.8.8")
	v.SetDefault("report.ping_count", 4)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// quick sanity checks
	if cfg.Monitor.PollIntervalSeconds < 1 {
		cfg.Monitor.PollIntervalSeconds = 10
	}
	if cfg.Events.CollectIntervalSeconds < 10 {
		cfg.Events.CollectIntervalSeconds = 300
	}
	if cfg.Events.LookbackMinutes < 1 {
		cfg.Events.LookbackMinutes = 15
	}
	if cfg.Monitor.LogFile == "" {
		cfg.Monitor.LogFile = "wifiwatch.log"
	}
	if cfg.Report.Dir == "" {
		cfg.Report.Dir = "."
	}
	if cfg.Report.PingCount < 1 {
		cfg.Report.PingCount = 4
	}

	return &cfg, nil
}
