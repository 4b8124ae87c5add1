package config

import (
	"fmt"
	"slices"

	"go.uber.org/zap/zapcore"

	"github.com/eliteGoblin/focusd/secsim/internal/daemon"
	"github.com/eliteGoblin/focusd/secsim/internal/domain"
	"github.com/eliteGoblin/focusd/secsim/internal/infra"
)

// Config is the root configuration.
type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Report     ReportConfig     `toml:"report"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
}

// SimulationConfig holds the timing and limits of a session.
type SimulationConfig struct {
	ScanTick         Duration `toml:"scan_tick"`
	UpdateCheckDelay Duration `toml:"update_check_delay"`
	UpdateStepDelay  Duration `toml:"update_step_delay"`
	PhishingDelay    Duration `toml:"phishing_delay"`
	ToastLifetime    Duration `toml:"toast_lifetime"`
	ToastSweep       Duration `toml:"toast_sweep"`
	HistoryLimit     int      `toml:"history_limit"`
	Seed             uint64   `toml:"seed"` // 0 seeds from the current time
}

// ReportConfig selects where evaluation reports go.
type ReportConfig struct {
	Sink       string `toml:"sink"`
	WebhookURL string `toml:"webhook_url"`
	FileDir    string `toml:"file_dir"`
	ArchiveDir string `toml:"archive_dir"`
}

// ServerConfig configures the host HTTP API.
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

// LogConfig configures the long-running logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	sup := daemon.DefaultSupervisorConfig()
	mode := infra.DetectExecMode()

	return &Config{
		Simulation: SimulationConfig{
			ScanTick:         Duration{sup.Scan.TickInterval},
			UpdateCheckDelay: Duration{sup.Updates.CheckDelay},
			UpdateStepDelay:  Duration{sup.Updates.StepDelay},
			PhishingDelay:    Duration{sup.PhishingDelay},
			ToastLifetime:    Duration{domain.DefaultToastLifetime},
			ToastSweep:       Duration{sup.ToastSweepInterval},
			HistoryLimit:     domain.DefaultHistoryLimit,
		},
		Report: ReportConfig{
			Sink:       string(infra.SinkLog),
			FileDir:    mode.ReportDir,
			ArchiveDir: mode.ArchiveDir,
		},
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate rejects values a session cannot run with. Errors name the
// offending key.
func (c *Config) Validate() error {
	durations := []struct {
		key string
		d   Duration
	}{
		{"simulation.scan_tick", c.Simulation.ScanTick},
		{"simulation.update_check_delay", c.Simulation.UpdateCheckDelay},
		{"simulation.update_step_delay", c.Simulation.UpdateStepDelay},
		{"simulation.phishing_delay", c.Simulation.PhishingDelay},
		{"simulation.toast_lifetime", c.Simulation.ToastLifetime},
		{"simulation.toast_sweep", c.Simulation.ToastSweep},
	}
	for _, d := range durations {
		if d.d.Duration <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.key, d.d.Duration)
		}
	}

	if c.Simulation.HistoryLimit < 1 {
		return fmt.Errorf("simulation.history_limit must be at least 1, got %d", c.Simulation.HistoryLimit)
	}

	sink := infra.SinkKind(c.Report.Sink)
	if !slices.Contains(infra.SinkKinds(), sink) {
		return fmt.Errorf("report.sink must be one of %v, got %q", infra.SinkKinds(), c.Report.Sink)
	}
	if sink == infra.SinkWebhook && c.Report.WebhookURL == "" {
		return fmt.Errorf("report.webhook_url is required when report.sink is %q", infra.SinkWebhook)
	}

	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr must not be empty")
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// Settings returns the per-session settings carried in state.
func (c *Config) Settings() domain.Settings {
	return domain.Settings{
		HistoryLimit:  c.Simulation.HistoryLimit,
		ToastLifetime: c.Simulation.ToastLifetime.Duration,
	}
}

// SupervisorConfig returns the simulator timing.
func (c *Config) SupervisorConfig() daemon.SupervisorConfig {
	sup := daemon.DefaultSupervisorConfig()
	sup.Scan.TickInterval = c.Simulation.ScanTick.Duration
	sup.Updates.CheckDelay = c.Simulation.UpdateCheckDelay.Duration
	sup.Updates.StepDelay = c.Simulation.UpdateStepDelay.Duration
	sup.PhishingDelay = c.Simulation.PhishingDelay.Duration
	sup.ToastSweepInterval = c.Simulation.ToastSweep.Duration
	return sup
}

// SinkOptions returns the report sink selection.
func (c *Config) SinkOptions() infra.SinkOptions {
	return infra.SinkOptions{
		Kind:       infra.SinkKind(c.Report.Sink),
		WebhookURL: c.Report.WebhookURL,
		FileDir:    c.Report.FileDir,
		ArchiveDir: c.Report.ArchiveDir,
	}
}

// LogLevel returns the parsed log level, defaulting to info.
func (c *Config) LogLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}
