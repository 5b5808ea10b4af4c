package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config carries runtime options for procpulse. Built once at startup and
// passed by value to whichever component needs it.
type Config struct {
	Interval          time.Duration
	HistoryCap        int
	KillWait          time.Duration
	CPUThreshold      float64
	ShowAlert         bool
	AggregatePhysical bool
	Debug             bool
	DebugOnly         bool
	ProcRoot          string
}

func Default() Config {
	return Config{
		Interval:          time.Second,
		HistoryCap:        120,
		KillWait:          500 * time.Millisecond,
		CPUThreshold:      80.0,
		ShowAlert:         true,
		AggregatePhysical: true,
		ProcRoot:          "/proc",
	}
}

// Load builds the config from defaults, a .env file when present, and
// PROCPULSE_* environment variables. Flags layer on top in the CLI.
func Load() Config {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix("procpulse")
	v.AutomaticEnv()
	v.SetDefault("interval", cfg.Interval)
	v.SetDefault("history", cfg.HistoryCap)
	v.SetDefault("kill_wait", cfg.KillWait)
	v.SetDefault("threshold", cfg.CPUThreshold)
	v.SetDefault("alert", cfg.ShowAlert)
	v.SetDefault("aggregate", cfg.AggregatePhysical)
	v.SetDefault("proc_root", cfg.ProcRoot)

	cfg.Interval = v.GetDuration("interval")
	cfg.HistoryCap = v.GetInt("history")
	cfg.KillWait = v.GetDuration("kill_wait")
	cfg.CPUThreshold = v.GetFloat64("threshold")
	cfg.ShowAlert = v.GetBool("alert")
	cfg.AggregatePhysical = v.GetBool("aggregate")
	cfg.ProcRoot = v.GetString("proc_root")

	return cfg.Sanitized()
}

// Sanitized clamps nonsensical values back to defaults so a bad flag or
// env var cannot wedge the tick loop.
func (c Config) Sanitized() Config {
	def := Default()
	if c.Interval <= 0 {
		c.Interval = def.Interval
	}
	if c.HistoryCap <= 0 {
		c.HistoryCap = def.HistoryCap
	}
	if c.KillWait <= 0 {
		c.KillWait = def.KillWait
	}
	if c.CPUThreshold <= 0 || c.CPUThreshold > 100 {
		c.CPUThreshold = def.CPUThreshold
	}
	if c.ProcRoot == "" {
		c.ProcRoot = def.ProcRoot
	}
	return c
}
