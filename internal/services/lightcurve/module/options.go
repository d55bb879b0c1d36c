package module

import (
	"time"

	"lumen/internal/platform/config"
)

// Options holds configuration options for the lightcurve pipeline
type Options struct {
	Workers     int
	TaskTimeout time.Duration
	Persist     bool

	BrokerURL     string
	UserAgent     string
	LookupTimeout time.Duration
}

// FromConfig reads the pipeline options from config with CORE_LIGHTCURVE_ prefix
// broker connectivity comes from CORE_ANTARES_
func FromConfig(cfg config.Conf) Options {
	lc := cfg.Prefix("CORE_LIGHTCURVE_")
	an := cfg.Prefix("CORE_ANTARES_")
	return Options{
		Workers:       lc.MayInt("WORKERS", 4),
		TaskTimeout:   lc.MayDuration("TASK_TIMEOUT", 30*time.Second),
		Persist:       lc.MayBool("PERSIST", false),
		BrokerURL:     an.MayString("BASE_URL", ""),
		UserAgent:     an.MayString("USER_AGENT", "lumen-fetch"),
		LookupTimeout: an.MayDuration("TIMEOUT", 10*time.Second),
	}
}
