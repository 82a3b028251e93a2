package commands

import (
	"os"
	"time"

	"clutchintel/lib/alert"
	"clutchintel/lib/configutil"
	configlibsql "clutchintel/lib/configutil/libsql"
	"clutchintel/lib/scrapers/sitemaps"
	"clutchintel/lib/serviceutil"
)

type Config struct {
	OutputDir        string                   `json:"output_dir"`
	DelaySeconds     float64                  `json:"delay_seconds"`
	MaxRetries       int                      `json:"max_retries"`
	BaseDelaySeconds float64                  `json:"base_delay_seconds"`
	TimeoutSeconds   float64                  `json:"timeout_seconds"`
	HeaderProfiles   []sitemaps.HeaderProfile `json:"header_profiles"`
	Database         configlibsql.Struct      `json:"database"`
	Alerts           alert.Config             `json:"alerts"`
}

// readConfig loads config.json5, walking up from the working
// directory. A missing file is fine, every field has a workable zero
// value.
func readConfig() Config {
	cfg, err := configutil.ReadRecursively[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
	return cfg
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
