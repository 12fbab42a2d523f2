// Package config loads daemon configuration from the environment, with an
// optional analysis.yaml overlay for the cost-projection defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"house_scout/analysis"
)

// Config carries everything the daemon needs at startup.
type Config struct {
	// ImportDir is watched for incoming listing HTML files.
	ImportDir string
	// DBPath is the sqlite database file, used when DatabaseURL is unset.
	DBPath string
	// DatabaseURL, when set, selects the postgres backend instead of sqlite.
	DatabaseURL string
	// ListenAddr is the HTTP API bind address.
	ListenAddr string
	// LogPath is the rotating log file.
	LogPath string
	// SweepCron schedules periodic re-sweeps of ImportDir, in cron syntax.
	SweepCron string
	// Debounce is how long the watcher waits after a file event before
	// reading the file, so partially written files settle first.
	Debounce time.Duration
	// GeocodeTimeout bounds each Nominatim lookup.
	GeocodeTimeout time.Duration

	// Analysis holds the cost-projection defaults, overridable per field
	// from config/analysis.yaml.
	Analysis analysis.Defaults
}

// Load reads configuration from .env (if present) and the environment.
func Load() (*Config, error) {
	// Missing .env is fine; env vars may come from the shell.
	_ = godotenv.Load()

	cfg := &Config{
		ImportDir:      getEnv("IMPORT_DIR", "import"),
		DBPath:         getEnv("DB_PATH", "homes.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		ListenAddr:     getEnv("LISTEN_ADDR", ":8090"),
		LogPath:        getEnv("LOG_PATH", "daemon.log"),
		SweepCron:      getEnv("SWEEP_CRON", "@every 10m"),
		Debounce:       getEnvDuration("WATCH_DEBOUNCE", 500*time.Millisecond),
		GeocodeTimeout: getEnvDuration("GEOCODE_TIMEOUT", 10*time.Second),
		Analysis:       analysis.DefaultTable(),
	}

	if err := loadAnalysisDefaults(getEnv("ANALYSIS_CONFIG", "config/analysis.yaml"), &cfg.Analysis); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadAnalysisDefaults overlays yaml values onto the stock defaults. A
// missing file is not an error; a malformed one is.
func loadAnalysisDefaults(path string, d *analysis.Defaults) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read analysis config: %w", err)
	}
	if err := yaml.Unmarshal(data, d); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
