package commands

import (
	"os"
	"time"

	"fidescrape/internal/pipeline"
	"fidescrape/internal/scrapers/fide"
	"fidescrape/lib/configutil"

	"github.com/joho/godotenv"
)

const defaultConfigName = "fidescrape.json5"

type Config struct {
	BaseUrl  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password"`
	// ThrottleMs is the pause between two rating periods.
	ThrottleMs              int     `json:"throttle_ms"`
	TimeoutSeconds          int     `json:"timeout_seconds"`
	RequestsPerSecond       float64 `json:"requests_per_second"`
	DisableCloudflareBypass bool    `json:"disable_cloudflare_bypass"`
}

// the account the public reports are fetched with
var defaultConfig = Config{
	BaseUrl:           fide.DefaultBaseUrl,
	Username:          "fidescraper",
	Password:          "beautifulsoup",
	ThrottleMs:        int(pipeline.DefaultThrottle / time.Millisecond),
	TimeoutSeconds:    30,
	RequestsPerSecond: 2,
}

// loadConfig reads the config at path, or searches upwards from the working directory
// for fidescrape.json5 when path is empty. FIDE_BASE_URL, FIDE_USER and FIDE_PASSWORD
// (also read from .env) take precedence over the file.
func loadConfig(path string) (Config, error) {
	var cfg Config
	var err error
	if path == "" {
		cfg, err = configutil.ReadRecursively[Config](defaultConfigName)
	} else {
		cfg, err = configutil.ReadConfig[Config](path)
	}
	cfg, err = configutil.WithDefaults(cfg, err, defaultConfig)
	if err != nil {
		return Config{}, err
	}

	// a missing .env is fine
	_ = godotenv.Load()
	if v := os.Getenv("FIDE_BASE_URL"); v != "" {
		cfg.BaseUrl = v
	}
	if v := os.Getenv("FIDE_USER"); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv("FIDE_PASSWORD"); v != "" {
		cfg.Password = v
	}

	return cfg, nil
}

func (c Config) ClientOptions() fide.ClientOptions {
	return fide.ClientOptions{
		BaseUrl:           c.BaseUrl,
		Username:          c.Username,
		Password:          c.Password,
		Timeout:           time.Duration(c.TimeoutSeconds) * time.Second,
		RequestsPerSecond: c.RequestsPerSecond,
		CloudflareBypass:  !c.DisableCloudflareBypass,
	}
}

func (c Config) Throttle() time.Duration {
	return time.Duration(c.ThrottleMs) * time.Millisecond
}
