package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// StatusText holds the banner captions per overall indicator.
type StatusText struct {
	Healthy  string `mapstructure:"healthy"`
	Degraded string `mapstructure:"degraded"`
	Down     string `mapstructure:"down"`
	Unknown  string `mapstructure:"unknown"`
}

type Config struct {
	Addr            string        `mapstructure:"addr"`             // bind address, e.g. "127.0.0.1:8090" or ":8090" (Docker)
	LogDir          string        `mapstructure:"log_dir"`          // logs directory
	LogLevel        string        `mapstructure:"log_level"`        // debug|info|warn|error
	APIBase         string        `mapstructure:"api_base"`         // checkup backend root, /api/v1 is appended
	Timeframe       time.Duration `mapstructure:"timeframe"`        // history window shown on the page
	RefreshInterval int           `mapstructure:"refresh_interval"` // seconds between polls
	RefreshDisplay  time.Duration `mapstructure:"refresh_display"`  // "last check N ago" refresh
	HTTPTimeout     time.Duration `mapstructure:"http_timeout"`     // backend request timeout
	SeedHealthy     bool          `mapstructure:"seed_healthy"`     // first sighting of an endpoint counts as healthy
	DedupResults    bool          `mapstructure:"dedup_results"`    // drop (endpoint, timestamp) repeats
	StatusText      StatusText    `mapstructure:"status_text"`
	SlackWebhook    string        `mapstructure:"slack_webhook"` // empty disables Slack
	PublicAPIKeys   []string      `mapstructure:"public_api_keys"`
	AdminAPIKeys    []string      `mapstructure:"admin_api_keys"`
	PublicRPM       int           `mapstructure:"public_rpm"`
	PublicBurst     int           `mapstructure:"public_burst"`
}

// EnvPrefix is prepended to every environment override, e.g. STATUSPAGE_API_BASE.
const EnvPrefix = "STATUSPAGE"

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", "127.0.0.1:8090")
	v.SetDefault("log_dir", "logs")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_base", "http://127.0.0.1:8801")
	v.SetDefault("timeframe", "192h") // 8 days
	v.SetDefault("refresh_interval", 60)
	v.SetDefault("refresh_display", "5s")
	v.SetDefault("http_timeout", "10s")
	v.SetDefault("seed_healthy", false)
	v.SetDefault("dedup_results", true)
	v.SetDefault("status_text.healthy", "Situation Normal")
	v.SetDefault("status_text.degraded", "Degraded Service")
	v.SetDefault("status_text.down", "Service Disruption")
	v.SetDefault("status_text.unknown", "Status Unknown")
	v.SetDefault("slack_webhook", "")
	v.SetDefault("public_api_keys", []string{})
	v.SetDefault("admin_api_keys", []string{})
	v.SetDefault("public_rpm", 600)
	v.SetDefault("public_burst", 100)
}

// Load reads defaults, then the optional YAML file at path, then
// STATUSPAGE_* environment variables. An empty path skips the file.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.PublicAPIKeys = splitKeys(cfg.PublicAPIKeys)
	cfg.AdminAPIKeys = splitKeys(cfg.AdminAPIKeys)
	return cfg, nil
}

// splitKeys flattens "a,b" entries coming from the environment and drops blanks.
func splitKeys(in []string) []string {
	var out []string
	for _, s := range in {
		for _, k := range strings.Split(s, ",") {
			if k = strings.TrimSpace(k); k != "" {
				out = append(out, k)
			}
		}
	}
	return out
}

// PollInterval is RefreshInterval as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.RefreshInterval) * time.Second
}

// WithDays replaces the timeframe with days×24h. Non-positive days are ignored.
func (c Config) WithDays(days int) Config {
	if days > 0 {
		c.Timeframe = time.Duration(days) * 24 * time.Hour
	}
	return c
}

func (c Config) Validate() error {
	var errs []error
	if c.Timeframe <= 0 {
		errs = append(errs, errors.New("timeframe must be positive"))
	}
	if c.RefreshInterval <= 0 {
		errs = append(errs, errors.New("refresh_interval must be positive"))
	}
	if c.RefreshDisplay <= 0 {
		errs = append(errs, errors.New("refresh_display must be positive"))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("http_timeout must be positive"))
	}
	u, err := url.Parse(c.APIBase)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api_base %q is not an http(s) url", c.APIBase))
	}
	return multierr.Combine(errs...)
}
