package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultTerms are the search terms used when none are given on the command line.
var DefaultTerms = []string{"Condomínio", "Hotel", "Edifício", "Prédio", "Residencial"}

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Google  GoogleConfig  `yaml:"google" mapstructure:"google"`
	Collect CollectConfig `yaml:"collect" mapstructure:"collect"`
	Pricing PricingConfig `yaml:"pricing" mapstructure:"pricing"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// GoogleConfig holds Google Places API settings.
type GoogleConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// CollectConfig configures the lead collection run.
type CollectConfig struct {
	MaxRequests      int      `yaml:"max_requests" mapstructure:"max_requests"`
	MaxPages         int      `yaml:"max_pages" mapstructure:"max_pages"`
	PageDelayMs      int      `yaml:"page_delay_ms" mapstructure:"page_delay_ms"`
	CandidateDelayMs int      `yaml:"candidate_delay_ms" mapstructure:"candidate_delay_ms"`
	Terms            []string `yaml:"terms" mapstructure:"terms"`
}

// PageDelay is the wait before requesting a follow-up page.
func (c CollectConfig) PageDelay() time.Duration {
	return time.Duration(c.PageDelayMs) * time.Millisecond
}

// CandidateDelay is the throttle applied after each enriched candidate.
func (c CollectConfig) CandidateDelay() time.Duration {
	return time.Duration(c.CandidateDelayMs) * time.Millisecond
}

// PricingConfig holds per-provider pricing rates.
type PricingConfig struct {
	Google GooglePricing `yaml:"google" mapstructure:"google"`
}

// GooglePricing holds Places per-request pricing in USD.
type GooglePricing struct {
	TextSearch float64 `yaml:"text_search" mapstructure:"text_search"`
	Details    float64 `yaml:"details" mapstructure:"details"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.max_conns", 4)
	v.SetDefault("store.min_conns", 1)
	v.SetDefault("google.key", "")
	v.SetDefault("google.base_url", "https://maps.googleapis.com/maps/api/place")
	v.SetDefault("google.timeout_secs", 10)
	v.SetDefault("google.rate_limit", 10)
	v.SetDefault("collect.max_requests", 900)
	v.SetDefault("collect.max_pages", 3)
	v.SetDefault("collect.page_delay_ms", 2000)
	v.SetDefault("collect.candidate_delay_ms", 1500)
	v.SetDefault("collect.terms", DefaultTerms)
	v.SetDefault("pricing.google.text_search", 0.032)
	v.SetDefault("pricing.google.details", 0.017)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the keys a command depends on are present.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "collect":
		if c.Google.Key == "" {
			errs = append(errs, "google.key is required")
		}
		if c.needsDatabaseURL() {
			errs = append(errs, "store.database_url is required")
		}
		if c.Collect.MaxRequests <= 0 {
			errs = append(errs, "collect.max_requests must be > 0")
		}
		if c.Collect.MaxPages <= 0 {
			errs = append(errs, "collect.max_pages must be > 0")
		}
		if c.Collect.PageDelayMs < 0 || c.Collect.CandidateDelayMs < 0 {
			errs = append(errs, "collect delays must be >= 0")
		}
	case "migrate", "count":
		if c.needsDatabaseURL() {
			errs = append(errs, "store.database_url is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Store.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, "store.driver must be postgres or sqlite")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// needsDatabaseURL reports whether the store cannot start without a DSN. The
// sqlite driver falls back to leads.db in the working directory.
func (c *Config) needsDatabaseURL() bool {
	return c.Store.DatabaseURL == "" && c.Store.Driver != "sqlite"
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
