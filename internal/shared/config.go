// Package shared holds process configuration shared by the binaries.
package shared

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"review_dashboard/internal/analysis"
)

type Config struct {
	AppEnv        string
	LogLevel      string
	HTTPAddr      string
	MetricsAddr   string
	DataDir       string
	ProfilePath   string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	CacheTTL      time.Duration
	RefreshCron   string
	WatchData     bool
	WatchDebounce time.Duration
	ReloadRPS     float64
	ReportPath    string
	CORSOrigins   []string

	// Threshold overrides; nil keeps the profile's value.
	PositiveMin *float64
	NegativeMax *float64
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "prod")
	v.SetDefault("log_level", "info")
	v.SetDefault("http_addr", ":8050")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("profile_path", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("cache_ttl_seconds", 900)
	v.SetDefault("refresh_cron", "")
	v.SetDefault("watch_data", true)
	v.SetDefault("watch_debounce_ms", 500)
	v.SetDefault("reload_rps", 0.2)
	v.SetDefault("report_path", "dashboard.html")
	v.SetDefault("cors_origins", "*")
}

// NewViper layers defaults, an optional YAML file, .env and the process
// environment (highest precedence). An empty configFile looks for
// ./config.yaml and carries on without one.
func NewViper(configFile string) (*viper.Viper, error) {
	// .env is optional; real env vars win over it
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	// no defaults for these, so they stay unset unless provided
	_ = v.BindEnv("sentiment_positive_min", "SENTIMENT_POSITIVE_MIN")
	_ = v.BindEnv("sentiment_negative_max", "SENTIMENT_NEGATIVE_MAX")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
		return v, nil
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// FromViper resolves a Config; malformed threshold overrides are errors.
func FromViper(v *viper.Viper) (Config, error) {
	c := Config{
		AppEnv:        v.GetString("app_env"),
		LogLevel:      v.GetString("log_level"),
		HTTPAddr:      v.GetString("http_addr"),
		MetricsAddr:   v.GetString("metrics_addr"),
		DataDir:       v.GetString("data_dir"),
		ProfilePath:   v.GetString("profile_path"),
		RedisAddr:     v.GetString("redis_addr"),
		RedisPass:     v.GetString("redis_password"),
		RedisDB:       v.GetInt("redis_db"),
		CacheTTL:      time.Duration(v.GetInt("cache_ttl_seconds")) * time.Second,
		RefreshCron:   v.GetString("refresh_cron"),
		WatchData:     v.GetBool("watch_data"),
		WatchDebounce: time.Duration(v.GetInt("watch_debounce_ms")) * time.Millisecond,
		ReloadRPS:     v.GetFloat64("reload_rps"),
		ReportPath:    v.GetString("report_path"),
		CORSOrigins:   splitList(v.GetString("cors_origins")),
	}
	var err error
	if c.PositiveMin, err = optFloat(v, "sentiment_positive_min"); err != nil {
		return Config{}, err
	}
	if c.NegativeMax, err = optFloat(v, "sentiment_negative_max"); err != nil {
		return Config{}, err
	}
	if c.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR is empty, view cache disabled")
	}
	return c, nil
}

// Load is NewViper followed by FromViper.
func Load(configFile string) (Config, error) {
	v, err := NewViper(configFile)
	if err != nil {
		return Config{}, err
	}
	return FromViper(v)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func optFloat(v *viper.Viper, key string) (*float64, error) {
	s := strings.TrimSpace(v.GetString(key))
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", strings.ToUpper(key), err)
	}
	return &f, nil
}

// Profile loads the analysis profile and applies threshold overrides.
func (c Config) Profile() (analysis.Profile, error) {
	p, err := analysis.LoadProfile(c.ProfilePath)
	if err != nil {
		return analysis.Profile{}, err
	}
	t := p.Thresholds
	if c.PositiveMin != nil {
		t.PositiveMin = *c.PositiveMin
	}
	if c.NegativeMax != nil {
		t.NegativeMax = *c.NegativeMax
	}
	p = p.WithThresholds(t)
	if err := p.Validate(); err != nil {
		return analysis.Profile{}, err
	}
	return p, nil
}
