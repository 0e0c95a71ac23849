package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Practice struct {
		Name      string `yaml:"name"`
		Timezone  string `yaml:"timezone"`
		StartHour int    `yaml:"start_hour"`
		EndHour   int    `yaml:"end_hour"`
	} `yaml:"practice"`

	Server struct {
		Port            int    `yaml:"port"`
		APIKey          string `yaml:"api_key"`
		RateLimitPerSec int    `yaml:"rate_limit_per_sec"`
		RateLimitBurst  int    `yaml:"rate_limit_burst"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		StoragePath   string `yaml:"storage_path"`
		IntervalHours int    `yaml:"interval_hours"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Calendar struct {
		CalendarID      string `yaml:"calendar_id"`
		CredentialsFile string `yaml:"credentials_file"`
		TimeoutSeconds  int    `yaml:"timeout_seconds"`
	} `yaml:"calendar"`

	Stripe struct {
		SecretKey        string `yaml:"secret_key"`
		Currency         string `yaml:"currency"`
		SupportPlanPrice string `yaml:"support_plan_price"` // Stripe price ID for the recurring plan
	} `yaml:"stripe"`

	Email struct {
		SendGridAPIKey string `yaml:"sendgrid_api_key"`
		FromAddress    string `yaml:"from_address"`
		FromName       string `yaml:"from_name"`
	} `yaml:"email"`

	Telegram struct {
		BotToken    string `yaml:"bot_token"`
		AdminChatID int64  `yaml:"admin_chat_id"`
	} `yaml:"telegram"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/physiocare.db"
	}
	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	if cfg.Practice.StartHour == 0 && cfg.Practice.EndHour == 0 {
		cfg.Practice.StartHour = 9
		cfg.Practice.EndHour = 17
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec == 0 {
		cfg.Server.RateLimitPerSec = 20
	}
	if cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = 40
	}
	if cfg.Stripe.Currency == "" {
		cfg.Stripe.Currency = "eur"
	}
	if cfg.Backup.StoragePath == "" {
		cfg.Backup.StoragePath = "data/backups"
	}

	return &cfg, nil
}

// Location resolves the practice time zone, falling back to local.
func (c *Config) Location() *time.Location {
	if c.Practice.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Practice.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// CalendarTimeout bounds a single collaborator call.
func (c *Config) CalendarTimeout() time.Duration {
	if c.Calendar.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.Calendar.TimeoutSeconds) * time.Second
}

// CacheTTL returns the redis cache TTL, zero when caching is off.
func (c *Config) CacheTTL() time.Duration {
	if c.Redis.Address == "" || c.Redis.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}
