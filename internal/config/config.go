// Package config loads settings from an optional YAML file, the process
// environment and a local .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

type Config struct {
	LogLevel string         `yaml:"log_level"`
	DataDir  string         `yaml:"data_dir"`
	Source   SourceConfig   `yaml:"source"`
	Extract  ExtractConfig  `yaml:"extract"`
	Storage  StorageConfig  `yaml:"storage"`
	Email    EmailConfig    `yaml:"email"`
	Telegram TelegramConfig `yaml:"telegram"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Server   ServerConfig   `yaml:"server"`
}

type SourceConfig struct {
	URL        string        `yaml:"url"`
	UserAgent  string        `yaml:"user_agent"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries uint64        `yaml:"max_retries"`
}

type ExtractConfig struct {
	IncludeUndated bool `yaml:"include_undated"`
	SplitFallback  bool `yaml:"split_fallback"`
}

type StorageConfig struct {
	Backend     string     `yaml:"backend"`
	RedisURL    string     `yaml:"redis_url"`
	RedisPrefix string     `yaml:"redis_prefix"`
	Gist        GistConfig `yaml:"gist"`
}

// GistConfig moves subscriptions to a GitHub Gist when ID is set.
type GistConfig struct {
	ID            string `yaml:"id"`
	Token         string `yaml:"token"`
	EncryptionKey string `yaml:"encryption_key"`
}

type EmailConfig struct {
	ResendAPIKey string `yaml:"resend_api_key"`
	From         string `yaml:"from"`
	AdminEmail   string `yaml:"admin_email"`
	PageURL      string `yaml:"page_url"`
	SiteURL      string `yaml:"site_url"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
	Quiet    bool   `yaml:"quiet"`
}

type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

type ServerConfig struct {
	Addr       string        `yaml:"addr"`
	CronSecret string        `yaml:"cron_secret"`
	Interval   time.Duration `yaml:"interval"` // 0 disables the in-process scheduler
	RunTimeout time.Duration `yaml:"run_timeout"`
}

// Load reads path (skipped when empty), expands ${VAR} references, fills
// unset secrets from well-known environment variables and applies defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile:
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("storage.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Gist.ID != "" && c.Storage.Gist.Token == "" {
		return errors.New("storage.gist.token is required when storage.gist.id is set")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return errors.New("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

func (c *Config) applyEnv() {
	envs := []struct {
		dst *string
		key string
	}{
		{&c.LogLevel, "LOG_LEVEL"},
		{&c.DataDir, "AMFB_DATA_DIR"},
		{&c.Storage.RedisURL, "REDIS_URL"},
		{&c.Storage.Gist.ID, "GIST_ID"},
		{&c.Storage.Gist.Token, "GITHUB_TOKEN"},
		{&c.Storage.Gist.EncryptionKey, "ENCRYPTION_KEY"},
		{&c.Email.ResendAPIKey, "RESEND_API_KEY"},
		{&c.Email.From, "EMAIL_FROM"},
		{&c.Email.AdminEmail, "ADMIN_EMAIL"},
		{&c.Email.SiteURL, "SITE_URL"},
		{&c.Telegram.BotToken, "TELEGRAM_BOT_TOKEN"},
		{&c.Telegram.ChatID, "TELEGRAM_CHAT_ID"},
		{&c.RabbitMQ.URL, "RABBITMQ_URL"},
		{&c.Server.CronSecret, "CRON_SECRET"},
	}
	for _, e := range envs {
		if *e.dst == "" {
			*e.dst = os.Getenv(e.key)
		}
	}
}

func (c *Config) setDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.DataDir == "" {
		c.DataDir = "~/.amfb-notifier"
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = 20 * time.Second
	}
	if c.Source.MaxRetries == 0 {
		c.Source.MaxRetries = 2
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendFile
		if c.Storage.RedisURL != "" {
			c.Storage.Backend = BackendRedis
		}
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "amfb"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "fixtures"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "amfb_notifications"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.RunTimeout == 0 {
		c.Server.RunTimeout = 5 * time.Minute
	}
}
