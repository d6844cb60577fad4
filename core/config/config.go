package config

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"TELEGRAM_BOT_TOKEN"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
	// DropPendingUpdates discards updates queued while the bot was offline.
	DropPendingUpdates *bool `yaml:"drop_pending_updates" envconfig:"TELEGRAM_DROP_PENDING_UPDATES"`
	// APIURL points at a self-hosted Bot API server; empty means api.telegram.org.
	APIURL string `yaml:"api_url" envconfig:"TELEGRAM_API_URL"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format      string `yaml:"format" envconfig:"LOG_FORMAT"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir" envconfig:"LOG_DIR"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

// HealthConfig controls the liveness endpoint served next to the bot.
type HealthConfig struct {
	Listen  string `yaml:"listen" envconfig:"HEALTH_LISTEN"`
	Port    int    `yaml:"port" envconfig:"PORT"`
	Metrics *bool  `yaml:"metrics" envconfig:"HEALTH_METRICS"`
}

// DecoderConfig points at the remote QR decoding service.
type DecoderConfig struct {
	Endpoint       string `yaml:"endpoint" envconfig:"QR_DECODER_URL"`
	TimeoutSeconds int    `yaml:"timeout_seconds" envconfig:"QR_DECODER_TIMEOUT_SECONDS"`
}

// JournalConfig enables the optional Postgres event journal.
type JournalConfig struct {
	Enabled       bool `yaml:"enabled" envconfig:"JOURNAL_ENABLED"`
	RetentionDays int  `yaml:"retention_days" envconfig:"JOURNAL_RETENTION_DAYS"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
)

const (
	DefaultHealthListen     = "0.0.0.0"
	DefaultHealthPort       = 10000
	DefaultDecoderEndpoint  = "https://api.qrserver.com/v1/read-qr-code/"
	DefaultDecoderTimeout   = 30
	DefaultJournalRetention = 90
)

// RateLimitConfig holds settings for rate limiting.
// ExcludeUpdates accepts update types to bypass limiting:
// - "callback": Telegram callback button presses
// - "message": standard text and photo messages
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// Config aggregates the configuration that belongs to the reusable core.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Health    HealthConfig    `yaml:"health"`
	Decoder   DecoderConfig   `yaml:"decoder"`
	Journal   JournalConfig   `yaml:"journal"`
}

// LoadEnvFile loads a .env file into the process environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ReadYAML decodes the YAML file at path into out. A missing file leaves out untouched.
func ReadYAML(path string, out any) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return nil
}

// Load reads configuration from .env, an optional YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	if err := LoadEnvFile(""); err != nil {
		return nil, err
	}
	if err := ReadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates cfg section by section and fills in defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	for _, step := range []func() error{
		func() error { return cfg.Telegram.normalize(&cfg.Webhook) },
		cfg.RateLimit.normalize,
		cfg.Health.normalize,
		cfg.Decoder.normalize,
		cfg.Journal.normalize,
	} {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (t *TelegramConfig) normalize(hook *WebhookConfig) error {
	if t.Token = strings.TrimSpace(t.Token); t.Token == "" {
		return errors.New("telegram token is required")
	}
	t.APIURL = strings.TrimRight(strings.TrimSpace(t.APIURL), "/")
	if t.DropPendingUpdates == nil {
		t.DropPendingUpdates = boolPtr(true)
	}

	mode := strings.ToLower(strings.TrimSpace(t.RunMode))
	switch mode {
	case "", "polling":
		mode = RunModeLongpoll
	case RunModeLongpoll, RunModeWebhook:
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", t.RunMode)
	}
	t.RunMode = mode

	if mode == RunModeLongpoll {
		if t.LongPollTimeoutSeconds < 0 {
			return errors.New("telegram.longpoll_timeout_seconds must be >= 0")
		}
		return nil
	}
	var missing []string
	if strings.TrimSpace(hook.URL) == "" {
		missing = append(missing, "webhook.url")
	}
	if strings.TrimSpace(hook.Listen) == "" {
		missing = append(missing, "webhook.listen")
	}
	if hook.Port <= 0 {
		missing = append(missing, "webhook.port")
	}
	if len(missing) > 0 {
		return fmt.Errorf("webhook run mode needs %s", strings.Join(missing, ", "))
	}
	return nil
}

func (r *RateLimitConfig) normalize() error {
	if r.IntervalMS < 0 {
		return errors.New("rate_limit.interval_ms must be >= 0")
	}
	kept := r.ExcludeUpdates[:0]
	for _, v := range r.ExcludeUpdates {
		switch key := strings.ToLower(strings.TrimSpace(v)); key {
		case "":
		case UpdateCallback, UpdateMessage:
			kept = append(kept, key)
		default:
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message", v)
		}
	}
	r.ExcludeUpdates = kept
	return nil
}

func (h *HealthConfig) normalize() error {
	h.Listen = cmp.Or(strings.TrimSpace(h.Listen), DefaultHealthListen)
	h.Port = cmp.Or(h.Port, DefaultHealthPort)
	if h.Port < 0 || h.Port > 65535 {
		return fmt.Errorf("health.port %d out of range", h.Port)
	}
	if h.Metrics == nil {
		h.Metrics = boolPtr(true)
	}
	return nil
}

func (d *DecoderConfig) normalize() error {
	d.Endpoint = cmp.Or(strings.TrimSpace(d.Endpoint), DefaultDecoderEndpoint)
	u, err := url.Parse(d.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("decoder.endpoint must be an http(s) URL, got %q", d.Endpoint)
	}
	if d.TimeoutSeconds < 0 {
		return errors.New("decoder.timeout_seconds must be >= 0")
	}
	d.TimeoutSeconds = cmp.Or(d.TimeoutSeconds, DefaultDecoderTimeout)
	return nil
}

func (j *JournalConfig) normalize() error {
	if j.RetentionDays <= 0 {
		j.RetentionDays = DefaultJournalRetention
	}
	return nil
}

func boolPtr(v bool) *bool { return &v }

// Enabled dereferences an optional flag, treating nil as false.
func Enabled(flag *bool) bool {
	return flag != nil && *flag
}
