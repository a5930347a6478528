// Package config manages environment variables.
//
// It reads variables from the `.env` file and the process environment,
// loads them into structured Go types, and validates that the values the
// server cannot start without are present.
//
// Integration credentials (record store, audience list, webhook, email) are
// not required at startup. Each form endpoint checks the keys it
// needs on every request and reports the missing ones by name, so a partially
// configured deployment keeps serving the endpoints it can.
package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file into the process env, if present.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// EnvPrefix is the prefix every setting is read from.
//
// Nesting uses a double underscore:
//
//	FORMS_AIRTABLE__API_KEY -> airtable.api_key -> Config.Airtable.APIKey
const EnvPrefix = "FORMS_"

const nestingSeparator = "__"

// Config is the root configuration object for the application.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Airtable      AirtableConfig       `koanf:"airtable"`
	Mailchimp     MailchimpConfig      `koanf:"mailchimp"`
	Newsletter    NewsletterConfig     `koanf:"newsletter"`
	Slack         SlackConfig          `koanf:"slack"`
	Resend        ResendConfig         `koanf:"resend"`
	RateLimit     RateLimitConfig      `koanf:"ratelimit"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// RedisConfig contains Redis connection details.
//
// Address is optional. When set, rate limit windows are shared through Redis
// instead of living in process memory.
type RedisConfig struct {
	Address  string `koanf:"address"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// AirtableConfig addresses the tabular record store.
//
// Table ids are preferred over table names when both are set.
type AirtableConfig struct {
	APIKey               string `koanf:"api_key"`
	BaseID               string `koanf:"base_id"`
	ApplicationTableID   string `koanf:"application_table_id"`
	ApplicationTableName string `koanf:"application_table_name"`
	MerchTableID         string `koanf:"merch_table_id"`
	MerchTableName       string `koanf:"merch_table_name"`
	BaseURL              string `koanf:"base_url"`
}

// MailchimpConfig addresses the newsletter audience list.
type MailchimpConfig struct {
	APIKey string `koanf:"api_key"`
	// ServerPrefix is the data center (e.g. "us21"). Derived from the API key
	// suffix when empty.
	ServerPrefix string `koanf:"server_prefix"`
	ListID       string `koanf:"list_id"`
	BaseURL      string `koanf:"base_url"`
}

// NewsletterConfig toggles newsletter endpoint behavior.
type NewsletterConfig struct {
	// Debug exposes upstream error detail in named-newsletter 502 responses.
	Debug bool `koanf:"debug"`
}

// SlackConfig holds the chat webhook. Empty disables chat notifications.
type SlackConfig struct {
	WebhookURL string `koanf:"webhook_url"`
}

// ResendConfig holds the transactional email settings. Confirmation emails
// are only sent when both APIKey and From are set.
type ResendConfig struct {
	APIKey  string `koanf:"api_key"`
	From    string `koanf:"from"`
	ReplyTo string `koanf:"reply_to"`
}

// RateLimitConfig controls the per-client submission window.
type RateLimitConfig struct {
	Limit  int           `koanf:"limit" validate:"min=1"`
	Window time.Duration `koanf:"window" validate:"min=1s"`
}

// LoadConfig loads configuration from environment variables, applies defaults
// and validates the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not load env variables")
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal main config")
	}

	applyDefaults(mainConfig)

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid observability config")
	}

	return mainConfig, nil
}

// envKeyToPath maps FORMS_AIRTABLE__API_KEY to airtable.api_key.
func envKeyToPath(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, nestingSeparator, ".")
}

// listSettings are comma-separated in the environment.
var listSettings = map[string]bool{
	"server.cors_allowed_origins": true,
}

// envValue maps an env var onto its koanf path, splitting list settings.
func envValue(key, value string) (string, any) {
	path := envKeyToPath(key)
	if !listSettings[path] {
		return path, value
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return path, items
}

// EnvKey is the inverse of envKeyToPath. It is used when reporting missing
// settings, so operators see the exact variable they have to set.
func EnvKey(path string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(path, ".", nestingSeparator))
}

func applyDefaults(c *Config) {
	if c.Primary.Env == "" {
		c.Primary.Env = "development"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}
	if c.Airtable.BaseURL == "" {
		c.Airtable.BaseURL = "https://api.airtable.com"
	}
	if c.RateLimit.Limit == 0 {
		c.RateLimit.Limit = 5
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = time.Minute
	}

	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}
	c.Observability.ServiceName = "go-forms"
	c.Observability.Environment = c.Primary.Env
}
