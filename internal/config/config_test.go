package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvKeyRoundTrip(t *testing.T) {
	assert.Equal(t, "airtable.api_key", envKeyToPath("FORMS_AIRTABLE__API_KEY"))
	assert.Equal(t, "FORMS_AIRTABLE__API_KEY", EnvKey("airtable.api_key"))
	assert.Equal(t, "server.cors_allowed_origins", envKeyToPath(EnvKey("server.cors_allowed_origins")))
}

func TestEnvValue_SplitsLists(t *testing.T) {
	path, value := envValue("FORMS_SERVER__CORS_ALLOWED_ORIGINS", " https://a.example , https://b.example,")
	assert.Equal(t, "server.cors_allowed_origins", path)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, value)

	path, value = envValue("FORMS_AIRTABLE__API_KEY", "pat,with,commas")
	assert.Equal(t, "airtable.api_key", path)
	assert.Equal(t, "pat,with,commas", value)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("FORMS_PRIMARY__ENV", "production")
	t.Setenv("FORMS_SERVER__PORT", "9090")
	t.Setenv("FORMS_SERVER__CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("FORMS_AIRTABLE__API_KEY", "pat-secret")
	t.Setenv("FORMS_RATELIMIT__WINDOW", "2m")
	t.Setenv("FORMS_NEWSLETTER__DEBUG", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Primary.Env)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "pat-secret", cfg.Airtable.APIKey)
	assert.Equal(t, 2*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 5, cfg.RateLimit.Limit)
	assert.True(t, cfg.Newsletter.Debug)
	assert.Equal(t, "https://api.airtable.com", cfg.Airtable.BaseURL)
	require.NotNil(t, cfg.Observability)
	assert.Equal(t, "production", cfg.Observability.Environment)
	assert.True(t, cfg.Observability.IsProduction())
}

func TestMissingForApplication(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, []string{
		"FORMS_AIRTABLE__API_KEY",
		"FORMS_AIRTABLE__BASE_ID",
		"FORMS_AIRTABLE__APPLICATION_TABLE_ID",
	}, cfg.MissingForApplication())

	cfg.Airtable = AirtableConfig{APIKey: "k", BaseID: "app1", ApplicationTableName: "Applications"}
	assert.Empty(t, cfg.MissingForApplication())
	assert.Equal(t, "Applications", cfg.Airtable.ApplicationTable())

	cfg.Airtable.ApplicationTableID = "tblX"
	assert.Equal(t, "tblX", cfg.Airtable.ApplicationTable())
}

func TestMissingForNewsletter(t *testing.T) {
	tests := []struct {
		name    string
		cfg     MailchimpConfig
		missing []string
	}{
		{
			name:    "nothing set",
			cfg:     MailchimpConfig{},
			missing: []string{"FORMS_MAILCHIMP__API_KEY", "FORMS_MAILCHIMP__SERVER_PREFIX", "FORMS_MAILCHIMP__LIST_ID"},
		},
		{
			name:    "prefix derived from key",
			cfg:     MailchimpConfig{APIKey: "abc123-us21", ListID: "list"},
			missing: nil,
		},
		{
			name:    "key without prefix",
			cfg:     MailchimpConfig{APIKey: "abc123", ListID: "list"},
			missing: []string{"FORMS_MAILCHIMP__SERVER_PREFIX"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Mailchimp: tt.cfg}
			assert.Equal(t, tt.missing, cfg.MissingForNewsletter())
		})
	}
}

func TestObservabilityValidate(t *testing.T) {
	c := DefaultObservabilityConfig()
	assert.NoError(t, c.Validate())

	c.Logging.Level = "verbose"
	assert.Error(t, c.Validate())

	c = DefaultObservabilityConfig()
	c.Logging.Format = "xml"
	assert.Error(t, c.Validate())
}
