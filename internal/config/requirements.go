package config

import "strings"

// setting pairs a koanf path with its current value for presence checks.
type setting struct {
	path  string
	value string
}

// missing returns the env var names of every blank setting, in order.
// Values are never part of the result.
func missing(settings ...setting) []string {
	var out []string
	for _, s := range settings {
		if strings.TrimSpace(s.value) == "" {
			out = append(out, EnvKey(s.path))
		}
	}
	return out
}

// ApplicationTable returns the application table id, falling back to its name.
func (a AirtableConfig) ApplicationTable() string {
	return firstNonEmpty(a.ApplicationTableID, a.ApplicationTableName)
}

// MerchTable returns the merch waitlist table id, falling back to its name.
func (a AirtableConfig) MerchTable() string {
	return firstNonEmpty(a.MerchTableID, a.MerchTableName)
}

// MissingForApplication lists the settings the application endpoint needs.
func (c *Config) MissingForApplication() []string {
	return missing(
		setting{"airtable.api_key", c.Airtable.APIKey},
		setting{"airtable.base_id", c.Airtable.BaseID},
		setting{"airtable.application_table_id", c.Airtable.ApplicationTable()},
	)
}

// MissingForMerch lists the settings the merch waitlist endpoint needs.
func (c *Config) MissingForMerch() []string {
	return missing(
		setting{"airtable.api_key", c.Airtable.APIKey},
		setting{"airtable.base_id", c.Airtable.BaseID},
		setting{"airtable.merch_table_id", c.Airtable.MerchTable()},
	)
}

// MissingForNewsletter lists the settings both newsletter endpoints need.
func (c *Config) MissingForNewsletter() []string {
	return missing(
		setting{"mailchimp.api_key", c.Mailchimp.APIKey},
		setting{"mailchimp.server_prefix", c.Mailchimp.Prefix()},
		setting{"mailchimp.list_id", c.Mailchimp.ListID},
	)
}

// Prefix returns the configured data center, or the one encoded in the API
// key ("<key>-us21").
func (m MailchimpConfig) Prefix() string {
	if m.ServerPrefix != "" {
		return m.ServerPrefix
	}
	if i := strings.LastIndex(m.APIKey, "-"); i >= 0 && i < len(m.APIKey)-1 {
		return m.APIKey[i+1:]
	}
	return ""
}

// EmailEnabled reports whether confirmation emails can be sent.
func (r ResendConfig) EmailEnabled() bool {
	return r.APIKey != "" && r.From != ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
