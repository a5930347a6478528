package repository

import (
	"github.com/deppfellow/go-forms/internal/server"
)

// Repositories is a container for all record stores.
//
// Stores are built from whatever configuration is present. Endpoints check
// for missing settings before they write, so a store built from blank
// settings is never called.
type Repositories struct {
	Applications  *AirtableTable
	MerchWaitlist *AirtableTable
	Newsletter    *AudienceList
}

// NewRepositories constructs the store container.
func NewRepositories(s *server.Server) *Repositories {
	cfg := s.Config

	return &Repositories{
		Applications: NewAirtableTable(
			s.HTTPClient,
			cfg.Airtable.BaseURL,
			cfg.Airtable.APIKey,
			cfg.Airtable.BaseID,
			cfg.Airtable.ApplicationTable(),
		),
		MerchWaitlist: NewAirtableTable(
			s.HTTPClient,
			cfg.Airtable.BaseURL,
			cfg.Airtable.APIKey,
			cfg.Airtable.BaseID,
			cfg.Airtable.MerchTable(),
		),
		Newsletter: NewAudienceList(
			s.HTTPClient,
			cfg.Mailchimp.BaseURL,
			cfg.Mailchimp.APIKey,
			cfg.Mailchimp.Prefix(),
			cfg.Mailchimp.ListID,
		),
	}
}
