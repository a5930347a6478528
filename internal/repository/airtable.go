package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// AirtableTable creates rows in one Airtable table.
type AirtableTable struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	baseID     string
	table      string
}

// NewAirtableTable addresses table (id or name) inside baseID.
func NewAirtableTable(httpClient *http.Client, baseURL, apiKey, baseID, table string) *AirtableTable {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &AirtableTable{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		baseID:     baseID,
		table:      table,
	}
}

type airtableCreateRequest struct {
	Fields   Record `json:"fields"`
	Typecast bool   `json:"typecast"`
}

func (t *AirtableTable) endpoint() string {
	return t.baseURL + "/v0/" + url.PathEscape(t.baseID) + "/" + url.PathEscape(t.table)
}

// RedactedURL is the create endpoint with the base id hidden.
func (t *AirtableTable) RedactedURL() string {
	return redactURL(t.endpoint(), url.PathEscape(t.baseID))
}

// Create implements RecordWriter.
func (t *AirtableTable) Create(ctx context.Context, record Record) error {
	body, err := json.Marshal(airtableCreateRequest{Fields: record, Typecast: true})
	if err != nil {
		return errors.Wrap(err, "failed to encode airtable record")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint(), bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build airtable request")
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	return do(t.httpClient, req, "airtable", t.RedactedURL())
}
