package repository

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// Record keys understood by AudienceList. Every other key becomes a merge field.
const (
	FieldEmailAddress = "email_address"
	MergeFirstName    = "FNAME"
	MergeLastName     = "LNAME"
)

// AudienceList upserts members of one Mailchimp audience.
//
// Members are written with PUT on the subscriber hash, so submitting the same
// address twice performs two writes and both succeed.
type AudienceList struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	serverPrefix string
	listID       string
}

// NewAudienceList addresses listID. An empty baseURL is derived from serverPrefix.
func NewAudienceList(httpClient *http.Client, baseURL, apiKey, serverPrefix, listID string) *AudienceList {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.api.mailchimp.com", serverPrefix)
	}
	return &AudienceList{
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		serverPrefix: serverPrefix,
		listID:       listID,
	}
}

type memberRequest struct {
	EmailAddress string         `json:"email_address"`
	StatusIfNew  string         `json:"status_if_new"`
	MergeFields  map[string]any `json:"merge_fields,omitempty"`
}

// SubscriberHash is the lowercase-email MD5 Mailchimp addresses members by.
func SubscriberHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

func (l *AudienceList) endpoint(email string) string {
	return l.baseURL + "/3.0/lists/" + url.PathEscape(l.listID) + "/members/" + SubscriberHash(email)
}

// RedactedURL hides the list id and data center of a member URL.
func (l *AudienceList) RedactedURL(email string) string {
	return redactURL(l.endpoint(email), url.PathEscape(l.listID), l.serverPrefix)
}

// Create implements RecordWriter. record must carry FieldEmailAddress.
func (l *AudienceList) Create(ctx context.Context, record Record) error {
	email, _ := record[FieldEmailAddress].(string)
	if email == "" {
		return errors.New("audience record has no email_address")
	}

	member := memberRequest{
		EmailAddress: email,
		StatusIfNew:  "subscribed",
	}
	for key, value := range record {
		if key == FieldEmailAddress {
			continue
		}
		if member.MergeFields == nil {
			member.MergeFields = make(map[string]any)
		}
		member.MergeFields[key] = value
	}

	body, err := json.Marshal(member)
	if err != nil {
		return errors.Wrap(err, "failed to encode audience member")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, l.endpoint(email), bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build mailchimp request")
	}
	req.SetBasicAuth("anystring", l.apiKey)
	req.Header.Set("Content-Type", "application/json")

	return do(l.httpClient, req, "mailchimp", l.RedactedURL(email))
}
