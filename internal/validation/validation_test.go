package validation

import (
	"strings"
	"testing"

	"github.com/deppfellow/go-forms/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "object", body: `{"email":"a@b.com"}`},
		{name: "empty object", body: `{}`},
		{name: "empty body", body: ``, wantErr: true},
		{name: "not json", body: `email=a@b.com`, wantErr: true},
		{name: "array", body: `["a@b.com"]`, wantErr: true},
		{name: "null", body: `null`, wantErr: true},
		{name: "trailing newline", body: "{\"a\":1}\n"},
		{name: "trailing data", body: `{"a":1}{"b":2}`, wantErr: true},
		{name: "extra closing brace", body: `{"email":"a@b.com"}}`, wantErr: true},
		{name: "extra closing bracket", body: `{"email":"a@b.com"}]`, wantErr: true},
		{name: "too large", body: `{"a":"` + strings.Repeat("x", MaxBodyBytes) + `"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBody(strings.NewReader(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPayloadFilled(t *testing.T) {
	p := Payload{"blank": "   ", "text": "Acme", "zero": false, "yes": true, "num": 1.0}

	assert.False(t, p.Filled("missing"))
	assert.False(t, p.Filled("blank"))
	assert.False(t, p.Filled("zero"))
	assert.True(t, p.Filled("text"))
	assert.True(t, p.Filled("yes"))
	assert.True(t, p.Filled("num"))
}

func TestCheck(t *testing.T) {
	rules := []Rule{Required("fullName"), RequiredEmail("email")}

	tests := []struct {
		name    string
		payload Payload
		field   string
		message string
	}{
		{name: "valid", payload: Payload{"fullName": "Ada", "email": "ada@example.com"}},
		{name: "empty name", payload: Payload{"fullName": "", "email": "a@b.com"}, field: "fullName", message: "fullName is required"},
		{name: "blank name", payload: Payload{"fullName": "  ", "email": "a@b.com"}, field: "fullName", message: "fullName is required"},
		{name: "non-string name", payload: Payload{"fullName": 42.0, "email": "a@b.com"}, field: "fullName", message: "fullName is required"},
		{name: "first failure wins", payload: Payload{}, field: "fullName", message: "fullName is required"},
		{name: "missing email", payload: Payload{"fullName": "Ada"}, field: "email", message: "email is required"},
		{name: "bad email", payload: Payload{"fullName": "Ada", "email": "ada@example"}, field: "email", message: "email is invalid"},
		{name: "padded email", payload: Payload{"fullName": "Ada", "email": "  first.last+tag@sub.example.org "}},
		{name: "double at", payload: Payload{"fullName": "Ada", "email": "a@@b.com"}, field: "email", message: "email is invalid"},
		{name: "email with space", payload: Payload{"fullName": "Ada", "email": "a da@example.com"}, field: "email", message: "email is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.payload, rules)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var httpErr *errs.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, errs.CodeInvalidField, httpErr.Code)
			assert.Equal(t, tt.field, httpErr.Field)
			assert.Equal(t, tt.message, httpErr.Message)
		})
	}
}

func TestSanitize(t *testing.T) {
	mappings := []Mapping{
		{Field: "fullName", Label: "Full Name", Kind: KindText},
		{Field: "phoneNumber", Label: "Phone Number", Kind: KindText},
		{Field: "whyTTB", Label: "Why TTB", Kind: KindLongText},
		{Field: "fields", Label: "Fields", Kind: KindMulti},
		{Field: "addToMailingList", Label: "Add to Mailing List", Kind: KindBool},
	}
	p := Payload{
		"fullName":    "  Ada Lovelace ",
		"phoneNumber": "   ",
		"whyTTB":      strings.Repeat("é", MaxLongTextRunes+10),
		"fields":      []any{" Physics ", "", 3.0, "Math"},
		"unknown":     "dropped",
	}

	got := Sanitize(p, mappings)

	assert.Equal(t, "Ada Lovelace", got["Full Name"])
	assert.NotContains(t, got, "Phone Number")
	assert.Len(t, []rune(got["Why TTB"].(string)), MaxLongTextRunes)
	assert.Equal(t, []string{"Physics", "Math"}, got["Fields"])
	assert.Equal(t, false, got["Add to Mailing List"])
	assert.Len(t, got, 4)
}

func TestMulti(t *testing.T) {
	assert.Equal(t, []string{"Hoodie"}, Multi(" Hoodie "))
	assert.Nil(t, Multi("  "))
	assert.Nil(t, Multi(nil))
	assert.Nil(t, Multi(12.0))
	assert.Equal(t, []string{"Tee", "Cap"}, Multi([]any{"Tee", " Cap"}))
}

func TestBool(t *testing.T) {
	assert.True(t, Bool(true))
	assert.True(t, Bool("on"))
	assert.True(t, Bool(" TRUE "))
	assert.False(t, Bool(nil))
	assert.False(t, Bool("yes"))
	assert.False(t, Bool(1.0))
}
