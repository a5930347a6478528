// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce the required-field and
// email-shape rules of each form, and turns the first violation into an
// error the client can understand. Sanitizers map a validated payload
// onto a record store's field vocabulary.
package validation

import (
	"bytes"
	"encoding/json"
	"io"
	"regexp"
	"strings"

	"github.com/deppfellow/go-forms/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// MaxBodyBytes is the largest request body that is parsed.
const MaxBodyBytes = 64 << 10

// emailPattern accepts local@domain.tld with no whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("simpleemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// Payload is a decoded JSON object body.
type Payload map[string]any

// ParseBody decodes r as a single JSON object of at most MaxBodyBytes.
func ParseBody(r io.Reader) (Payload, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxBodyBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read request body")
	}
	if len(raw) > MaxBodyBytes {
		return nil, errors.New("request body too large")
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	var payload Payload
	if err := decoder.Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "invalid JSON")
	}
	if payload == nil {
		return nil, errors.New("JSON body must be an object")
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("unexpected data after JSON object")
	}

	return payload, nil
}

// String returns the trimmed value of a string field, or "" for anything else.
func (p Payload) String(field string) string {
	s, _ := p[field].(string)
	return strings.TrimSpace(s)
}

// Filled reports whether a field carries any value a human would not leave
// in a hidden input.
func (p Payload) Filled(field string) bool {
	switch v := p[field].(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case bool:
		return v
	default:
		return true
	}
}

// Rule is one required field. Email rules also check the address shape.
type Rule struct {
	Field string
	Email bool
}

// Required returns a rule for a non-empty string field.
func Required(field string) Rule {
	return Rule{Field: field}
}

// RequiredEmail returns a rule for a non-empty, well-formed email field.
func RequiredEmail(field string) Rule {
	return Rule{Field: field, Email: true}
}

func (r Rule) tags() string {
	if r.Email {
		return "required,simpleemail"
	}
	return "required"
}

// Check applies rules in order and reports the first failure as a 400
// naming the field.
func Check(p Payload, rules []Rule) error {
	for _, rule := range rules {
		if err := validate.Var(p.String(rule.Field), rule.tags()); err != nil {
			return extractValidationError(rule.Field, err)
		}
	}
	return nil
}

func extractValidationError(field string, err error) *errs.HTTPError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return errs.NewInvalidFieldError(field, field+" is invalid")
	}

	switch validationErrors[0].Tag() {
	case "required":
		return errs.NewInvalidFieldError(field, field+" is required")
	default:
		return errs.NewInvalidFieldError(field, field+" is invalid")
	}
}
