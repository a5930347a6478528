package email

import (
	"bytes"
	"embed"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/pkg/errors"
)

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateApplicationReceived corresponds to templates/application_received.{html,txt}
	TemplateApplicationReceived Template = "application_received"
	// TemplateMerchWaitlist corresponds to templates/merch_waitlist.{html,txt}
	TemplateMerchWaitlist Template = "merch_waitlist"
)

//go:embed templates/*
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))
)

// Render executes both the HTML and the plain-text variant of a template.
func Render(name Template, data any) (string, string, error) {
	var html bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, string(name)+".html", data); err != nil {
		return "", "", errors.Wrapf(err, "failed to execute email template %s", name)
	}

	var text bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&text, string(name)+".txt", data); err != nil {
		return "", "", errors.Wrapf(err, "failed to execute email template %s", name)
	}

	return html.String(), text.String(), nil
}
