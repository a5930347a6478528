package service

import (
	"github.com/deppfellow/go-forms/internal/errs"
	"github.com/deppfellow/go-forms/internal/lib/chat"
	"github.com/deppfellow/go-forms/internal/lib/email"
	"github.com/deppfellow/go-forms/internal/ratelimit"
	"github.com/deppfellow/go-forms/internal/repository"
	"github.com/deppfellow/go-forms/internal/server"
	"github.com/deppfellow/go-forms/internal/validation"
)

const honeypotField = "company"

var applicationMappings = []validation.Mapping{
	{Field: "fullName", Label: "Full Name", Kind: validation.KindText},
	{Field: "email", Label: "Email", Kind: validation.KindText},
	{Field: "linkedinUrl", Label: "LinkedIn URL", Kind: validation.KindText},
	{Field: "personalWebsite", Label: "Personal Website", Kind: validation.KindText},
	{Field: "phoneNumber", Label: "Phone Number", Kind: validation.KindText},
	{Field: "whyTTB", Label: "Why TTB", Kind: validation.KindLongText},
	{Field: "location", Label: "Location", Kind: validation.KindText},
	{Field: "fields", Label: "Fields", Kind: validation.KindMulti},
	{Field: "mostAdvancedDegree", Label: "Most Advanced Degree", Kind: validation.KindText},
	{Field: "addToMailingList", Label: "Add to Mailing List", Kind: validation.KindBool},
}

var merchMappings = []validation.Mapping{
	{Field: "name", Label: "Name", Kind: validation.KindText},
	{Field: "email", Label: "Email", Kind: validation.KindText},
	{Field: "sizePreference", Label: "Size Preference", Kind: validation.KindText},
	{Field: "interestedIn", Label: "Interested In", Kind: validation.KindMulti},
}

// NewFormService builds the four forms from the server configuration.
func NewFormService(s *server.Server, repos *repository.Repositories, chatClient *chat.Client, emailClient *email.Client) *FormService {
	cfg := s.Config
	notify := &notifier{chat: chatClient, email: emailClient}

	application := &Form{
		Name:            "application",
		Envelope:        errs.EnvelopeOK,
		SameOrigin:      true,
		UpstreamMessage: "Failed to submit application",
		Rules: []validation.Rule{
			validation.Required("fullName"),
			validation.RequiredEmail("email"),
		},
		Mappings: applicationMappings,
		Missing:  cfg.MissingForApplication,
		Writer:   repos.Applications,
		Notify:   notify.application,
	}

	newsletter := &Form{
		Name:            "newsletter",
		Envelope:        errs.EnvelopeSuccess,
		Honeypot:        honeypotField,
		RateLimited:     true,
		UpstreamMessage: "Failed to subscribe",
		Rules: []validation.Rule{
			validation.RequiredEmail("email"),
		},
		Mappings: []validation.Mapping{
			{Field: "email", Label: repository.FieldEmailAddress, Kind: validation.KindText},
		},
		Missing: cfg.MissingForNewsletter,
		Writer:  repos.Newsletter,
	}

	newsletterNamed := &Form{
		Name:                 "newsletter_named",
		Envelope:             errs.EnvelopeSuccess,
		Honeypot:             honeypotField,
		RateLimited:          true,
		ExposeUpstreamDetail: true,
		UpstreamMessage:      "Failed to subscribe",
		Rules: []validation.Rule{
			validation.RequiredEmail("email"),
			validation.Required("firstName"),
			validation.Required("lastName"),
		},
		Mappings: []validation.Mapping{
			{Field: "email", Label: repository.FieldEmailAddress, Kind: validation.KindText},
			{Field: "firstName", Label: repository.MergeFirstName, Kind: validation.KindText},
			{Field: "lastName", Label: repository.MergeLastName, Kind: validation.KindText},
		},
		Missing: cfg.MissingForNewsletter,
		Writer:  repos.Newsletter,
	}

	merch := &Form{
		Name:            "merch",
		Envelope:        errs.EnvelopeOK,
		Honeypot:        honeypotField,
		UpstreamMessage: "Failed to join waitlist",
		Rules: []validation.Rule{
			validation.Required("name"),
			validation.RequiredEmail("email"),
			validation.Required("sizePreference"),
		},
		Mappings: merchMappings,
		Missing:  cfg.MissingForMerch,
		Writer:   repos.MerchWaitlist,
		Notify:   notify.merch,
	}

	forms := &FormService{
		server:          s,
		Application:     application,
		Newsletter:      newsletter,
		NewsletterNamed: newsletterNamed,
		Merch:           merch,
	}

	for _, form := range forms.Forms() {
		if form.RateLimited {
			form.limiter = newLimiter(s, form.Name)
		}
	}

	return forms
}

// newLimiter shares windows through Redis when it is configured and keeps
// them in process memory otherwise. Each form gets its own table.
func newLimiter(s *server.Server, scope string) ratelimit.Limiter {
	limit := s.Config.RateLimit.Limit
	window := s.Config.RateLimit.Window

	if s.Redis != nil {
		return ratelimit.NewRedisLimiter(s.Redis, scope, limit, window)
	}
	return ratelimit.NewMemoryLimiter(limit, window, nil)
}
