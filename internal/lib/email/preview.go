package email

// PreviewData contains sample template data for local preview/testing,
// keyed by template.
var PreviewData = map[Template]any{
	TemplateApplicationReceived: ApplicationReceived{FullName: "Ada Lovelace"},
	TemplateMerchWaitlist:       MerchWaitlist{Name: "Grace Hopper", SizePreference: "M"},
}
