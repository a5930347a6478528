package email

import "context"

// ApplicationReceived is the data for the application confirmation.
type ApplicationReceived struct {
	FullName string
}

// MerchWaitlist is the data for the merch waitlist confirmation.
type MerchWaitlist struct {
	Name           string
	SizePreference string
}

// SendApplicationReceived confirms a community application to the applicant.
func (c *Client) SendApplicationReceived(ctx context.Context, to string, data ApplicationReceived) error {
	if to == "" {
		return ErrNoRecipient
	}
	return c.SendEmail(ctx, to, "We received your application", TemplateApplicationReceived, data)
}

// SendMerchWaitlist confirms a merch waitlist signup.
func (c *Client) SendMerchWaitlist(ctx context.Context, to string, data MerchWaitlist) error {
	if to == "" {
		return ErrNoRecipient
	}
	return c.SendEmail(ctx, to, "You're on the merch waitlist", TemplateMerchWaitlist, data)
}
