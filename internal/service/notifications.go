package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/deppfellow/go-forms/internal/lib/chat"
	"github.com/deppfellow/go-forms/internal/lib/email"
	"github.com/deppfellow/go-forms/internal/lib/job"
)

type notifier struct {
	chat  *chat.Client
	email *email.Client
}

func (n *notifier) application(sub Submission) []job.Task {
	to := sub.Payload.String("email")
	data := email.ApplicationReceived{FullName: sub.Payload.String("fullName")}

	return n.tasks(
		summary("New community application", sub),
		func(ctx context.Context) error {
			return n.email.SendApplicationReceived(ctx, to, data)
		},
	)
}

func (n *notifier) merch(sub Submission) []job.Task {
	to := sub.Payload.String("email")
	data := email.MerchWaitlist{
		Name:           sub.Payload.String("name"),
		SizePreference: sub.Payload.String("sizePreference"),
	}

	return n.tasks(
		summary("New merch waitlist signup", sub),
		func(ctx context.Context) error {
			return n.email.SendMerchWaitlist(ctx, to, data)
		},
	)
}

// tasks only includes the channels that are configured.
func (n *notifier) tasks(text string, sendEmail func(ctx context.Context) error) []job.Task {
	var tasks []job.Task
	if n.chat.Enabled() {
		tasks = append(tasks, job.Task{
			Channel: "chat",
			Run: func(ctx context.Context) error {
				return n.chat.Send(ctx, text)
			},
		})
	}
	if n.email.Enabled() {
		tasks = append(tasks, job.Task{Channel: "email", Run: sendEmail})
	}
	return tasks
}

// summary renders the record in mapping order.
func summary(title string, sub Submission) string {
	lines := make([]chat.Line, 0, len(sub.Form.Mappings))
	for _, m := range sub.Form.Mappings {
		value, ok := sub.Record[m.Label]
		if !ok {
			continue
		}
		lines = append(lines, chat.Line{Label: m.Label, Value: formatValue(value)})
	}
	return chat.FormatSummary(title, lines)
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		return strings.Join(t, ", ")
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	default:
		return fmt.Sprint(t)
	}
}
