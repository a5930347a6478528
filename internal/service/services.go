package service

import (
	"github.com/deppfellow/go-forms/internal/lib/chat"
	"github.com/deppfellow/go-forms/internal/lib/email"
	"github.com/deppfellow/go-forms/internal/lib/job"
	"github.com/deppfellow/go-forms/internal/repository"
	"github.com/deppfellow/go-forms/internal/server"
)

type Services struct {
	Forms *FormService
	Job   *job.JobService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	chatClient := chat.NewClient(s.HTTPClient, s.Config.Slack.WebhookURL)
	emailClient := email.NewClient(s.Config, s.Logger)

	return &Services{
		Forms: NewFormService(s, repos, chatClient, emailClient),
		Job:   s.Job,
	}, nil
}
