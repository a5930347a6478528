package handler

import (
	"github.com/deppfellow/go-forms/internal/server"
	"github.com/deppfellow/go-forms/internal/service"
)

// Handlers is a container that groups all HTTP handlers, so router setup
// receives one object instead of many.
type Handlers struct {
	Health *HealthHandler // Health serves the status endpoint.
	Forms  *FormHandler   // Forms serves the submission endpoints.
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(s, services.Forms),
		Forms:  NewFormHandler(s, services.Forms),
	}
}
