package handler

import (
	"github.com/deppfellow/go-forms/internal/server"
	"github.com/deppfellow/go-forms/internal/service"
	"github.com/labstack/echo/v4"
)

// FormHandler serves the four form routes.
type FormHandler struct {
	Handler
	forms *service.FormService
}

func NewFormHandler(s *server.Server, forms *service.FormService) *FormHandler {
	return &FormHandler{
		Handler: NewHandler(s),
		forms:   forms,
	}
}

func (h *FormHandler) Apply(c echo.Context) error {
	return handleForm(c, h.forms, h.forms.Application)
}

func (h *FormHandler) Newsletter(c echo.Context) error {
	return handleForm(c, h.forms, h.forms.Newsletter)
}

func (h *FormHandler) NewsletterSubscribe(c echo.Context) error {
	return handleForm(c, h.forms, h.forms.NewsletterNamed)
}

func (h *FormHandler) MerchWaitlist(c echo.Context) error {
	return handleForm(c, h.forms, h.forms.Merch)
}
