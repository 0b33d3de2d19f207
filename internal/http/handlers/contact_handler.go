package handlers

import (
	"github.com/go-playground/validator/v10"

	applog "github.com/ruruk/palcofon/internal/log"
	"github.com/ruruk/palcofon/internal/services"

	"github.com/gofiber/fiber/v2"
)

var payloadValidator = validator.New()

type ContactHandler struct {
	Relay *services.RelayService
}

func (h *ContactHandler) Form(c *fiber.Ctx) error {
	return render(c, "contact", fiber.Map{})
}

func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	sub := services.ContactSubmission{
		Name:    c.FormValue("name"),
		Email:   c.FormValue("email"),
		Message: c.FormValue("message"),
		Phone:   c.FormValue("phone"),
		Company: c.FormValue("company"),
		Subject: c.FormValue("subject"),
		Source:  "contact-page",
	}
	if err := payloadValidator.Struct(sub); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"form": "contact"})
		return c.Status(400).Render("contact", fiber.Map{
			"Err":  "Please fill in your name, a valid email and a message.",
			"Form": sub,
		})
	}

	res := h.Relay.SendContact(sub)
	if !res.Success {
		applog.Error(c, "contact.relay.fail", nil, map[string]any{"message": res.Message})
		return render(c, "contact", fiber.Map{"Err": res.Message, "Form": sub})
	}
	applog.Info(c, "contact.sent", nil)
	return render(c, "contact", fiber.Map{"Notice": res.Message})
}
