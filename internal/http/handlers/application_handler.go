package handlers

import (
	"github.com/ruruk/palcofon/internal/log"
	"github.com/ruruk/palcofon/internal/services"
	"github.com/ruruk/palcofon/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ApplicationHandler struct {
	Catalog *services.CatalogService
}

func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	apps, err := h.Catalog.Applications()
	if err != nil {
		log.Error(c, "applications.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load applications. Please retry."})
	}
	return render(c, "applications", fiber.Map{"Applications": apps})
}

func (h *ApplicationHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "application"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This application is no longer available"})
	}
	a, found, err := h.Catalog.Application(id)
	if err != nil {
		log.Error(c, "application.detail.fail", err, map[string]any{"application": id})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the application. Please retry."})
	}
	if !found {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This application is no longer available"})
	}
	products, err := h.Catalog.Related(id)
	if err != nil {
		log.Error(c, "application.detail.fail", err, map[string]any{"application": id})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the application. Please retry."})
	}
	return render(c, "application", fiber.Map{"A": a, "Products": products})
}
