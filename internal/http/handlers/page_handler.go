package handlers

import (
	applog "github.com/ruruk/palcofon/internal/log"
	"github.com/ruruk/palcofon/internal/domain"
	"github.com/ruruk/palcofon/internal/repos"
	"github.com/ruruk/palcofon/internal/services"

	"github.com/gofiber/fiber/v2"
)

type PageHandler struct {
	Catalog  *services.CatalogService
	Settings *repos.SettingsRepo
}

type categoryCard struct {
	domain.Category
	ProductCount int
}

func (h *PageHandler) Home(c *fiber.Ctx) error {
	cats, err := h.Catalog.Categories()
	if err != nil {
		applog.Error(c, "home.load.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the page. Please retry."})
	}
	cards := make([]categoryCard, 0, len(cats))
	for _, cat := range cats {
		n, err := h.Catalog.ProductCountForCategory(cat.ID)
		if err != nil {
			applog.Error(c, "home.load.fail", err, nil)
			return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the page. Please retry."})
		}
		cards = append(cards, categoryCard{Category: cat, ProductCount: n})
	}
	apps, err := h.Catalog.Applications()
	if err != nil {
		applog.Error(c, "home.load.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the page. Please retry."})
	}
	return render(c, "home", fiber.Map{"Categories": cards, "Applications": apps})
}

func (h *PageHandler) About(c *fiber.Ctx) error {
	return render(c, "about", fiber.Map{})
}
