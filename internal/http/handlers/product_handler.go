package handlers

import (
	"strings"

	"github.com/ruruk/palcofon/internal/log"
	"github.com/ruruk/palcofon/internal/services"
	"github.com/ruruk/palcofon/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// List renders the catalog with the filter sidebar. Query params: category,
// application (each optional, single id) and search. Absent params mean no
// restriction.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	filter := services.ProductFilter{}

	if category := strings.TrimSpace(c.Query("category")); category != "" {
		if _, ok := validate.ID(category); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "category"})
			return c.Status(fiber.StatusBadRequest).Render("notfound", fiber.Map{"Message": "Invalid filter"})
		}
		filter.CategoryIDs = []string{category}
	}
	if application := strings.TrimSpace(c.Query("application")); application != "" {
		if _, ok := validate.ID(application); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "application"})
			return c.Status(fiber.StatusBadRequest).Render("notfound", fiber.Map{"Message": "Invalid filter"})
		}
		filter.ApplicationIDs = []string{application}
	}
	if rawQ := c.Query("search"); strings.TrimSpace(rawQ) != "" {
		q, ok := validate.Q(rawQ)
		if !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "search", "value": rawQ})
			return c.Status(fiber.StatusBadRequest).Render("notfound", fiber.Map{"Message": "Enter a valid keyword (letters/numbers only)"})
		}
		filter.SearchText = q
	}

	products, err := h.Catalog.Filter(filter)
	if err != nil {
		log.Error(c, "products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products. Please retry."})
	}
	cats, err := h.Catalog.Categories()
	if err != nil {
		log.Error(c, "products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products. Please retry."})
	}
	apps, err := h.Catalog.Applications()
	if err != nil {
		log.Error(c, "products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products. Please retry."})
	}

	var selCategory, selApplication string
	if len(filter.CategoryIDs) > 0 {
		selCategory = filter.CategoryIDs[0]
	}
	if len(filter.ApplicationIDs) > 0 {
		selApplication = filter.ApplicationIDs[0]
	}
	return render(c, "products", fiber.Map{
		"Products": products, "Count": len(products),
		"Categories": cats, "Applications": apps,
		"Category": selCategory, "Application": selApplication, "Search": filter.SearchText,
	})
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This product is no longer available"})
	}
	p, found, err := h.Catalog.Product(id)
	if err != nil {
		log.Error(c, "product.detail.fail", err, map[string]any{"product": id})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the product. Please retry."})
	}
	if !found {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This product is no longer available"})
	}

	names, err := h.Catalog.CategoryNames()
	if err != nil {
		log.Error(c, "product.detail.fail", err, map[string]any{"product": id})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the product. Please retry."})
	}
	// Soft reference: a missing category renders as Uncategorized.
	categoryName := names[p.CategoryID]
	if categoryName == "" {
		categoryName = "Uncategorized"
	}

	apps, err := h.Catalog.Applications()
	if err != nil {
		log.Error(c, "product.detail.fail", err, map[string]any{"product": id})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the product. Please retry."})
	}
	related := apps[:0:0]
	for _, a := range apps {
		for _, aid := range p.ApplicationIDs {
			if a.ID == aid {
				related = append(related, a)
				break
			}
		}
	}

	return render(c, "product", fiber.Map{
		"P": p, "CategoryName": categoryName, "RelatedApplications": related,
	})
}
