package handlers

import (
	"errors"

	"github.com/ruruk/palcofon/internal/domain"
	applog "github.com/ruruk/palcofon/internal/log"
	"github.com/ruruk/palcofon/internal/repos"
	"github.com/ruruk/palcofon/internal/services"
	"github.com/ruruk/palcofon/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler owns the panel: CRUD over the three catalog collections plus
// the settings page. Every mutation maps to a uniform success/failure
// message surfaced on the next page; I/O failures never crash the panel.
type AdminHandler struct {
	Catalog  *repos.Catalog
	Settings *repos.SettingsRepo
	Query    *services.CatalogService
}

// mutationMessage maps a persistence error to the user-facing text.
func mutationMessage(err error, kind string) string {
	switch {
	case errors.Is(err, repos.ErrDuplicateID):
		return kind + " ID already exists"
	case errors.Is(err, repos.ErrNotFound):
		return kind + " not found"
	default:
		return "Failed to save " + kind
	}
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	cats, err := h.Catalog.Categories.All()
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the dashboard"})
	}
	products, err := h.Catalog.Products.All()
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the dashboard"})
	}
	apps, err := h.Catalog.Applications.All()
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the dashboard"})
	}
	return render(c, "admin_dashboard", fiber.Map{
		"CategoryCount":    len(cats),
		"ProductCount":     len(products),
		"ApplicationCount": len(apps),
	})
}

// ---------- Categories ----------

// GET /admin/categories
func (h *AdminHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.Categories.All()
	if err != nil {
		applog.Error(c, "admin.categories.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load categories"})
	}
	type row struct {
		domain.Category
		ProductCount int
	}
	rows := make([]row, 0, len(cats))
	for _, cat := range cats {
		n, err := h.Query.ProductCountForCategory(cat.ID)
		if err != nil {
			applog.Error(c, "admin.categories.list.fail", err, nil)
			return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load categories"})
		}
		rows = append(rows, row{Category: cat, ProductCount: n})
	}
	return render(c, "admin_categories", fiber.Map{
		"Categories": rows, "Notice": c.Query("notice"), "Err": c.Query("err"),
	})
}

// POST /admin/categories
func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	id, okID := validate.ID(c.FormValue("id"))
	name, okName := validate.Name(c.FormValue("name"))
	if !okID || !okName {
		return c.Redirect("/admin/categories?err=" + uriEscape("Invalid id or name"))
	}
	if err := h.Catalog.Categories.Create(domain.Category{ID: id, Name: name}); err != nil {
		applog.Error(c, "admin.categories.create.fail", err, map[string]any{"category": id})
		return c.Redirect("/admin/categories?err=" + uriEscape(mutationMessage(err, "Category")))
	}
	applog.Audit(c, "admin.categories.create", map[string]any{"category": id})
	return c.Redirect("/admin/categories?notice=" + uriEscape("Category created successfully"))
}

// POST /admin/categories/:id/update
func (h *AdminHandler) UpdateCategory(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	name, okName := validate.Name(c.FormValue("name"))
	if !okID || !okName {
		return c.Redirect("/admin/categories?err=" + uriEscape("Invalid id or name"))
	}
	if err := h.Catalog.Categories.Update(domain.Category{ID: id, Name: name}); err != nil {
		applog.Error(c, "admin.categories.update.fail", err, map[string]any{"category": id})
		return c.Redirect("/admin/categories?err=" + uriEscape(mutationMessage(err, "Category")))
	}
	applog.Audit(c, "admin.categories.update", map[string]any{"category": id})
	return c.Redirect("/admin/categories?notice=" + uriEscape("Category updated successfully"))
}

// POST /admin/categories/:id/delete
func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Catalog.Categories.Delete(id); err != nil {
		applog.Error(c, "admin.categories.delete.fail", err, map[string]any{"category": id})
		return c.Redirect("/admin/categories?err=" + uriEscape(mutationMessage(err, "Category")))
	}
	applog.Audit(c, "admin.categories.delete", map[string]any{"category": id})
	return c.Redirect("/admin/categories?notice=" + uriEscape("Category deleted successfully"))
}

// ---------- Settings ----------

// GET /admin/settings
func (h *AdminHandler) SettingsPage(c *fiber.Ctx) error {
	s, err := h.Settings.Load()
	if err != nil {
		applog.Error(c, "admin.settings.load.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load settings"})
	}
	return render(c, "admin_settings", fiber.Map{"S": s, "Notice": c.Query("notice")})
}

// POST /admin/settings
// The toggles are persisted but gate no behavior elsewhere.
func (h *AdminHandler) SaveSettings(c *fiber.Ctx) error {
	s := domain.Settings{
		SiteName:        c.FormValue("siteName"),
		SiteDescription: c.FormValue("siteDescription"),
		ContactEmail:    c.FormValue("contactEmail"),
		ContactPhone:    c.FormValue("contactPhone"),
		EnableInquiries: c.FormValue("enableInquiries") == "on",
		EnableAnalytics: c.FormValue("enableAnalytics") == "on",
		AnalyticsID:     c.FormValue("analyticsId"),
		MaintenanceMode: c.FormValue("maintenanceMode") == "on",
	}
	if s.SiteName == "" {
		return c.Status(400).Render("admin_settings", fiber.Map{"S": s, "Err": "Site name is required"})
	}
	if err := h.Settings.Save(s); err != nil {
		applog.Error(c, "admin.settings.save.fail", err, nil)
		return c.Status(500).Render("admin_settings", fiber.Map{"S": s, "Err": "Failed to save settings"})
	}
	applog.Audit(c, "admin.settings.save", nil)
	return c.Redirect("/admin/settings?notice=" + uriEscape("Settings saved successfully"))
}
