package handlers

import (
	"strings"

	"github.com/ruruk/palcofon/internal/domain"
	applog "github.com/ruruk/palcofon/internal/log"
	"github.com/ruruk/palcofon/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// GET /admin/applications
func (h *AdminHandler) Applications(c *fiber.Ctx) error {
	apps, err := h.Catalog.Applications.All()
	if err != nil {
		applog.Error(c, "admin.applications.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load applications"})
	}
	return render(c, "admin_applications", fiber.Map{
		"Applications": apps, "Notice": c.Query("notice"), "Err": c.Query("err"),
	})
}

// GET /admin/applications/new and /admin/applications/:id
func (h *AdminHandler) ApplicationForm(c *fiber.Ctx) error {
	products, err := h.Catalog.Products.All()
	if err != nil {
		applog.Error(c, "admin.applications.form.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the form"})
	}

	data := fiber.Map{"Products": products, "IsNew": true}
	if id := c.Params("id"); id != "" {
		a, found, err := h.Catalog.Applications.Get(id)
		if err != nil {
			applog.Error(c, "admin.applications.form.fail", err, map[string]any{"application": id})
			return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the application"})
		}
		if !found {
			return c.Status(404).Render("notfound", fiber.Map{"Message": "Application not found"})
		}
		data["A"] = a
		data["IsNew"] = false
	}
	return render(c, "admin_application_form", data)
}

func applicationFromForm(c *fiber.Ctx, existing domain.Application) domain.Application {
	a := existing
	a.Name = strings.TrimSpace(c.FormValue("name"))
	a.Subname = strings.TrimSpace(c.FormValue("subname"))
	a.MainImage = strings.TrimSpace(c.FormValue("main_image"))
	a.CertificationImages = splitLines(c.FormValue("certification_images"))
	a.Description = strings.TrimSpace(c.FormValue("description"))
	a.ProductIDs = formValues(c, "product_ids")
	a.PDFLink = strings.TrimSpace(c.FormValue("pdf_link"))
	return a
}

// POST /admin/applications
func (h *AdminHandler) CreateApplication(c *fiber.Ctx) error {
	id, okID := validate.ID(c.FormValue("id"))
	name, okName := validate.Name(c.FormValue("name"))
	if !okID || !okName {
		return c.Redirect("/admin/applications?err=" + uriEscape("Invalid id or name"))
	}
	a := applicationFromForm(c, domain.Application{ID: id})
	a.Name = name
	if err := h.Catalog.Applications.Create(a); err != nil {
		applog.Error(c, "admin.applications.create.fail", err, map[string]any{"application": id})
		return c.Redirect("/admin/applications?err=" + uriEscape(mutationMessage(err, "Application")))
	}
	applog.Audit(c, "admin.applications.create", map[string]any{"application": id})
	return c.Redirect("/admin/applications?notice=" + uriEscape("Application created successfully"))
}

// POST /admin/applications/:id/update
func (h *AdminHandler) UpdateApplication(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	existing, found, err := h.Catalog.Applications.Get(id)
	if err != nil {
		applog.Error(c, "admin.applications.update.fail", err, map[string]any{"application": id})
		return c.Redirect("/admin/applications?err=" + uriEscape("Failed to save Application"))
	}
	if !found {
		return c.Redirect("/admin/applications?err=" + uriEscape("Application not found"))
	}
	a := applicationFromForm(c, existing)
	if err := h.Catalog.Applications.Update(a); err != nil {
		applog.Error(c, "admin.applications.update.fail", err, map[string]any{"application": id})
		return c.Redirect("/admin/applications?err=" + uriEscape(mutationMessage(err, "Application")))
	}
	applog.Audit(c, "admin.applications.update", map[string]any{"application": id})
	return c.Redirect("/admin/applications?notice=" + uriEscape("Application updated successfully"))
}

// POST /admin/applications/:id/delete
func (h *AdminHandler) DeleteApplication(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Catalog.Applications.Delete(id); err != nil {
		applog.Error(c, "admin.applications.delete.fail", err, map[string]any{"application": id})
		return c.Redirect("/admin/applications?err=" + uriEscape(mutationMessage(err, "Application")))
	}
	applog.Audit(c, "admin.applications.delete", map[string]any{"application": id})
	return c.Redirect("/admin/applications?notice=" + uriEscape("Application deleted successfully"))
}
