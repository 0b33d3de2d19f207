package handlers

import (
	"net/url"
	"strings"

	"github.com/ruruk/palcofon/internal/domain"
	applog "github.com/ruruk/palcofon/internal/log"
	"github.com/ruruk/palcofon/internal/services"
	"github.com/ruruk/palcofon/internal/validate"

	"github.com/gofiber/fiber/v2"
)

func uriEscape(s string) string { return url.QueryEscape(s) }

// splitLines turns a textarea value into a trimmed, non-empty string slice.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// formValues returns all posted values for a repeated form key (checkboxes).
func formValues(c *fiber.Ctx, key string) []string {
	raw := c.Request().PostArgs().PeekMulti(key)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s := strings.TrimSpace(string(v)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// GET /admin/products
func (h *AdminHandler) Products(c *fiber.Ctx) error {
	filter := services.ProductFilter{}
	if rawQ := c.Query("search"); strings.TrimSpace(rawQ) != "" {
		if q, ok := validate.Q(rawQ); ok {
			filter.SearchText = q
		}
	}
	products, err := h.Query.Filter(filter)
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	names, err := h.Query.CategoryNames()
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	type row struct {
		domain.Product
		CategoryName string
	}
	rows := make([]row, 0, len(products))
	for _, p := range products {
		name := names[p.CategoryID]
		if name == "" {
			name = "Uncategorized"
		}
		rows = append(rows, row{Product: p, CategoryName: name})
	}
	return render(c, "admin_products", fiber.Map{
		"Products": rows, "Search": filter.SearchText,
		"Notice": c.Query("notice"), "Err": c.Query("err"),
	})
}

// GET /admin/products/new and /admin/products/:id
func (h *AdminHandler) ProductForm(c *fiber.Ctx) error {
	cats, err := h.Catalog.Categories.All()
	if err != nil {
		applog.Error(c, "admin.products.form.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the form"})
	}
	apps, err := h.Catalog.Applications.All()
	if err != nil {
		applog.Error(c, "admin.products.form.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the form"})
	}

	data := fiber.Map{"Categories": cats, "Applications": apps, "IsNew": true}
	if id := c.Params("id"); id != "" {
		p, found, err := h.Catalog.Products.Get(id)
		if err != nil {
			applog.Error(c, "admin.products.form.fail", err, map[string]any{"product": id})
			return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the product"})
		}
		if !found {
			return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
		}
		data["P"] = p
		data["IsNew"] = false
	}
	return render(c, "admin_product_form", data)
}

// productFromForm builds the record from posted fields, overlaying an
// existing record so fields the form doesn't carry (spec sections,
// additional images) survive an update.
func productFromForm(c *fiber.Ctx, existing domain.Product) domain.Product {
	p := existing
	p.Name = strings.TrimSpace(c.FormValue("name"))
	p.Description = strings.TrimSpace(c.FormValue("description"))
	p.MainImage = strings.TrimSpace(c.FormValue("main_image"))
	p.Images = splitLines(c.FormValue("images"))
	p.CertificationImages = splitLines(c.FormValue("certification_images"))
	p.Wattage = strings.TrimSpace(c.FormValue("wattage"))
	p.IPRating = strings.TrimSpace(c.FormValue("ip_rating"))
	p.Warranty = strings.TrimSpace(c.FormValue("warranty"))
	p.ColourTemp = strings.TrimSpace(c.FormValue("colour_temp"))
	p.CategoryID = strings.TrimSpace(c.FormValue("category_id"))
	p.ApplicationIDs = formValues(c, "application_ids")
	p.VideoLink = strings.TrimSpace(c.FormValue("video_link"))
	p.VideoType = strings.TrimSpace(c.FormValue("video_type"))
	p.PDFLink = strings.TrimSpace(c.FormValue("pdf_link"))
	p.Price = strings.TrimSpace(c.FormValue("price"))
	p.GTIN = strings.TrimSpace(c.FormValue("gtin"))
	p.Condition = strings.TrimSpace(c.FormValue("condition"))
	p.Availability = strings.TrimSpace(c.FormValue("availability"))
	return p
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	id, okID := validate.ID(c.FormValue("id"))
	name, okName := validate.Name(c.FormValue("name"))
	if !okID || !okName {
		return c.Redirect("/admin/products?err=" + uriEscape("Invalid id or name"))
	}
	p := productFromForm(c, domain.Product{ID: id})
	p.Name = name
	if err := h.Catalog.Products.Create(p); err != nil {
		applog.Error(c, "admin.products.create.fail", err, map[string]any{"product": id})
		return c.Redirect("/admin/products?err=" + uriEscape(mutationMessage(err, "Product")))
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product": id})
	return c.Redirect("/admin/products?notice=" + uriEscape("Product created successfully"))
}

// POST /admin/products/:id/update
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	existing, found, err := h.Catalog.Products.Get(id)
	if err != nil {
		applog.Error(c, "admin.products.update.fail", err, map[string]any{"product": id})
		return c.Redirect("/admin/products?err=" + uriEscape("Failed to save Product"))
	}
	if !found {
		return c.Redirect("/admin/products?err=" + uriEscape("Product not found"))
	}
	p := productFromForm(c, existing)
	if err := h.Catalog.Products.Update(p); err != nil {
		applog.Error(c, "admin.products.update.fail", err, map[string]any{"product": id})
		return c.Redirect("/admin/products?err=" + uriEscape(mutationMessage(err, "Product")))
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product": id})
	return c.Redirect("/admin/products?notice=" + uriEscape("Product updated successfully"))
}

// POST /admin/products/:id/delete
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Catalog.Products.Delete(id); err != nil {
		applog.Error(c, "admin.products.delete.fail", err, map[string]any{"product": id})
		return c.Redirect("/admin/products?err=" + uriEscape(mutationMessage(err, "Product")))
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product": id})
	return c.Redirect("/admin/products?notice=" + uriEscape("Product deleted successfully"))
}
