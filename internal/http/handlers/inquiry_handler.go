package handlers

import (
	applog "github.com/ruruk/palcofon/internal/log"
	"github.com/ruruk/palcofon/internal/services"
	"github.com/ruruk/palcofon/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type InquiryHandler struct {
	Inquiry *services.InquiryService
	Catalog *services.CatalogService
	Relay   *services.RelayService
}

func (h *InquiryHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	items, err := h.Inquiry.List(sid)
	if err != nil {
		applog.Error(c, "inquiry.view.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your inquiry list"})
	}
	return render(c, "inquiry", fiber.Map{"Items": items})
}

// Add puts a product on the inquiry list (quantity 1, or +1 if present).
func (h *InquiryHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	pid, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}
	p, found, err := h.Catalog.Product(pid)
	if err != nil {
		applog.Error(c, "inquiry.add.fail", err, map[string]any{"product": pid})
		return c.Status(500).SendString("Could not add product")
	}
	if !found {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This product is no longer available"})
	}
	if err := h.Inquiry.Add(sid, p.ID, p.Name); err != nil {
		applog.Error(c, "inquiry.add.fail", err, map[string]any{"product": pid})
		return c.Status(500).SendString("Could not add product")
	}
	applog.Info(c, "inquiry.add", map[string]any{"product": pid})
	back := c.Get("Referer")
	if back == "" {
		back = "/inquiry"
	}
	return c.Redirect(back)
}

// UpdateQuantity sets a line item's quantity; zero removes it.
func (h *InquiryHandler) UpdateQuantity(c *fiber.Ctx) error {
	sid := ensureSID(c)
	pid, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}
	qty, ok := validate.Qty(c.FormValue("qty"))
	if !ok {
		return c.Status(400).SendString("invalid quantity")
	}
	if err := h.Inquiry.SetQuantity(sid, pid, qty); err != nil {
		applog.Error(c, "inquiry.quantity.fail", err, map[string]any{"product": pid, "qty": qty})
		return c.Status(500).SendString("Could not update quantity")
	}
	return c.Redirect("/inquiry")
}

func (h *InquiryHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	pid, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}
	if err := h.Inquiry.Remove(sid, pid); err != nil {
		applog.Error(c, "inquiry.remove.fail", err, map[string]any{"product": pid})
		return c.Status(500).SendString("Could not remove product")
	}
	return c.Redirect("/inquiry")
}

func (h *InquiryHandler) Clear(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Inquiry.Clear(sid); err != nil {
		applog.Error(c, "inquiry.clear.fail", err, nil)
		return c.Status(500).SendString("Could not clear the inquiry list")
	}
	return c.Redirect("/inquiry")
}

// Submit relays the inquiry to the mail endpoint and clears the list on
// success. Failures re-render the page with the items intact for retry.
func (h *InquiryHandler) Submit(c *fiber.Ctx) error {
	sid := ensureSID(c)
	items, err := h.Inquiry.List(sid)
	if err != nil {
		applog.Error(c, "inquiry.submit.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your inquiry list"})
	}

	sub := services.InquirySubmission{
		SelectedProducts: items,
		Email:            c.FormValue("email"),
		Message:          c.FormValue("message"),
	}
	if err := payloadValidator.Struct(sub); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"form": "inquiry"})
		return c.Status(400).Render("inquiry", fiber.Map{
			"Items": items, "Err": "Please select at least one product and fill in a valid email and message.",
			"Email": sub.Email, "Message": sub.Message,
		})
	}

	res := h.Relay.SendInquiry(sub)
	if !res.Success {
		applog.Error(c, "inquiry.relay.fail", nil, map[string]any{"message": res.Message})
		return render(c, "inquiry", fiber.Map{
			"Items": items, "Err": res.Message,
			"Email": sub.Email, "Message": sub.Message,
		})
	}

	if err := h.Inquiry.Clear(sid); err != nil {
		applog.Error(c, "inquiry.clear.fail", err, nil)
	}
	applog.Audit(c, "inquiry.submit", map[string]any{"products": len(items)})
	return render(c, "inquiry", fiber.Map{"Items": []any{}, "Notice": res.Message})
}

// Count serves the floating badge. Always recomputed from the store.
func (h *InquiryHandler) Count(c *fiber.Ctx) error {
	sid := ensureSID(c)
	n, err := h.Inquiry.Count(sid)
	if err != nil {
		applog.Error(c, "inquiry.count.fail", err, nil)
		return c.Status(500).JSON(fiber.Map{"error": "count unavailable"})
	}
	return c.JSON(fiber.Map{"count": n})
}
