package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// render wraps c.Render, injecting the values every template expects: the
// logged-in user, the CSRF token and the inquiry badge count (both put into
// Locals by middleware), and the site settings.
func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	if tok, _ := c.Locals("CSRFToken").(string); tok != "" {
		data["CSRFToken"] = tok
	} else if cookTok := c.Cookies("csrf_"); cookTok != "" {
		data["CSRFToken"] = cookTok
	}
	if n, ok := c.Locals("InquiryCount").(int); ok {
		data["InquiryCount"] = n
	}
	if site := c.Locals("Site"); site != nil {
		data["Site"] = site
	}
	return c.Render(tmpl, data)
}

// ensureSID returns the session id cookie, minting one when absent. The
// same id keys the inquiry list and the admin session row.
func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	return sid
}
