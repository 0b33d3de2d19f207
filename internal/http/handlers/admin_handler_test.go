package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"

	"github.com/ruruk/palcofon/internal/http/handlers"
	"github.com/ruruk/palcofon/internal/repos"
	"github.com/ruruk/palcofon/internal/services"
)

// Admin pages mounted without the auth guard, straight on temp-backed stores.
func newAdminPagesApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	bus := EventBus.New()
	dir := t.TempDir()
	cat := repos.OpenCatalog(dir, bus)
	h := &handlers.AdminHandler{
		Catalog:  cat,
		Settings: repos.NewSettingsRepo(dir),
		Query:    services.NewCatalogService(cat, bus),
	}

	engine := html.New("../../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Get("/admin", h.Dashboard)
	app.Get("/admin/categories", h.Categories)
	return app, dir
}

// An unreadable collection file must surface the failure page, not a
// dashboard of zero counts.
func TestAdminDashboardCorruptFileIs500(t *testing.T) {
	app, dir := newAdminPagesApp(t)
	if err := os.WriteFile(filepath.Join(dir, "products.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Could not load the dashboard") {
		t.Fatalf("failure message not rendered: %.200s", body)
	}
}

func TestAdminCategoriesCorruptProductsIs500(t *testing.T) {
	app, dir := newAdminPagesApp(t)
	// Categories load fine; the per-row product count hits the bad file.
	if err := os.WriteFile(filepath.Join(dir, "categories.json"), []byte(`[{"id":"flood","name":"Floodlights"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "products.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/admin/categories", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Could not load categories") {
		t.Fatalf("failure message not rendered: %.200s", body)
	}
}
