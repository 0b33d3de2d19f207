package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"

	"github.com/ruruk/palcofon/internal/http/handlers"
	"github.com/ruruk/palcofon/internal/repos"
	"github.com/ruruk/palcofon/internal/services"
)

// Minimal app for admin guard testing
func newAdminApp(t *testing.T) (*fiber.App, *repos.UserRepo) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}

	engine := html.New("../../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})

	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	return app, userRepo
}

func TestAdminGuard(t *testing.T) {
	app, userRepo := newAdminApp(t)

	// Anonymous -> redirect to login
	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("anonymous: expected redirect, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Fatalf("anonymous: expected /login, got %q", loc)
	}

	// Stale sid with no bound user -> 403
	reqStale := httptest.NewRequest("GET", "/admin", nil)
	reqStale.AddCookie(&http.Cookie{Name: "sid", Value: "sid-unknown"})
	respStale, err := app.Test(reqStale)
	if err != nil {
		t.Fatal(err)
	}
	if respStale.StatusCode != http.StatusForbidden {
		t.Fatalf("stale sid: expected 403, got %d", respStale.StatusCode)
	}

	// Seeded admin with a bound session -> 200
	if err := userRepo.BindSession("sid-admin", "u-admin"); err != nil {
		t.Fatal(err)
	}
	reqAdmin := httptest.NewRequest("GET", "/admin", nil)
	reqAdmin.AddCookie(&http.Cookie{Name: "sid", Value: "sid-admin"})
	respAdmin, err := app.Test(reqAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if respAdmin.StatusCode != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d", respAdmin.StatusCode)
	}
}

func TestLoginBindsAdminSession(t *testing.T) {
	_, userRepo := newAdminApp(t)
	authSvc := &services.AuthService{Users: userRepo}

	u, err := authSvc.Login("sid-1", "admin@palcofon.co.za", "Palc0fon!")
	if err != nil {
		t.Fatalf("seeded admin login failed: %v", err)
	}
	if u.Role != "ADMIN" {
		t.Fatalf("want ADMIN, got %q", u.Role)
	}

	got, err := authSvc.CurrentUser("sid-1")
	if err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("session not bound: %v %+v", err, got)
	}

	if _, err := authSvc.Login("sid-2", "admin@palcofon.co.za", "wrong-password"); err == nil {
		t.Fatal("bad password must fail")
	}

	if err := authSvc.Logout("sid-1"); err != nil {
		t.Fatal(err)
	}
	if got, err := authSvc.CurrentUser("sid-1"); err == nil && got != nil {
		t.Fatalf("session survived logout: %+v", got)
	}
}
