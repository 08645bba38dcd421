package handlers_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"autoshop/internal/http/handlers"
	"autoshop/internal/i18n"
	"autoshop/web"
)

func newErrorApp(t *testing.T) *fiber.App {
	t.Helper()
	tr, err := i18n.Load(web.Files, "translations", "en")
	if err != nil {
		t.Fatalf("translations: %v", err)
	}
	engine, err := handlers.NewEngine(web.Files, tr, false)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	app := fiber.New(fiber.Config{Views: engine, ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	app.Use(handlers.Locale(tr))
	return app
}

// friendly error surface, no internal leakage
func TestErrorHandlerFriendlyMessage(t *testing.T) {
	app := newErrorApp(t)

	// Route that triggers an internal error
	app.Get("/err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})

	req := httptest.NewRequest("GET", "/err", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("test request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	s := string(body)
	if !strings.Contains(s, "Something went wrong") {
		t.Fatalf("friendly message missing; body=%s", s)
	}
	if strings.Contains(s, "db timeout") || strings.Contains(s, "secret") {
		t.Fatalf("internal details leaked to user; body=%s", s)
	}
}

func TestErrorHandlerKeepsNotFoundMessage(t *testing.T) {
	app := newErrorApp(t)
	app.Get("/gone", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Product not found.")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/gone", nil))
	if err != nil {
		t.Fatalf("test request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Product not found.") {
		t.Fatalf("not found message missing; body=%s", body)
	}
}
