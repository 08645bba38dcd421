package handlers

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"

	"autoshop/internal/i18n"
)

const (
	layoutMain = "layouts/main"

	localsLocale  = "locale"
	localsVisitor = "visitor"
)

// NewEngine builds the template engine over the templates directory of fsys.
func NewEngine(fsys fs.FS, tr *i18n.Translator, reload bool) (*html.Engine, error) {
	sub, err := fs.Sub(fsys, "templates")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.Reload(reload)
	engine.AddFunc("t", tr.Trans)
	engine.AddFunc("price", formatPrice)
	engine.AddFunc("join", strings.Join)
	return engine, nil
}

func formatPrice(v float64) string {
	return fmt.Sprintf("€ %.2f", v)
}

func withDefaults(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}
	if _, ok := data["Locale"]; !ok {
		data["Locale"] = localeOf(c)
	}
	if _, ok := data["Term"]; !ok {
		data["Term"] = ""
	}
	if v := visitorOf(c); v != "" {
		data["Visitor"] = v
	}
	return data
}

// render writes a full page inside the main layout.
func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	return c.Render(tmpl, withDefaults(c, data), layoutMain)
}

// renderFragment writes a template without the layout, for ajax reloads and teasers.
func renderFragment(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	return c.Render(tmpl, withDefaults(c, data))
}

func localeOf(c *fiber.Ctx) string {
	if l, ok := c.Locals(localsLocale).(string); ok && l != "" {
		return l
	}
	return defaultLocale
}

func visitorOf(c *fiber.Ctx) string {
	v, _ := c.Locals(localsVisitor).(string)
	return v
}
