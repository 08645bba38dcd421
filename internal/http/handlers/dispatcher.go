package handlers

import (
	"regexp"

	"github.com/gofiber/fiber/v2"

	applog "autoshop/internal/log"
	"autoshop/internal/validate"
)

// Shop URLs carry the object id after the last slug: {path}{name}~p{id} or {path}{name}~c{id}.
var (
	productRoute  = regexp.MustCompile(`^/shop/(.*?)([\w-]+)~p(\d+)$`)
	categoryRoute = regexp.MustCompile(`^/shop/(.*?)([\w-]+)~c(\d+)$`)
)

type Dispatcher struct {
	Products *ProductHandler
	Listings *ListingHandler
}

func (d *Dispatcher) Shop(c *fiber.Ctx) error {
	path := c.Path()
	if m := productRoute.FindStringSubmatch(path); m != nil {
		id, ok := validate.ID(m[3])
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "product"})
			return fiber.NewError(fiber.StatusNotFound, msgProductNotFound)
		}
		return d.Products.Detail(c, id)
	}
	if m := categoryRoute.FindStringSubmatch(path); m != nil {
		id, ok := validate.ID(m[3])
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "category"})
			return fiber.NewError(fiber.StatusNotFound, "Page not found")
		}
		return d.Listings.Category(c, id)
	}
	return fiber.NewError(fiber.StatusNotFound, "Page not found")
}
