package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/jmoiron/sqlx"

	"autoshop/internal/breadcrumb"
	"autoshop/internal/config"
	"autoshop/internal/filter"
	"autoshop/internal/i18n"
	"autoshop/internal/index"
	"autoshop/internal/links"
	applog "autoshop/internal/log"
	"autoshop/internal/preview"
	"autoshop/internal/repos"
	"autoshop/internal/segments"
	"autoshop/internal/services"
	"autoshop/internal/tracking"
)

type Deps struct {
	Catalog        *services.CatalogService
	Dispatcher     *Dispatcher
	ProductHandler *ProductHandler
	ListingHandler *ListingHandler
	SearchHandler  *SearchHandler
}

// NewDeps wires the handlers. The fallback filter definition is resolved here, once.
func NewDeps(ctx context.Context, db *sqlx.DB, cfg config.Config, idx index.Service,
	tm *tracking.Manager, tr *i18n.Translator) (*Deps, error) {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	defRepo := repos.NewFilterDefinitionRepo(db)
	segRepo := repos.NewSegmentRepo(db)

	catalogSvc := services.NewCatalogService(catRepo, prodRepo, defRepo)
	fallback, err := catalogSvc.FallbackFilterDefinition(ctx, cfg.FallbackFilterDefinitionID)
	if err != nil {
		return nil, err
	}

	gen := links.NewGenerator(catalogSvc)
	crumbs := breadcrumb.NewHelper(catalogSvc, gen)
	seg := segments.NewHelper(segRepo)
	base := catalogListing{
		Catalog:     catalogSvc,
		Index:       idx,
		Filters:     filter.NewService(),
		Tracking:    tm,
		Links:       gen,
		Breadcrumbs: crumbs,
		Fallback:    fallback,
	}

	products := NewProductHandler(catalogSvc, idx, tm, seg, gen, crumbs, preview.NewVerifier(cfg.PreviewTokenHash))
	listings := &ListingHandler{catalogListing: base, Segments: seg}
	return &Deps{
		Catalog:        catalogSvc,
		Dispatcher:     &Dispatcher{Products: products, Listings: listings},
		ProductHandler: products,
		ListingHandler: listings,
		SearchHandler:  &SearchHandler{catalogListing: base, Translator: tr},
	}, nil
}

// Routes registers the storefront routes and their request middleware on app.
func Routes(app *fiber.App, deps *Deps, tr *i18n.Translator) {
	app.Use(Visitor())
	app.Use(Locale(tr))

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/search", limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.search.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}), deps.SearchHandler.Search)
	app.Get("/teaser", deps.ProductHandler.Teaser)
	app.Get("/shop/*", deps.Dispatcher.Shop)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	})
}
