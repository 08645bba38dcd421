package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"autoshop/internal/breadcrumb"
	"autoshop/internal/domain"
	"autoshop/internal/index"
	"autoshop/internal/links"
	applog "autoshop/internal/log"
	"autoshop/internal/preview"
	"autoshop/internal/segments"
	"autoshop/internal/services"
	"autoshop/internal/tracking"
	"autoshop/internal/validate"
)

const msgProductNotFound = "Product not found."

type productCard struct {
	Product domain.Product
	Href    string
}

func productCards(ctx context.Context, gen *links.Generator, ps []domain.Product) ([]productCard, error) {
	out := make([]productCard, 0, len(ps))
	for _, p := range ps {
		href, err := gen.Product(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, productCard{Product: p, Href: href})
	}
	return out, nil
}

// detailView renders the detail page of one product class.
type detailView interface {
	Template() string
	Prepare(c *fiber.Ctx, p domain.Product, data fiber.Map) error
}

type ProductHandler struct {
	Catalog     *services.CatalogService
	Index       index.Service
	Tracking    *tracking.Manager
	Segments    *segments.Helper
	Links       *links.Generator
	Breadcrumbs *breadcrumb.Helper
	Preview     *preview.Verifier

	views map[domain.Class]detailView
}

func NewProductHandler(catalog *services.CatalogService, idx index.Service, tm *tracking.Manager,
	seg *segments.Helper, gen *links.Generator, bc *breadcrumb.Helper, pv *preview.Verifier) *ProductHandler {
	h := &ProductHandler{
		Catalog: catalog, Index: idx, Tracking: tm, Segments: seg,
		Links: gen, Breadcrumbs: bc, Preview: pv,
	}
	h.views = map[domain.Class]detailView{
		domain.ClassCar:           carDetail{h},
		domain.ClassAccessoryPart: accessoryDetail{h},
	}
	return h
}

func (h *ProductHandler) lookup(ctx context.Context, id int64) (domain.Product, error) {
	p, err := h.Catalog.GetProduct(ctx, id)
	if errors.Is(err, domain.ErrUnknownClass) {
		return nil, nil
	}
	return p, err
}

// visible reports whether p may be shown: published and displayable, or an authorized preview.
func (h *ProductHandler) visible(c *fiber.Ctx, p domain.Product) bool {
	if p == nil {
		return false
	}
	if p.IsPublished() && p.Displayable() {
		return true
	}
	return h.Preview.Verify(c.Query(preview.QueryParam))
}

// Detail serves the product page. Non canonical URLs are redirected before anything is tracked.
func (h *ProductHandler) Detail(c *fiber.Ctx, id int64) error {
	ctx := c.UserContext()
	p, err := h.lookup(ctx, id)
	if err != nil {
		return err
	}
	if !h.visible(c, p) {
		return fiber.NewError(fiber.StatusNotFound, msgProductNotFound)
	}

	canonical, err := h.Links.Product(ctx, p)
	if err != nil {
		return err
	}
	if canonical != c.Path() {
		if qs := string(c.Request().URI().QueryString()); qs != "" {
			canonical += "?" + qs
		}
		return c.Redirect(canonical, fiber.StatusMovedPermanently)
	}

	view, ok := h.views[p.Class()]
	if !ok {
		applog.Warn(c, "shop.detail.unsupported_class", nil, map[string]any{"id": id, "class": p.Class()})
		return fiber.NewError(fiber.StatusNotFound, msgProductNotFound)
	}

	trail := &breadcrumb.Trail{}
	if err := h.Breadcrumbs.EnrichProductDetailPage(ctx, trail, p); err != nil {
		return err
	}
	data := fiber.Map{"Product": p, "Title": p.OSName(), "Breadcrumbs": trail}

	if err := h.Segments.TrackSegmentsForProduct(ctx, visitorOf(c), p); err != nil {
		return err
	}
	if err := h.Tracking.TrackProductView(ctx, p); err != nil {
		return err
	}
	if err := view.Prepare(c, p, data); err != nil {
		return err
	}
	return render(c, view.Template(), data)
}

type carDetail struct{ h *ProductHandler }

func (carDetail) Template() string { return "detail" }

// Prepare attaches the published accessories as cross-sells.
func (v carDetail) Prepare(c *fiber.Ctx, p domain.Product, data fiber.Map) error {
	car := p.(*domain.Car)
	ctx := c.UserContext()
	linked, err := v.h.Catalog.GetProducts(ctx, car.AccessoryIDs)
	if err != nil {
		return err
	}
	accessories := linked[:0]
	for _, a := range linked {
		if a.IsPublished() {
			accessories = append(accessories, a)
		}
	}
	if err := v.h.Tracking.TrackProductImpressions(ctx, accessories, tracking.ListCrosssells); err != nil {
		return err
	}
	cards, err := productCards(ctx, v.h.Links, accessories)
	if err != nil {
		return err
	}
	data["Accessories"] = cards
	return nil
}

type accessoryDetail struct{ h *ProductHandler }

func (accessoryDetail) Template() string { return "detail_accessory" }

// Prepare lists the indexed variants the part fits.
func (v accessoryDetail) Prepare(c *fiber.Ctx, p domain.Product, data fiber.Map) error {
	ap := p.(*domain.AccessoryPart)
	ctx := c.UserContext()
	listing := v.h.Index.ProductListForCurrentTenant()
	listing.SetVariantMode(index.VariantModeVariantsOnly)
	listing.RestrictToIDs(ap.CompatibleToIDs)
	compatible, err := listing.Load(ctx)
	if err != nil {
		return err
	}
	if err := v.h.Tracking.TrackProductImpressions(ctx, compatible, tracking.ListCrosssells); err != nil {
		return err
	}
	cards, err := productCards(ctx, v.h.Links, compatible)
	if err != nil {
		return err
	}
	data["Compatible"] = cards
	return nil
}

// Teaser renders the small product box embedded in content pages.
func (h *ProductHandler) Teaser(c *fiber.Ctx) error {
	if c.Query("type") != "object" {
		return fiber.NewError(fiber.StatusNotFound, msgProductNotFound)
	}
	id, ok := validate.ID(c.Query("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "id"})
		return fiber.NewError(fiber.StatusNotFound, msgProductNotFound)
	}
	ctx := c.UserContext()
	p, err := h.lookup(ctx, id)
	if err != nil {
		return err
	}
	if p == nil || !p.IsPublished() {
		return fiber.NewError(fiber.StatusNotFound, msgProductNotFound)
	}
	if err := h.Tracking.TrackProductImpression(ctx, p, tracking.ListTeaser); err != nil {
		return err
	}
	href, err := h.Links.Product(ctx, p)
	if err != nil {
		return err
	}
	return renderFragment(c, "product_teaser", fiber.Map{"Product": p, "Href": href})
}
