package handlers

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"autoshop/internal/breadcrumb"
	"autoshop/internal/domain"
	"autoshop/internal/filter"
	"autoshop/internal/index"
	"autoshop/internal/links"
	applog "autoshop/internal/log"
	"autoshop/internal/paginator"
	"autoshop/internal/segments"
	"autoshop/internal/services"
	"autoshop/internal/tracking"
	"autoshop/internal/validate"
)

const (
	pageRange = 5

	paramPage             = "page"
	paramNoLayout         = "noLayout"
	paramFilterDefinition = "filterdefinition"
)

// catalogListing holds what category listings and search result pages share.
type catalogListing struct {
	Catalog     *services.CatalogService
	Index       index.Service
	Filters     *filter.Service
	Tracking    *tracking.Manager
	Links       *links.Generator
	Breadcrumbs *breadcrumb.Helper
	// Fallback is resolved once at startup and never modified.
	Fallback *domain.FilterDefinition
}

func (l *catalogListing) newListing() index.ProductListing {
	listing := l.Index.ProductListForCurrentTenant()
	listing.SetVariantMode(index.VariantModeVariantsOnly)
	return listing
}

// resolveDefinition applies the precedence explicit request id > baseline > fallback.
// Unknown or malformed explicit ids are ignored.
func (l *catalogListing) resolveDefinition(c *fiber.Ctx, baseline *domain.FilterDefinition) (*domain.FilterDefinition, error) {
	if id, ok := validate.ID(c.Query(paramFilterDefinition)); ok {
		def, err := l.Catalog.GetFilterDefinition(c.UserContext(), id)
		if err != nil {
			return nil, err
		}
		if def != nil {
			return def, nil
		}
	}
	if baseline != nil {
		return baseline, nil
	}
	return l.Fallback, nil
}

// categoryDefinition resolves the category's stored filter definition, nil when it has none.
func (l *catalogListing) categoryDefinition(c *fiber.Ctx, cat *domain.Category) (*domain.FilterDefinition, error) {
	if cat == nil {
		return nil, nil
	}
	return l.Catalog.GetFilterDefinition(c.UserContext(), cat.FilterDefinitionID)
}

// resolveCategory treats lookup failures as an unknown category.
func (l *catalogListing) resolveCategory(c *fiber.Ctx, id int64) *domain.Category {
	cat, err := l.Catalog.GetCategory(c.UserContext(), id)
	if err != nil {
		applog.Warn(c, "shop.category.lookup", err, map[string]any{"category": id})
		return nil
	}
	return cat
}

// filterAndPaginate narrows listing with def and loads the requested page into data.
func (l *catalogListing) filterAndPaginate(c *fiber.Ctx, def *domain.FilterDefinition, listing index.ProductListing,
	params url.Values, data fiber.Map) ([]domain.Product, error) {
	ctx := c.UserContext()
	state := l.Filters.Setup(def, listing, params)

	pg := paginator.New(listing, validate.Page(c.Query(paramPage)), def.PerPage(), pageRange)
	items, err := pg.CurrentItems(ctx)
	if err != nil {
		return nil, err
	}
	pages, err := pg.Pages(ctx)
	if err != nil {
		return nil, err
	}
	cards, err := productCards(ctx, l.Links, items)
	if err != nil {
		return nil, err
	}
	data["Filter"] = state
	data["Results"] = cards
	data["Pages"] = pages
	data["PageLinks"] = pageLinks(c, pages)
	return items, nil
}

func queryValues(c *fiber.Ctx) url.Values {
	v := url.Values{}
	c.Request().URI().QueryArgs().VisitAll(func(key, value []byte) {
		v.Add(string(key), string(value))
	})
	return v
}

// pageLinks maps every page number the pagination partial may link to onto its URL.
func pageLinks(c *fiber.Ctx, pages paginator.Pages) map[int]string {
	base := queryValues(c)
	base.Del(paramNoLayout)
	out := make(map[int]string, len(pages.PagesInRange)+2)
	add := func(n int) {
		if n < 1 {
			return
		}
		q := url.Values{}
		for k, v := range base {
			q[k] = v
		}
		q.Set(paramPage, strconv.Itoa(n))
		out[n] = c.Path() + "?" + q.Encode()
	}
	for _, n := range pages.PagesInRange {
		add(n)
	}
	add(pages.Previous)
	add(pages.Next)
	return out
}

type ListingHandler struct {
	catalogListing
	Segments *segments.Helper
}

// Category lists the products of a category. The category filter is always forced to the routed
// id so request parameters cannot widen the listing.
func (h *ListingHandler) Category(c *fiber.Ctx, categoryID int64) error {
	ctx := c.UserContext()
	cat := h.resolveCategory(c, categoryID)

	params := queryValues(c)
	params.Set(filter.ParamParentCategoryIDs, strconv.FormatInt(categoryID, 10))

	trail := &breadcrumb.Trail{}
	data := fiber.Map{"Category": cat, "Breadcrumbs": trail}
	if cat != nil {
		data["Title"] = cat.Name
		if err := h.Breadcrumbs.EnrichCategoryPage(ctx, trail, cat); err != nil {
			return err
		}
	}

	listing := h.newListing()

	baseline, err := h.categoryDefinition(c, cat)
	if err != nil {
		return err
	}
	if cat != nil {
		if err := h.Segments.TrackSegmentsForCategory(ctx, visitorOf(c), cat); err != nil {
			return err
		}
		if err := h.Tracking.TrackCategoryPageView(ctx, cat.Name, ""); err != nil {
			return err
		}
	}

	def, err := h.resolveDefinition(c, baseline)
	if err != nil {
		return err
	}
	items, err := h.filterAndPaginate(c, def, listing, params, data)
	if err != nil {
		return err
	}

	if c.QueryBool(paramNoLayout) {
		return renderFragment(c, "listing_content", data)
	}

	if err := h.Tracking.TrackProductImpressions(ctx, items, tracking.ListGrid); err != nil {
		return err
	}
	return render(c, "listing", data)
}
