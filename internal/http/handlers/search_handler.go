package handlers

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"autoshop/internal/breadcrumb"
	"autoshop/internal/domain"
	"autoshop/internal/filter"
	"autoshop/internal/i18n"
	"autoshop/internal/index"
	"autoshop/internal/tracking"
	"autoshop/internal/validate"
)

const (
	autocompleteLimit = 10

	paramTerm         = "term"
	paramAutocomplete = "autocomplete"
	paramCategory     = "category"
)

type autocompleteResult struct {
	Href string `json:"href"`
	// Product is the display label.
	Product string `json:"product"`
}

type SearchHandler struct {
	catalogListing
	Translator *i18n.Translator
}

// Search answers autocomplete requests with JSON and everything else with the results page.
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	term := validate.Term(c.Query(paramTerm))
	listing := h.newListing()
	listing.AddSearchTerm(term)

	if c.Request().URI().QueryArgs().Has(paramAutocomplete) {
		return h.autocomplete(c, listing)
	}

	ctx := c.UserContext()
	params := queryValues(c)
	params.Del(filter.ParamParentCategoryIDs)

	var cat *domain.Category
	if id, ok := validate.ID(c.Query(paramCategory)); ok {
		cat = h.resolveCategory(c, id)
	}
	if cat != nil {
		params.Set(filter.ParamParentCategoryIDs, strconv.FormatInt(cat.ID, 10))
	}
	baseline, err := h.categoryDefinition(c, cat)
	if err != nil {
		return err
	}
	def, err := h.resolveDefinition(c, baseline)
	if err != nil {
		return err
	}

	title := h.Translator.Trans(localeOf(c), "shop.search-result", term)
	trail := &breadcrumb.Trail{}
	h.Breadcrumbs.EnrichGenericDynamicPage(trail, "search-result", title)
	data := fiber.Map{
		"Term":        term,
		"Title":       title,
		"Category":    cat,
		"Breadcrumbs": trail,
	}

	items, err := h.filterAndPaginate(c, def, listing, params, data)
	if err != nil {
		return err
	}
	if err := h.Tracking.TrackProductImpressions(ctx, items, tracking.ListSearchResults); err != nil {
		return err
	}
	return render(c, "search", data)
}

// autocomplete returns at most ten {href, product} records without tracking.
func (h *SearchHandler) autocomplete(c *fiber.Ctx, listing index.ProductListing) error {
	ctx := c.UserContext()
	listing.SetLimit(autocompleteLimit)
	products, err := listing.Load(ctx)
	if err != nil {
		return err
	}
	out := make([]autocompleteResult, 0, len(products))
	for _, p := range products {
		href, err := h.Links.ProductWithMockup(ctx, p, url.Values{})
		if err != nil {
			return err
		}
		out = append(out, autocompleteResult{Href: href, Product: p.AutocompleteLabel()})
	}
	return c.JSON(out)
}
