// Package breadcrumb builds the navigation trail shown above shop pages.
package breadcrumb

import (
	"context"
	"strconv"

	"autoshop/internal/domain"
	"autoshop/internal/links"
)

type Crumb struct {
	ID    string
	Label string
	Href  string
}

// Trail is request scoped.
type Trail struct {
	Crumbs []Crumb
}

func (t *Trail) Append(c Crumb) { t.Crumbs = append(t.Crumbs, c) }

func (t *Trail) Len() int { return len(t.Crumbs) }

type Helper struct {
	cats  links.CategoryPather
	links *links.Generator
}

func NewHelper(cats links.CategoryPather, gen *links.Generator) *Helper {
	return &Helper{cats: cats, links: gen}
}

func (h *Helper) appendCategories(ctx context.Context, t *Trail, categoryID int64) error {
	path, err := h.cats.CategoryPath(ctx, categoryID)
	if err != nil {
		return err
	}
	for i := range path {
		c := path[i]
		href, err := h.links.Category(ctx, &c)
		if err != nil {
			return err
		}
		t.Append(Crumb{ID: "category-" + strconv.FormatInt(c.ID, 10), Label: c.Name, Href: href})
	}
	return nil
}

func (h *Helper) EnrichProductDetailPage(ctx context.Context, t *Trail, p domain.Product) error {
	if err := h.appendCategories(ctx, t, p.CategoryID()); err != nil {
		return err
	}
	href, err := h.links.Product(ctx, p)
	if err != nil {
		return err
	}
	t.Append(Crumb{ID: "product-" + strconv.FormatInt(p.ProductID(), 10), Label: p.OSName(), Href: href})
	return nil
}

func (h *Helper) EnrichCategoryPage(ctx context.Context, t *Trail, c *domain.Category) error {
	return h.appendCategories(ctx, t, c.ID)
}

// EnrichGenericDynamicPage appends a page that has no catalog entity behind it.
func (h *Helper) EnrichGenericDynamicPage(t *Trail, id, label string) {
	t.Append(Crumb{ID: id, Label: label})
}
