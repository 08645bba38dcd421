// Package links builds canonical storefront URLs for products and categories.
package links

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"autoshop/internal/domain"
)

const shopPrefix = "/shop/"

type CategoryPather interface {
	CategoryPath(ctx context.Context, id int64) ([]domain.Category, error)
}

type Generator struct {
	cats CategoryPather
}

func NewGenerator(cats CategoryPather) *Generator { return &Generator{cats: cats} }

var reSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases s and joins its alphanumeric runs with hyphens.
func Slug(s string) string {
	out := strings.Trim(reSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if out == "" {
		return "item"
	}
	return out
}

func (g *Generator) categoryPrefix(ctx context.Context, categoryID int64, includeSelf bool) (string, error) {
	path, err := g.cats.CategoryPath(ctx, categoryID)
	if err != nil {
		return "", err
	}
	if !includeSelf && len(path) > 0 {
		path = path[:len(path)-1]
	}
	var b strings.Builder
	for _, c := range path {
		b.WriteString(Slug(c.Name))
		b.WriteByte('/')
	}
	return b.String(), nil
}

// Product returns the canonical detail URL, e.g. /shop/cars/sports-cars/jaguar-e-type~p101.
func (g *Generator) Product(ctx context.Context, p domain.Product) (string, error) {
	prefix, err := g.categoryPrefix(ctx, p.CategoryID(), true)
	if err != nil {
		return "", err
	}
	return shopPrefix + prefix + Slug(p.OSName()) + "~p" + strconv.FormatInt(p.ProductID(), 10), nil
}

// ProductWithMockup builds the detail URL for a listed product and appends params.
func (g *Generator) ProductWithMockup(ctx context.Context, p domain.Product, params url.Values) (string, error) {
	u, err := g.Product(ctx, p)
	if err != nil {
		return "", err
	}
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u, nil
}

// Category returns the listing URL, e.g. /shop/cars/sports-cars~c2.
func (g *Generator) Category(ctx context.Context, c *domain.Category) (string, error) {
	prefix, err := g.categoryPrefix(ctx, c.ID, false)
	if err != nil {
		return "", err
	}
	return shopPrefix + prefix + Slug(c.Name) + "~c" + strconv.FormatInt(c.ID, 10), nil
}
