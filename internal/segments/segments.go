// Package segments assigns visitors to personalization segments based on what they browse.
package segments

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"autoshop/internal/domain"
)

type Store interface {
	Increment(ctx context.Context, visitorID string, segments []string) error
}

type Helper struct {
	store Store
}

func NewHelper(store Store) *Helper { return &Helper{store: store} }

var reNonWord = regexp.MustCompile(`[^a-z0-9]+`)

func tag(kind, value string) string {
	v := strings.Trim(reNonWord.ReplaceAllString(strings.ToLower(value), "-"), "-")
	if v == "" {
		return ""
	}
	return kind + ":" + v
}

// ForProduct lists the segments a product view counts towards.
func ForProduct(p domain.Product) []string {
	out := []string{tag("class", string(p.Class())), "category:" + strconv.FormatInt(p.CategoryID(), 10)}
	switch v := p.(type) {
	case *domain.Car:
		out = append(out, tag("manufacturer", v.Manufacturer), tag("car-class", v.CarClass))
	case *domain.AccessoryPart:
		out = append(out, tag("manufacturer", v.Manufacturer))
	}
	return compact(out)
}

func ForCategory(c *domain.Category) []string {
	return compact([]string{"category:" + strconv.FormatInt(c.ID, 10), tag("category-name", c.Name)})
}

func compact(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (h *Helper) TrackSegmentsForProduct(ctx context.Context, visitorID string, p domain.Product) error {
	if visitorID == "" {
		return nil
	}
	return h.store.Increment(ctx, visitorID, ForProduct(p))
}

func (h *Helper) TrackSegmentsForCategory(ctx context.Context, visitorID string, c *domain.Category) error {
	if visitorID == "" || c == nil {
		return nil
	}
	return h.store.Increment(ctx, visitorID, ForCategory(c))
}
