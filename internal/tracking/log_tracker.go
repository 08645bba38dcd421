package tracking

import (
	"context"

	"autoshop/internal/domain"
	applog "autoshop/internal/log"
)

// LogTracker writes events to the application log.
type LogTracker struct{}

func (LogTracker) TrackProductView(_ context.Context, p domain.Product) error {
	applog.Event("tracking.product.view", productFields(p, nil))
	return nil
}

func (LogTracker) TrackProductImpression(_ context.Context, p domain.Product, list string) error {
	applog.Event("tracking.product.impression", productFields(p, map[string]any{"list": list}))
	return nil
}

func (LogTracker) TrackCategoryPageView(_ context.Context, category string, page string) error {
	fields := map[string]any{"category": category}
	if page != "" {
		fields["page"] = page
	}
	applog.Event("tracking.category.view", fields)
	return nil
}

func productFields(p domain.Product, extra map[string]any) map[string]any {
	f := map[string]any{"product_id": p.ProductID(), "name": p.OSName(), "class": string(p.Class())}
	for k, v := range extra {
		f[k] = v
	}
	return f
}
