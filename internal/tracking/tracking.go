// Package tracking records storefront analytics events.
package tracking

import (
	"context"
	"errors"

	"autoshop/internal/domain"
)

// Placement labels for product impressions.
const (
	ListCrosssells    = "crosssells"
	ListGrid          = "grid"
	ListSearchResults = "search-results"
	ListTeaser        = "teaser"
)

type Tracker interface {
	TrackProductView(ctx context.Context, p domain.Product) error
	TrackProductImpression(ctx context.Context, p domain.Product, list string) error
	TrackCategoryPageView(ctx context.Context, category string, page string) error
}

// Manager forwards every event to all configured trackers.
type Manager struct {
	trackers []Tracker
}

func NewManager(trackers ...Tracker) *Manager {
	return &Manager{trackers: trackers}
}

func (m *Manager) TrackProductView(ctx context.Context, p domain.Product) error {
	var errs []error
	for _, t := range m.trackers {
		errs = append(errs, t.TrackProductView(ctx, p))
	}
	return errors.Join(errs...)
}

func (m *Manager) TrackProductImpression(ctx context.Context, p domain.Product, list string) error {
	var errs []error
	for _, t := range m.trackers {
		errs = append(errs, t.TrackProductImpression(ctx, p, list))
	}
	return errors.Join(errs...)
}

// TrackProductImpressions records one impression per product.
func (m *Manager) TrackProductImpressions(ctx context.Context, ps []domain.Product, list string) error {
	for _, p := range ps {
		if err := m.TrackProductImpression(ctx, p, list); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) TrackCategoryPageView(ctx context.Context, category string, page string) error {
	var errs []error
	for _, t := range m.trackers {
		errs = append(errs, t.TrackCategoryPageView(ctx, category, page))
	}
	return errors.Join(errs...)
}
