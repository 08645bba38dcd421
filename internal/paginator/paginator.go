// Package paginator windows a countable result set into pages with a sliding page range.
package paginator

import (
	"context"
	"math"

	"autoshop/internal/domain"
)

// Adapter is satisfied by index.ProductListing.
type Adapter interface {
	Count(ctx context.Context) (int, error)
	Items(ctx context.Context, offset, limit int) ([]domain.Product, error)
}

type Paginator struct {
	adapter   Adapter
	page      int
	perPage   int
	pageRange int

	loaded bool
	total  int
	items  []domain.Product
}

// Pages is the view model consumed by the pagination template.
type Pages struct {
	PageCount        int
	ItemCountPerPage int
	First            int
	Current          int
	Last             int
	Previous         int // 0 when on the first page
	Next             int // 0 when on the last page
	PagesInRange     []int
	FirstPageInRange int
	LastPageInRange  int
	CurrentItemCount int
	TotalItemCount   int
	FirstItemNumber  int
	LastItemNumber   int
}

func New(adapter Adapter, page, perPage, pageRange int) *Paginator {
	if perPage <= 0 {
		perPage = domain.DefaultPageLimit
	}
	if pageRange <= 0 {
		pageRange = 5
	}
	if page < 1 {
		page = 1
	}
	return &Paginator{adapter: adapter, page: page, perPage: perPage, pageRange: pageRange}
}

func (p *Paginator) load(ctx context.Context) error {
	if p.loaded {
		return nil
	}
	total, err := p.adapter.Count(ctx)
	if err != nil {
		return err
	}
	p.total = total
	if pc := p.pageCount(); p.page > pc {
		p.page = pc
	}
	items, err := p.adapter.Items(ctx, (p.page-1)*p.perPage, p.perPage)
	if err != nil {
		return err
	}
	p.items = items
	p.loaded = true
	return nil
}

func (p *Paginator) pageCount() int {
	pc := int(math.Ceil(float64(p.total) / float64(p.perPage)))
	if pc < 1 {
		return 1
	}
	return pc
}

// CurrentItems returns the products on the current page.
func (p *Paginator) CurrentItems(ctx context.Context) ([]domain.Product, error) {
	if err := p.load(ctx); err != nil {
		return nil, err
	}
	return p.items, nil
}

// Pages computes the sliding page window around the current page.
func (p *Paginator) Pages(ctx context.Context) (Pages, error) {
	if err := p.load(ctx); err != nil {
		return Pages{}, err
	}
	pc := p.pageCount()
	lower, upper := slidingRange(p.page, pc, p.pageRange)

	out := Pages{
		PageCount:        pc,
		ItemCountPerPage: p.perPage,
		First:            1,
		Current:          p.page,
		Last:             pc,
		FirstPageInRange: lower,
		LastPageInRange:  upper,
		CurrentItemCount: len(p.items),
		TotalItemCount:   p.total,
	}
	for i := lower; i <= upper; i++ {
		out.PagesInRange = append(out.PagesInRange, i)
	}
	if p.page > 1 {
		out.Previous = p.page - 1
	}
	if p.page < pc {
		out.Next = p.page + 1
	}
	if len(p.items) > 0 {
		out.FirstItemNumber = (p.page-1)*p.perPage + 1
		out.LastItemNumber = out.FirstItemNumber + len(p.items) - 1
	}
	return out, nil
}

func slidingRange(current, pageCount, pageRange int) (int, int) {
	if pageRange > pageCount {
		pageRange = pageCount
	}
	delta := int(math.Ceil(float64(pageRange) / 2))
	if current-delta > pageCount-pageRange {
		return pageCount - pageRange + 1, pageCount
	}
	if current-delta < 0 {
		delta = current
	}
	offset := current - delta
	return offset + 1, offset + pageRange
}
