package paginator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoshop/internal/domain"
)

type sliceAdapter struct {
	n        int
	countErr error
	calls    int
}

func (s *sliceAdapter) Count(context.Context) (int, error) { return s.n, s.countErr }

func (s *sliceAdapter) Items(_ context.Context, offset, limit int) ([]domain.Product, error) {
	s.calls++
	var out []domain.Product
	for i := offset; i < offset+limit && i < s.n; i++ {
		out = append(out, &domain.AccessoryPart{BaseProduct: domain.BaseProduct{ID: int64(i + 1)}})
	}
	return out, nil
}

func TestSlidingRange(t *testing.T) {
	tests := []struct {
		current, pageCount, pageRange int
		lower, upper                  int
	}{
		{1, 10, 5, 1, 5},
		{3, 10, 5, 1, 5},
		{4, 10, 5, 2, 6},
		{9, 10, 5, 6, 10},
		{10, 10, 5, 6, 10},
		{2, 3, 5, 1, 3},
		{1, 1, 5, 1, 1},
	}
	for _, tc := range tests {
		lower, upper := slidingRange(tc.current, tc.pageCount, tc.pageRange)
		assert.Equal(t, tc.lower, lower, "lower for %+v", tc)
		assert.Equal(t, tc.upper, upper, "upper for %+v", tc)
	}
}

func TestPagesMiddle(t *testing.T) {
	ctx := context.Background()
	a := &sliceAdapter{n: 25}
	p := New(a, 2, 10, 5)

	pages, err := p.Pages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, pages.PageCount)
	assert.Equal(t, 2, pages.Current)
	assert.Equal(t, 1, pages.Previous)
	assert.Equal(t, 3, pages.Next)
	assert.Equal(t, []int{1, 2, 3}, pages.PagesInRange)
	assert.Equal(t, 11, pages.FirstItemNumber)
	assert.Equal(t, 20, pages.LastItemNumber)

	items, err := p.CurrentItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 10)
	assert.Equal(t, 1, a.calls, "items are loaded once")
}

func TestPageIsClamped(t *testing.T) {
	ctx := context.Background()

	p := New(&sliceAdapter{n: 25}, 99, 10, 5)
	pages, err := p.Pages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, pages.Current)
	assert.Zero(t, pages.Next)
	assert.Equal(t, 5, pages.CurrentItemCount)

	p = New(&sliceAdapter{n: 0}, -4, 0, 0)
	pages, err = p.Pages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pages.Current)
	assert.Equal(t, domain.DefaultPageLimit, pages.ItemCountPerPage)
	assert.Zero(t, pages.FirstItemNumber)
}

func TestCountErrorPropagates(t *testing.T) {
	boom := errors.New("index down")
	_, err := New(&sliceAdapter{countErr: boom}, 1, 10, 5).CurrentItems(context.Background())
	assert.ErrorIs(t, err, boom)
}
