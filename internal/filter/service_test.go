package filter

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"autoshop/internal/domain"
	"autoshop/internal/index"
)

// recordingListing captures conditions instead of querying an index.
type recordingListing struct {
	calls []string
}

func (r *recordingListing) SetVariantMode(index.VariantMode) {}
func (r *recordingListing) SetLimit(int)                     {}
func (r *recordingListing) SetOffset(int)                    {}
func (r *recordingListing) SetOrder(field string, desc bool) {
	r.calls = append(r.calls, fmt.Sprintf("order %s desc=%v", field, desc))
}
func (r *recordingListing) RestrictToIDs(ids []int64) {
	r.calls = append(r.calls, fmt.Sprintf("ids %v", ids))
}
func (r *recordingListing) AddFieldCondition(field string, values ...string) {
	r.calls = append(r.calls, fmt.Sprintf("field %s %v", field, values))
}
func (r *recordingListing) AddRangeCondition(field string, from, to *float64) {
	f, t := "nil", "nil"
	if from != nil {
		f = fmt.Sprint(*from)
	}
	if to != nil {
		t = fmt.Sprint(*to)
	}
	r.calls = append(r.calls, fmt.Sprintf("range %s %s..%s", field, f, t))
}
func (r *recordingListing) AddSearchTerm(term string) {
	r.calls = append(r.calls, "term "+term)
}
func (r *recordingListing) Count(context.Context) (int, error) { return 0, nil }
func (r *recordingListing) Items(context.Context, int, int) ([]domain.Product, error) {
	return nil, nil
}
func (r *recordingListing) Load(context.Context) ([]domain.Product, error) { return nil, nil }

func TestSetupAppliesEveryFieldType(t *testing.T) {
	def := domain.DefaultFilterDefinition()
	params := url.Values{
		ParamParentCategoryIDs: {"2"},
		"categoryIds":          {"4"},
		"manufacturer":         {"Jaguar"},
		"color":                {"red,black", "green"},
		"price_from":           {"100"},
		"price_to":             {"abc"},
		ParamOrder:             {"-price"},
	}
	l := &recordingListing{}
	st := NewService().Setup(def, l, params)

	assert.Equal(t, []string{
		"order price desc=true",
		"field categoryIds [2]",
		"field manufacturer [Jaguar]",
		"field color [red black green]",
		"range price 100..nil",
	}, l.calls)
	assert.Equal(t, "-price", st.Order)
	assert.Len(t, st.Selections, 5)
	assert.False(t, st.Selections[3].Active(), "carClass has no value")
	assert.Equal(t, "100", st.Selections[4].From)
	assert.Empty(t, st.Selections[4].To)
}

func TestSetupPreselectAndUnknownOrder(t *testing.T) {
	def := &domain.FilterDefinition{Fields: []domain.FilterField{
		{Type: domain.FilterSelect, Field: "carClass", PreSelect: "Limousine"},
	}}
	l := &recordingListing{}
	NewService().Setup(def, l, url.Values{ParamOrder: {"createdAt"}})
	assert.Equal(t, []string{"field carClass [Limousine]"}, l.calls)
}

func TestSetupForcesRoutedCategoryWithoutCategoryField(t *testing.T) {
	def := &domain.FilterDefinition{PageLimit: 3}
	l := &recordingListing{}
	NewService().Setup(def, l, url.Values{ParamParentCategoryIDs: {"3"}})
	assert.Equal(t, []string{"field categoryIds [3]"}, l.calls)

	l = &recordingListing{}
	NewService().Setup(def, l, url.Values{ParamParentCategoryIDs: {"1 OR 1=1"}})
	assert.Empty(t, l.calls)
}
