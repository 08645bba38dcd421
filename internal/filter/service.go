// Package filter applies a FilterDefinition and the request parameters to a product listing.
package filter

import (
	"net/url"
	"strconv"
	"strings"

	"autoshop/internal/domain"
	"autoshop/internal/index"
)

// ParamParentCategoryIDs carries the category a listing is locked to. Handlers overwrite it
// with the routed category so a query parameter cannot widen the listing.
const ParamParentCategoryIDs = "parentCategoryIds"

const ParamOrder = "order"

var orderFields = map[string]bool{
	index.FieldName:  true,
	index.FieldPrice: true,
}

// Selection is the current state of one filter field, rendered next to the listing.
type Selection struct {
	Field  string
	Label  string
	Type   domain.FilterType
	Values []string
	From   string
	To     string
}

func (s Selection) Active() bool {
	return len(s.Values) > 0 || s.From != "" || s.To != ""
}

type State struct {
	Definition *domain.FilterDefinition
	Selections []Selection
	Order      string
}

type Service struct{}

func NewService() *Service { return &Service{} }

// Setup narrows listing according to def and params and reports what was applied.
func (s *Service) Setup(def *domain.FilterDefinition, listing index.ProductListing, params url.Values) *State {
	st := &State{Definition: def}

	if o := strings.TrimSpace(params.Get(ParamOrder)); o != "" {
		desc := strings.HasPrefix(o, "-")
		field := strings.TrimPrefix(o, "-")
		if orderFields[field] {
			listing.SetOrder(field, desc)
			st.Order = o
		}
	}

	categoryApplied := false
	for _, f := range def.Fields {
		sel := Selection{Field: f.Field, Label: f.Label, Type: f.Type}
		switch f.Type {
		case domain.FilterSelect:
			if v := firstNonEmpty(params.Get(f.Field), f.PreSelect); v != "" {
				sel.Values = []string{v}
				listing.AddFieldCondition(f.Field, v)
			}
		case domain.FilterMultiSelect:
			vals := splitValues(params[f.Field])
			if len(vals) == 0 && f.PreSelect != "" {
				vals = splitValues([]string{f.PreSelect})
			}
			if len(vals) > 0 {
				sel.Values = vals
				listing.AddFieldCondition(f.Field, vals...)
			}
		case domain.FilterRange:
			sel.From = strings.TrimSpace(params.Get(f.Field + "_from"))
			sel.To = strings.TrimSpace(params.Get(f.Field + "_to"))
			from, okFrom := parseFloat(sel.From)
			to, okTo := parseFloat(sel.To)
			if !okFrom {
				sel.From = ""
			}
			if !okTo {
				sel.To = ""
			}
			if okFrom || okTo {
				listing.AddRangeCondition(f.Field, ptrIf(from, okFrom), ptrIf(to, okTo))
			}
		case domain.FilterCategory:
			v := firstNonEmpty(params.Get(ParamParentCategoryIDs), params.Get(f.Field), f.PreSelect)
			if _, err := strconv.ParseInt(v, 10, 64); err == nil {
				sel.Values = []string{v}
				listing.AddFieldCondition(index.FieldCategoryIDs, v)
				categoryApplied = true
			}
		}
		st.Selections = append(st.Selections, sel)
	}

	// the routed category always restricts the listing, even without a category field
	if !categoryApplied {
		if v := params.Get(ParamParentCategoryIDs); v != "" {
			if _, err := strconv.ParseInt(v, 10, 64); err == nil {
				listing.AddFieldCondition(index.FieldCategoryIDs, v)
			}
		}
	}
	return st
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func splitValues(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, v := range strings.Split(r, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func ptrIf(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}
