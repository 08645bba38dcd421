package domain

type FilterType string

const (
	FilterSelect      FilterType = "select"
	FilterMultiSelect FilterType = "multiselect"
	FilterRange       FilterType = "range"
	FilterCategory    FilterType = "category"
)

// FilterField is one selectable filter of a definition. Field names are index attribute names.
type FilterField struct {
	Type      FilterType `json:"type" yaml:"type"`
	Field     string     `json:"field" yaml:"field"`
	Label     string     `json:"label" yaml:"label"`
	PreSelect string     `json:"preSelect,omitempty" yaml:"preSelect,omitempty"`
}

// FilterDefinition is reusable listing configuration. Treated as immutable once loaded.
type FilterDefinition struct {
	ID        int64
	Name      string
	PageLimit int
	Fields    []FilterField
}

const DefaultPageLimit = 12

func (d *FilterDefinition) PerPage() int {
	if d == nil || d.PageLimit <= 0 {
		return DefaultPageLimit
	}
	return d.PageLimit
}

// DefaultFilterDefinition is used when no stored fallback definition is configured.
func DefaultFilterDefinition() *FilterDefinition {
	return &FilterDefinition{
		Name:      "default",
		PageLimit: DefaultPageLimit,
		Fields: []FilterField{
			{Type: FilterCategory, Field: "categoryIds", Label: "Category"},
			{Type: FilterSelect, Field: "manufacturer", Label: "Manufacturer"},
			{Type: FilterMultiSelect, Field: "color", Label: "Color"},
			{Type: FilterSelect, Field: "carClass", Label: "Class"},
			{Type: FilterRange, Field: "price", Label: "Price"},
		},
	}
}
