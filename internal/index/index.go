// Package index provides product listings over a tenant-scoped product index.
//
// Two backends exist: a relational table queried through sqlx and an Elasticsearch index.
// Both implement ProductListing, so callers add conditions without knowing which backend
// builds the underlying predicate.
package index

import (
	"context"
	"strings"

	"autoshop/internal/domain"
)

type VariantMode int

const (
	// VariantModeIncludeParents lists virtual parent products alongside their variants.
	VariantModeIncludeParents VariantMode = iota
	// VariantModeVariantsOnly excludes virtual parents.
	VariantModeVariantsOnly
)

// Attribute names understood by AddFieldCondition, AddRangeCondition and SetOrder.
const (
	FieldName         = "name"
	FieldManufacturer = "manufacturer"
	FieldColor        = "color"
	FieldCarClass     = "carClass"
	FieldCategoryIDs  = "categoryIds"
	FieldPrice        = "price"
)

// Loader resolves index hits to catalog products.
type Loader interface {
	GetMany(ctx context.Context, ids []int64) ([]domain.Product, error)
}

// ProductListing is a lazy, filterable view over the index. Conditions must be added before
// Count, Items or Load are called.
type ProductListing interface {
	SetVariantMode(mode VariantMode)
	SetLimit(limit int)
	SetOffset(offset int)
	SetOrder(field string, desc bool)

	RestrictToIDs(ids []int64)
	AddFieldCondition(field string, values ...string)
	AddRangeCondition(field string, from, to *float64)
	AddSearchTerm(term string)

	Count(ctx context.Context) (int, error)
	Items(ctx context.Context, offset, limit int) ([]domain.Product, error)
	// Load returns the products within the configured offset and limit.
	Load(ctx context.Context) ([]domain.Product, error)
}

type Service interface {
	ProductListForCurrentTenant() ProductListing
	Backend() string
}

type Indexer interface {
	UpdateIndex(ctx context.Context, docs []Document) error
}

// Terms splits a search term on whitespace.
func Terms(term string) []string {
	return strings.Fields(term)
}
