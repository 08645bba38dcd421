package index

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"autoshop/internal/domain"

	"github.com/jmoiron/sqlx"
)

type relationalColumn struct {
	name string
	// multi columns store comma-wrapped lists (",a,b,")
	multi bool
}

var relationalColumns = map[string]relationalColumn{
	FieldName:         {name: "name"},
	FieldManufacturer: {name: "manufacturer_name"},
	FieldColor:        {name: "color", multi: true},
	FieldCarClass:     {name: "car_class"},
	FieldCategoryIDs:  {name: "category_ids", multi: true},
	FieldPrice:        {name: "price"},
}

// Relational is the sqlx-backed index stored in the product_index table.
type Relational struct {
	db     *sqlx.DB
	loader Loader
	tenant string
}

func NewRelational(db *sqlx.DB, loader Loader, tenant string) *Relational {
	return &Relational{db: db, loader: loader, tenant: tenant}
}

func (s *Relational) Backend() string { return "relational" }

func (s *Relational) ProductListForCurrentTenant() ProductListing {
	return &relationalListing{db: s.db, loader: s.loader, tenant: s.tenant, order: "id ASC"}
}

// UpdateIndex rebuilds the tenant partition from docs.
func (s *Relational) UpdateIndex(ctx context.Context, docs []Document) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_index WHERE tenant = ?`, s.tenant); err != nil {
		return err
	}
	for _, d := range docs {
		catIDs := make([]string, 0, len(d.CategoryIDs))
		for _, id := range d.CategoryIDs {
			catIDs = append(catIDs, strconv.FormatInt(id, 10))
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_index(tenant,id,class_id,is_virtual,published,name,manufacturer_name,color,car_class,category_ids,price)
			VALUES(?,?,?,?,?,?,?,?,?,?,?)
		`, s.tenant, d.ID, string(d.ClassID), d.Virtual, d.Published, d.Name, d.Manufacturer,
			wrapList(d.Colors), d.CarClass, wrapList(catIDs), d.Price); err != nil {
			return fmt.Errorf("index product %d: %w", d.ID, err)
		}
	}
	return tx.Commit()
}

func wrapList(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return "," + strings.Join(vals, ",") + ","
}

type relationalListing struct {
	db          *sqlx.DB
	loader      Loader
	tenant      string
	variantMode VariantMode
	where       []string
	args        []any
	order       string
	limit       int
	offset      int
}

func (l *relationalListing) SetVariantMode(mode VariantMode) { l.variantMode = mode }
func (l *relationalListing) SetLimit(limit int)              { l.limit = limit }
func (l *relationalListing) SetOffset(offset int)            { l.offset = offset }

func (l *relationalListing) SetOrder(field string, desc bool) {
	col, ok := relationalColumns[field]
	if !ok || col.multi {
		return
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	l.order = col.name + " " + dir + ", id ASC"
}

func (l *relationalListing) addCondition(predicate string, args ...any) {
	l.where = append(l.where, predicate)
	l.args = append(l.args, args...)
}

func (l *relationalListing) RestrictToIDs(ids []int64) {
	if len(ids) == 0 {
		l.addCondition("1 = 0")
		return
	}
	ph := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	l.addCondition("id IN ("+ph+")", args...)
}

func (l *relationalListing) AddFieldCondition(field string, values ...string) {
	col, ok := relationalColumns[field]
	if !ok || len(values) == 0 {
		return
	}
	parts := make([]string, 0, len(values))
	args := make([]any, 0, len(values))
	for _, v := range values {
		if col.multi {
			parts = append(parts, col.name+" LIKE ?")
			args = append(args, "%,"+v+",%")
		} else {
			parts = append(parts, col.name+" = ?")
			args = append(args, v)
		}
	}
	l.addCondition("("+strings.Join(parts, " OR ")+")", args...)
}

func (l *relationalListing) AddRangeCondition(field string, from, to *float64) {
	col, ok := relationalColumns[field]
	if !ok || col.multi {
		return
	}
	if from != nil {
		l.addCondition(col.name+" >= ?", *from)
	}
	if to != nil {
		l.addCondition(col.name+" <= ?", *to)
	}
}

// AddSearchTerm adds one condition per whitespace separated token; all tokens must match.
func (l *relationalListing) AddSearchTerm(term string) {
	for _, t := range Terms(term) {
		like := "%" + t + "%"
		l.addCondition(`(name LIKE ? OR manufacturer_name LIKE ? OR color LIKE ? OR car_class LIKE ?)`,
			like, like, like, like)
	}
}

func (l *relationalListing) whereClause() (string, []any) {
	where := []string{"tenant = ?", "published = 1"}
	args := []any{l.tenant}
	if l.variantMode == VariantModeVariantsOnly {
		where = append(where, "is_virtual = 0")
	}
	where = append(where, l.where...)
	args = append(args, l.args...)
	return strings.Join(where, " AND "), args
}

func (l *relationalListing) Count(ctx context.Context) (int, error) {
	where, args := l.whereClause()
	var n int
	err := l.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM product_index WHERE `+where, args...)
	return n, err
}

func (l *relationalListing) Items(ctx context.Context, offset, limit int) ([]domain.Product, error) {
	where, args := l.whereClause()
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit, offset)
	var ids []int64
	if err := l.db.SelectContext(ctx, &ids, `
  SELECT id FROM product_index
  WHERE `+where+`
  ORDER BY `+l.order+`
  LIMIT ? OFFSET ?`, args...); err != nil {
		return nil, err
	}
	return l.loader.GetMany(ctx, ids)
}

func (l *relationalListing) Load(ctx context.Context) ([]domain.Product, error) {
	return l.Items(ctx, l.offset, l.limit)
}
