package repos

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"autoshop/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

type productRow struct {
	domain.BaseProduct
	ClassID           string `db:"class_id"`
	ObjectType        string `db:"object_type"`
	ParentID          int64  `db:"parent_id"`
	Manufacturer      string `db:"manufacturer"`
	ColorsJSON        string `db:"colors_json"`
	CarClass          string `db:"car_class"`
	AccessoryIDsJSON  string `db:"accessory_ids_json"`
	CompatibleIDsJSON string `db:"compatible_ids_json"`
}

const productColumns = `
    id, class_id, object_type, parent_id, name, manufacturer, colors_json, car_class,
    category_id, price, image_path, published, accessory_ids_json, compatible_ids_json,
    COALESCE(created_at,'') AS created_at`

func (r productRow) toDomain() (domain.Product, error) {
	switch domain.Class(r.ClassID) {
	case domain.ClassCar:
		car := &domain.Car{
			BaseProduct:  r.BaseProduct,
			ObjectType:   r.ObjectType,
			ParentID:     r.ParentID,
			Manufacturer: r.Manufacturer,
			CarClass:     r.CarClass,
		}
		if err := unmarshalList(r.ColorsJSON, &car.Colors); err != nil {
			return nil, fmt.Errorf("product %d colors: %w", r.ID, err)
		}
		if err := unmarshalList(r.AccessoryIDsJSON, &car.AccessoryIDs); err != nil {
			return nil, fmt.Errorf("product %d accessories: %w", r.ID, err)
		}
		return car, nil
	case domain.ClassAccessoryPart:
		ap := &domain.AccessoryPart{BaseProduct: r.BaseProduct, Manufacturer: r.Manufacturer}
		if err := unmarshalList(r.CompatibleIDsJSON, &ap.CompatibleToIDs); err != nil {
			return nil, fmt.Errorf("product %d compatible ids: %w", r.ID, err)
		}
		return ap, nil
	}
	return nil, fmt.Errorf("product %d class %q: %w", r.ID, r.ClassID, domain.ErrUnknownClass)
}

func unmarshalList[T any](raw string, out *[]T) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}

// Get returns (nil, nil) when no product has the given id.
func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

// GetMany loads products in the order of ids, skipping ids that do not exist.
func (r *ProductRepo) GetMany(ctx context.Context, ids []int64) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT `+productColumns+` FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.Product, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		byID[row.ID] = p
	}
	out := make([]domain.Product, 0, len(rows))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProductRepo) All(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+productColumns+` FROM products ORDER BY id`); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
