package repos

import (
	"context"
	"database/sql"
	"errors"

	"autoshop/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// Get returns (nil, nil) for unknown ids.
func (r *CategoryRepo) Get(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	err := r.db.GetContext(ctx, &c, `
  SELECT id, name, parent_id, filter_definition_id
  FROM categories
  WHERE id = ?
`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Path returns the ancestry of a category from the root down to the category itself.
func (r *CategoryRepo) Path(ctx context.Context, id int64) ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.SelectContext(ctx, &out, `
  WITH RECURSIVE chain(id, name, parent_id, filter_definition_id, depth) AS (
    SELECT id, name, parent_id, filter_definition_id, 0 FROM categories WHERE id = ?
    UNION ALL
    SELECT c.id, c.name, c.parent_id, c.filter_definition_id, chain.depth + 1
    FROM categories c JOIN chain ON c.id = chain.parent_id
    WHERE chain.depth < 32
  )
  SELECT id, name, parent_id, filter_definition_id FROM chain ORDER BY depth DESC
`, id)
	return out, err
}

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.SelectContext(ctx, &out, `
  SELECT id, name, parent_id, filter_definition_id
  FROM categories
  ORDER BY parent_id, name
`)
	return out, err
}
