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

type FilterDefinitionRepo struct{ db *sqlx.DB }

func NewFilterDefinitionRepo(db *sqlx.DB) *FilterDefinitionRepo {
	return &FilterDefinitionRepo{db: db}
}

// Get returns (nil, nil) for unknown ids.
func (r *FilterDefinitionRepo) Get(ctx context.Context, id int64) (*domain.FilterDefinition, error) {
	var row struct {
		ID         int64  `db:"id"`
		Name       string `db:"name"`
		PageLimit  int    `db:"page_limit"`
		FieldsJSON string `db:"fields_json"`
	}
	err := r.db.GetContext(ctx, &row, `SELECT id, name, page_limit, fields_json FROM filter_definitions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	def := &domain.FilterDefinition{ID: row.ID, Name: row.Name, PageLimit: row.PageLimit}
	if err := json.Unmarshal([]byte(row.FieldsJSON), &def.Fields); err != nil {
		return nil, fmt.Errorf("filter definition %d fields: %w", row.ID, err)
	}
	return def, nil
}
