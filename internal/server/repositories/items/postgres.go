// Package items provides the PostgreSQL-backed item repository.
package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/freezeraudit/internal/common"
	"github.com/dmitrijs2005/freezeraudit/internal/dbx"
	"github.com/dmitrijs2005/freezeraudit/internal/server/models"
)

const selectColumns = `id, user_id, title, amount, location, category, notes, needs_more, created_at, updated_at`

// PostgresRepository implements item storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	item := &models.Item{}
	err := row.Scan(&item.ID, &item.UserID, &item.Title, &item.Amount, &item.Location,
		&item.Category, &item.Notes, &item.NeedsMore, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *PostgresRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	query :=
		`INSERT INTO items (id, user_id, title, amount, location, category, notes, needs_more)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		item.ID, item.UserID, item.Title, item.Amount, item.Location, item.Category, item.Notes, item.NeedsMore,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id, userID string) (*models.Item, error) {
	query := `SELECT ` + selectColumns + ` FROM items WHERE id = $1 AND user_id = $2`

	item, err := scanItem(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

// List returns the user's items, most recently updated first.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.Item, error) {
	query := `SELECT ` + selectColumns + ` FROM items WHERE user_id = $1 ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Update overwrites the editable fields of the item identified by
// item.ID and item.UserID. No matching row yields common.ErrorNotFound.
func (r *PostgresRepository) Update(ctx context.Context, item *models.Item) error {
	query :=
		`UPDATE items
		 SET title = $3, amount = $4, location = $5, category = $6, notes = $7, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query,
		item.ID, item.UserID, item.Title, item.Amount, item.Location, item.Category, item.Notes)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res)
}

// Delete removes the item if the user owns it. Deleting a missing item is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM items WHERE id = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, id, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetNeedsMore(ctx context.Context, id, userID string, needsMore bool) error {
	query := `UPDATE items SET needs_more = $3, updated_at = now() WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID, needsMore)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res)
}
