// Package locations provides the PostgreSQL-backed storage location repository.
package locations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/freezeraudit/internal/common"
	"github.com/dmitrijs2005/freezeraudit/internal/dbx"
	"github.com/dmitrijs2005/freezeraudit/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, loc *models.Location) (*models.Location, error) {
	query :=
		`INSERT INTO locations (id, user_id, title)
		 VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at
		 `

	if err := r.db.QueryRowContext(ctx, query, loc.ID, loc.UserID, loc.Title).Scan(&loc.CreatedAt, &loc.UpdatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return loc, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id, userID string) (*models.Location, error) {
	query := `SELECT id, user_id, title, created_at, updated_at FROM locations WHERE id = $1 AND user_id = $2`

	loc := &models.Location{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&loc.ID, &loc.UserID, &loc.Title, &loc.CreatedAt, &loc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return loc, nil
}

// List returns the user's locations, most recently updated first.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.Location, error) {
	query := `SELECT id, user_id, title, created_at, updated_at FROM locations WHERE user_id = $1 ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Location, 0)
	for rows.Next() {
		loc := &models.Location{}
		if err := rows.Scan(&loc.ID, &loc.UserID, &loc.Title, &loc.CreatedAt, &loc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Delete removes the location if the user owns it. Items tagged with its
// title are left untouched.
func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
