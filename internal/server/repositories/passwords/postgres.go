// Package passwords stores bcrypt password hashes, one per user.
package passwords

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

func (r *PostgresRepository) Create(ctx context.Context, p *models.Password) error {
	query := `INSERT INTO passwords (user_id, hash) VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, p.UserID, p.Hash); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.Password, error) {
	query := `SELECT user_id, hash FROM passwords WHERE user_id = $1`

	p := &models.Password{}
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&p.UserID, &p.Hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}
