package passwords

import (
	"context"

	"github.com/dmitrijs2005/freezeraudit/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Password) error
	GetByUserID(ctx context.Context, userID string) (*models.Password, error)
}
