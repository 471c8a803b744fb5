package locations

import (
	"context"

	"github.com/dmitrijs2005/freezeraudit/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, loc *models.Location) (*models.Location, error)
	Get(ctx context.Context, id, userID string) (*models.Location, error)
	List(ctx context.Context, userID string) ([]*models.Location, error)
	Delete(ctx context.Context, id, userID string) error
}
