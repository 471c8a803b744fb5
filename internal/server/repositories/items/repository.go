package items

import (
	"context"

	"github.com/dmitrijs2005/freezeraudit/internal/server/models"
)

// Repository stores items. Every method except Create is scoped by owner:
// a row belonging to another user behaves exactly like a missing one.
type Repository interface {
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	Get(ctx context.Context, id, userID string) (*models.Item, error)
	List(ctx context.Context, userID string) ([]*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id, userID string) error
	SetNeedsMore(ctx context.Context, id, userID string, needsMore bool) error
}
