package users

import (
	"context"

	"github.com/dmitrijs2005/freezeraudit/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, userName string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	DeleteByUsername(ctx context.Context, userName string) error
	Count(ctx context.Context) (int64, error)
}
