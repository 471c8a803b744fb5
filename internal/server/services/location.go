package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/freezeraudit/internal/server/models"
	"github.com/dmitrijs2005/freezeraudit/internal/server/repositories/repomanager"
)

type LocationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewLocationService(db *sql.DB, m repomanager.RepositoryManager) *LocationService {
	return &LocationService{db: db, repomanager: m}
}

func (s *LocationService) Create(ctx context.Context, ownerID, title string) (*models.Location, error) {
	if err := ValidateLocation(title); err != nil {
		return nil, err
	}
	return s.repomanager.Locations(s.db).Create(ctx, &models.Location{ID: newID(), UserID: ownerID, Title: title})
}

func (s *LocationService) Get(ctx context.Context, id, ownerID string) (*models.Location, error) {
	return s.repomanager.Locations(s.db).Get(ctx, id, ownerID)
}

func (s *LocationService) List(ctx context.Context, ownerID string) ([]*models.Location, error) {
	return s.repomanager.Locations(s.db).List(ctx, ownerID)
}

func (s *LocationService) Delete(ctx context.Context, id, ownerID string) error {
	return s.repomanager.Locations(s.db).Delete(ctx, id, ownerID)
}
