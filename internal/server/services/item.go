package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/freezeraudit/internal/common"
	"github.com/dmitrijs2005/freezeraudit/internal/dbx"
	"github.com/dmitrijs2005/freezeraudit/internal/server/models"
	"github.com/dmitrijs2005/freezeraudit/internal/server/repositories/repomanager"
)

// ItemService applies item mutations. Every call is scoped to ownerID.
type ItemService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewItemService(db *sql.DB, m repomanager.RepositoryManager) *ItemService {
	return &ItemService{db: db, repomanager: m}
}

func (s *ItemService) Create(ctx context.Context, ownerID string, f models.ItemFields) (*models.Item, error) {
	if err := ValidateItem(f); err != nil {
		return nil, err
	}
	item := &models.Item{
		ID:       newID(),
		UserID:   ownerID,
		Title:    f.Title,
		Amount:   f.Amount,
		Location: f.Location,
		Category: f.Category,
		Notes:    f.Notes,
	}
	return s.repomanager.Items(s.db).Create(ctx, item)
}

// Get returns common.ErrorNotFound for a missing item and for one owned by
// someone else.
func (s *ItemService) Get(ctx context.Context, id, ownerID string) (*models.Item, error) {
	return s.repomanager.Items(s.db).Get(ctx, id, ownerID)
}

// List returns the owner's items, most recently updated first.
func (s *ItemService) List(ctx context.Context, ownerID string) ([]*models.Item, error) {
	return s.repomanager.Items(s.db).List(ctx, ownerID)
}

func (s *ItemService) Update(ctx context.Context, id, ownerID string, f models.ItemFields) error {
	if err := ValidateItem(f); err != nil {
		return err
	}
	return s.repomanager.Items(s.db).Update(ctx, &models.Item{
		ID:       id,
		UserID:   ownerID,
		Title:    f.Title,
		Amount:   f.Amount,
		Location: f.Location,
		Category: f.Category,
		Notes:    f.Notes,
	})
}

func (s *ItemService) Delete(ctx context.Context, id, ownerID string) error {
	return s.repomanager.Items(s.db).Delete(ctx, id, ownerID)
}

// Clone copies the editable fields and the needs-more flag of an item into
// a new item of the same owner. A missing source yields (nil, nil).
func (s *ItemService) Clone(ctx context.Context, id, ownerID string) (*models.Item, error) {
	var clone *models.Item
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Items(tx)

		src, err := repo.Get(ctx, id, ownerID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil
			}
			return err
		}

		clone, err = repo.Create(ctx, &models.Item{
			ID:        newID(),
			UserID:    ownerID,
			Title:     src.Title,
			Amount:    src.Amount,
			Location:  src.Location,
			Category:  src.Category,
			Notes:     src.Notes,
			NeedsMore: src.NeedsMore,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return clone, nil
}

func (s *ItemService) SetNeedsMore(ctx context.Context, id, ownerID string, needsMore bool) error {
	return s.repomanager.Items(s.db).SetNeedsMore(ctx, id, ownerID, needsMore)
}
