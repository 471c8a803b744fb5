// Package services contains server-side business logic: credentials, item
// and location mutations, category grouping and CSV export.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/freezeraudit/internal/common"
	"github.com/dmitrijs2005/freezeraudit/internal/dbx"
	"github.com/dmitrijs2005/freezeraudit/internal/server/auth"
	"github.com/dmitrijs2005/freezeraudit/internal/server/models"
	"github.com/dmitrijs2005/freezeraudit/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// newID is a seam for generating primary keys.
var newID = uuid.NewString

// UserService is the credential store: it creates users with a bcrypt
// password and verifies logins.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher) *UserService {
	return &UserService{db: db, repomanager: m, hasher: hasher}
}

// CreateUser stores a new user and its password hash in one transaction.
// A taken username yields common.ErrorAlreadyExists.
func (s *UserService) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	if _, err := s.repomanager.Users(s.db).GetByUsername(ctx, username); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, &models.User{ID: newID(), UserName: username})
		if err != nil {
			return err
		}
		if err := s.repomanager.Passwords(tx).Create(ctx, &models.Password{UserID: u.ID, Hash: hash}); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// VerifyLogin returns the user when password matches. An unknown user or a
// wrong password both yield (nil, nil).
func (s *UserService) VerifyLogin(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}

	p, err := s.repomanager.Passwords(s.db).GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}

	ok, err := s.hasher.Compare(p.Hash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByUsername(ctx, username)
}

// DeleteUser removes the user and everything it owns. It reports false
// when there was no such user.
func (s *UserService) DeleteUser(ctx context.Context, username string) (bool, error) {
	err := s.repomanager.Users(s.db).DeleteByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *UserService) CountUsers(ctx context.Context) (int64, error) {
	return s.repomanager.Users(s.db).Count(ctx)
}
