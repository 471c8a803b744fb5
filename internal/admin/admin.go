// Package admin implements the maintenance tasks behind freezerctl: user
// management, seeding and exports.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/dmitrijs2005/freezeraudit/internal/common"
	"github.com/dmitrijs2005/freezeraudit/internal/logging"
	"github.com/dmitrijs2005/freezeraudit/internal/server/auth"
	"github.com/dmitrijs2005/freezeraudit/internal/server/models"
)

const (
	SeedUsername        = "dontworry"
	DefaultSeedPassword = "myreallystrongpassword"
)

var ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", auth.MinPasswordLength)

type UserStore interface {
	CreateUser(ctx context.Context, username, password string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	DeleteUser(ctx context.Context, username string) (bool, error)
}

type ItemCreator interface {
	Create(ctx context.Context, ownerID string, f models.ItemFields) (*models.Item, error)
}

type Exporter interface {
	WriteCSV(ctx context.Context, ownerID string, w io.Writer) error
	Archive(ctx context.Context, ownerID string) (string, error)
}

type Admin struct {
	users   UserStore
	items   ItemCreator
	exports Exporter
	store   *auth.Store
	out     io.Writer
	logger  logging.Logger
}

func New(users UserStore, items ItemCreator, exports Exporter, store *auth.Store, out io.Writer, l logging.Logger) *Admin {
	return &Admin{users: users, items: items, exports: exports, store: store, out: out, logger: l.With("module", "admin")}
}

// CreateUser creates username and prints a session cookie value that logs
// the caller in as the new user.
func (a *Admin) CreateUser(ctx context.Context, username, password string) error {
	if username == "" {
		return errors.New("username required")
	}
	if utf8.RuneCountInString(password) < auth.MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := a.users.CreateUser(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return fmt.Errorf("user %q already exists: %w", username, err)
		}
		return err
	}

	sess := auth.NewSession()
	sess.Set(common.UserSessionKey, user.ID)
	cookie, err := a.store.Commit(sess, 0)
	if err != nil {
		return err
	}

	a.logger.Info(ctx, "user created", "user_id", user.ID, "username", username)
	_, err = fmt.Fprintf(a.out, "<cookie>\n  %s\n</cookie>\n", cookie.Value)
	return err
}

// DeleteUser removes username with everything it owns. A missing user is
// reported, not treated as a failure.
func (a *Admin) DeleteUser(ctx context.Context, username string) error {
	if username == "" {
		return errors.New("username required")
	}

	ok, err := a.users.DeleteUser(ctx, username)
	if err != nil {
		return err
	}
	if !ok {
		_, err = fmt.Fprintln(a.out, "User not found, so no need to delete")
		return err
	}

	a.logger.Info(ctx, "user deleted", "username", username)
	_, err = fmt.Fprintf(a.out, "User %s deleted\n", username)
	return err
}

// Seed recreates the demo user with one sample item.
func (a *Admin) Seed(ctx context.Context, password string) error {
	if password == "" {
		password = DefaultSeedPassword
	}

	if _, err := a.users.DeleteUser(ctx, SeedUsername); err != nil {
		return err
	}

	user, err := a.users.CreateUser(ctx, SeedUsername, password)
	if err != nil {
		return err
	}

	_, err = a.items.Create(ctx, user.ID, models.ItemFields{
		Title:    "Beef burgers",
		Amount:   "4",
		Location: "Kitchen",
		Category: models.CategoryMeatFish,
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(a.out, "Database has been seeded.")
	return err
}

// Export writes the CSV export of username to the output, or uploads it and
// prints the download link when upload is set.
func (a *Admin) Export(ctx context.Context, username string, upload bool) error {
	user, err := a.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("user %q not found: %w", username, err)
		}
		return err
	}

	if !upload {
		return a.exports.WriteCSV(ctx, user.ID, a.out)
	}

	url, err := a.exports.Archive(ctx, user.ID)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, url)
	return err
}
