package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/freezeraudit/internal/common"
	"github.com/dmitrijs2005/freezeraudit/internal/dbx"
	"github.com/dmitrijs2005/freezeraudit/internal/server/models"
	"github.com/dmitrijs2005/freezeraudit/internal/server/repositories/items"
	"github.com/dmitrijs2005/freezeraudit/internal/server/repositories/locations"
	"github.com/dmitrijs2005/freezeraudit/internal/server/repositories/passwords"
	"github.com/dmitrijs2005/freezeraudit/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type clock struct{ t time.Time }

func (c *clock) next() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

type memUsers struct {
	byID      map[string]*models.User
	createErr error
}

func (r *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.byID {
		if existing.UserName == u.UserName {
			return nil, common.ErrorAlreadyExists
		}
	}
	cp := *u
	r.byID[u.ID] = &cp
	return u, nil
}

func (r *memUsers) GetByUsername(_ context.Context, name string) (*models.User, error) {
	for _, u := range r.byID {
		if u.UserName == name {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) DeleteByUsername(_ context.Context, name string) error {
	for id, u := range r.byID {
		if u.UserName == name {
			delete(r.byID, id)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *memUsers) Count(context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

type memPasswords struct {
	byUser map[string]string
}

func (r *memPasswords) Create(_ context.Context, p *models.Password) error {
	r.byUser[p.UserID] = p.Hash
	return nil
}

func (r *memPasswords) GetByUserID(_ context.Context, userID string) (*models.Password, error) {
	h, ok := r.byUser[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.Password{UserID: userID, Hash: h}, nil
}

type memItems struct {
	rows  map[string]*models.Item
	clock *clock
}

func (r *memItems) Create(_ context.Context, item *models.Item) (*models.Item, error) {
	now := r.clock.next()
	item.CreatedAt, item.UpdatedAt = now, now
	cp := *item
	r.rows[item.ID] = &cp
	return item, nil
}

func (r *memItems) Get(_ context.Context, id, userID string) (*models.Item, error) {
	it, ok := r.rows[id]
	if !ok || it.UserID != userID {
		return nil, common.ErrorNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *memItems) List(_ context.Context, userID string) ([]*models.Item, error) {
	out := make([]*models.Item, 0)
	for _, it := range r.rows {
		if it.UserID == userID {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memItems) Update(_ context.Context, item *models.Item) error {
	it, ok := r.rows[item.ID]
	if !ok || it.UserID != item.UserID {
		return common.ErrorNotFound
	}
	it.Title, it.Amount, it.Location, it.Category, it.Notes = item.Title, item.Amount, item.Location, item.Category, item.Notes
	it.UpdatedAt = r.clock.next()
	return nil
}

func (r *memItems) Delete(_ context.Context, id, userID string) error {
	if it, ok := r.rows[id]; ok && it.UserID == userID {
		delete(r.rows, id)
	}
	return nil
}

func (r *memItems) SetNeedsMore(_ context.Context, id, userID string, v bool) error {
	it, ok := r.rows[id]
	if !ok || it.UserID != userID {
		return common.ErrorNotFound
	}
	it.NeedsMore = v
	it.UpdatedAt = r.clock.next()
	return nil
}

type memLocations struct {
	rows  map[string]*models.Location
	clock *clock
}

func (r *memLocations) Create(_ context.Context, l *models.Location) (*models.Location, error) {
	now := r.clock.next()
	l.CreatedAt, l.UpdatedAt = now, now
	cp := *l
	r.rows[l.ID] = &cp
	return l, nil
}

func (r *memLocations) Get(_ context.Context, id, userID string) (*models.Location, error) {
	l, ok := r.rows[id]
	if !ok || l.UserID != userID {
		return nil, common.ErrorNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *memLocations) List(_ context.Context, userID string) ([]*models.Location, error) {
	out := make([]*models.Location, 0)
	for _, l := range r.rows {
		if l.UserID == userID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memLocations) Delete(_ context.Context, id, userID string) error {
	if l, ok := r.rows[id]; ok && l.UserID == userID {
		delete(r.rows, id)
	}
	return nil
}

type fakeRepoManager struct {
	users     *memUsers
	passwords *memPasswords
	items     *memItems
	locations *memLocations
}

func newFakeRepoManager() *fakeRepoManager {
	c := &clock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	return &fakeRepoManager{
		users:     &memUsers{byID: map[string]*models.User{}},
		passwords: &memPasswords{byUser: map[string]string{}},
		items:     &memItems{rows: map[string]*models.Item{}, clock: c},
		locations: &memLocations{rows: map[string]*models.Location{}, clock: c},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.users }
func (m *fakeRepoManager) Passwords(dbx.DBTX) passwords.Repository      { return m.passwords }
func (m *fakeRepoManager) Items(dbx.DBTX) items.Repository              { return m.items }
func (m *fakeRepoManager) Locations(dbx.DBTX) locations.Repository      { return m.locations }

// plainHasher keeps tests fast; the bcrypt hasher has its own tests.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error)     { return "hashed:" + p, nil }
func (plainHasher) Compare(h, p string) (bool, error) { return h == "hashed:"+p, nil }

func withSequentialIDs(t *testing.T) {
	t.Helper()
	orig := newID
	n := 0
	newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	t.Cleanup(func() { newID = orig })
}
