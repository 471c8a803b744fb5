package httpserver

import (
	"context"
	"io"

	"github.com/dmitrijs2005/freezeraudit/internal/server/models"
	"github.com/stretchr/testify/mock"
)

type mockUsers struct{ mock.Mock }

func (m *mockUsers) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUsers) VerifyLogin(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUsers) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUsers) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockItems struct{ mock.Mock }

func (m *mockItems) Create(ctx context.Context, ownerID string, f models.ItemFields) (*models.Item, error) {
	args := m.Called(ctx, ownerID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *mockItems) Get(ctx context.Context, id, ownerID string) (*models.Item, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *mockItems) List(ctx context.Context, ownerID string) ([]*models.Item, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Item), args.Error(1)
}

func (m *mockItems) Update(ctx context.Context, id, ownerID string, f models.ItemFields) error {
	return m.Called(ctx, id, ownerID, f).Error(0)
}

func (m *mockItems) Delete(ctx context.Context, id, ownerID string) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

func (m *mockItems) Clone(ctx context.Context, id, ownerID string) (*models.Item, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *mockItems) SetNeedsMore(ctx context.Context, id, ownerID string, needsMore bool) error {
	return m.Called(ctx, id, ownerID, needsMore).Error(0)
}

type mockLocations struct{ mock.Mock }

func (m *mockLocations) Create(ctx context.Context, ownerID, title string) (*models.Location, error) {
	args := m.Called(ctx, ownerID, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Location), args.Error(1)
}

func (m *mockLocations) List(ctx context.Context, ownerID string) ([]*models.Location, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Location), args.Error(1)
}

func (m *mockLocations) Delete(ctx context.Context, id, ownerID string) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

type mockExports struct{ mock.Mock }

func (m *mockExports) FileName() string {
	return m.Called().String(0)
}

func (m *mockExports) WriteCSV(ctx context.Context, ownerID string, w io.Writer) error {
	args := m.Called(ctx, ownerID, w)
	if s := args.String(1); s != "" {
		_, _ = io.WriteString(w, s)
	}
	return args.Error(0)
}

func (m *mockExports) Archive(ctx context.Context, ownerID string) (string, error) {
	args := m.Called(ctx, ownerID)
	return args.String(0), args.Error(1)
}
