package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/freezeraudit/internal/dbx"
	"github.com/dmitrijs2005/freezeraudit/internal/server/repositories/items"
	"github.com/dmitrijs2005/freezeraudit/internal/server/repositories/locations"
	"github.com/dmitrijs2005/freezeraudit/internal/server/repositories/passwords"
	"github.com/dmitrijs2005/freezeraudit/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to either the pool or a
// transaction, so services can compose several of them inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Passwords(db dbx.DBTX) passwords.Repository
	Items(db dbx.DBTX) items.Repository
	Locations(db dbx.DBTX) locations.Repository
}
