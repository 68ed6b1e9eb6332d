// Package repomanager vends repository implementations bound to a DBTX, so
// services can obtain repositories running either on the pool or inside a
// transaction, and exposes the schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/vmakarenko/contactvault/internal/dbx"
	"github.com/vmakarenko/contactvault/internal/server/repositories/contacts"
	"github.com/vmakarenko/contactvault/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Contacts(db dbx.DBTX) contacts.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
