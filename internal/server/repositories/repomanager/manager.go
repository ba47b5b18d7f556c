package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/cloudstore/internal/dbx"
	"github.com/dmitrijs2005/cloudstore/internal/server/repositories/contents"
	"github.com/dmitrijs2005/cloudstore/internal/server/repositories/files"
	"github.com/dmitrijs2005/cloudstore/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/cloudstore/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Files(db dbx.DBTX) files.Repository
	Contents(db dbx.DBTX) contents.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
