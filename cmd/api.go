package cmd

import (
	"context"

	"github.com/mwantia/litedb"
	"github.com/mwantia/litedb/data"
)

type databaseAPI struct {
	db *litedb.Database
}

// NewAPI exposes db to commands.
func NewAPI(db *litedb.Database) API {
	return &databaseAPI{db: db}
}

func (a *databaseAPI) BeginTrans(ctx context.Context) (bool, error) {
	return a.db.BeginTrans(ctx)
}

func (a *databaseAPI) Commit(ctx context.Context) error {
	return a.db.Commit(ctx)
}

func (a *databaseAPI) Rollback(ctx context.Context) error {
	return a.db.Rollback(ctx)
}

func (a *databaseAPI) Info(ctx context.Context) (data.Document, error) {
	return a.db.Info(ctx)
}

func (a *databaseAPI) FileInfo(ctx context.Context, id data.ID) (*data.FileInfo, bool, error) {
	return a.db.FileStorage().FindByID(ctx, id)
}

func (a *databaseAPI) FindFiles(ctx context.Context, prefix string) ([]*data.FileInfo, error) {
	return a.db.FileStorage().Find(ctx, prefix)
}

func (a *databaseAPI) SetFileMetadata(ctx context.Context, id data.ID, metadata data.Document) (*data.FileInfo, bool, error) {
	return a.db.FileStorage().SetMetadata(ctx, id, metadata)
}

func (a *databaseAPI) DeleteFile(ctx context.Context, id data.ID) (bool, error) {
	return a.db.FileStorage().Delete(ctx, id)
}
