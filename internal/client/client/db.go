package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/telepharmacy/internal/client/migrations"
	"github.com/dmitrijs2005/telepharmacy/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/telepharmacy/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories is the CLI's local storage. Close releases whatever backs it.
type Repositories struct {
	Metadata metadata.Repository
	closeFn  func() error
}

func (r *Repositories) Close() error {
	if r.closeFn == nil {
		return nil
	}
	return r.closeFn()
}

// RunMigrations applies the embedded migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite file at dsn and migrates it. Missing parent
// directories are created.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	if err := filex.EnsureParentDir(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Metadata: metadata.NewSQLiteRepository(db, metadata.DefaultScope),
		closeFn:  db.Close,
	}, nil
}

// InitRedis connects to the Redis server at addr.
func InitRedis(ctx context.Context, addr string) (*Repositories, error) {
	rc, err := metadata.NewRedisClient(ctx, addr)
	if err != nil {
		return nil, err
	}
	return &Repositories{
		Metadata: metadata.NewRedisRepository(rc, metadata.DefaultRedisPrefix),
		closeFn:  rc.Close,
	}, nil
}
