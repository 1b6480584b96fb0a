// Package repomanager owns the storage backend of the identity server and
// vends the credential and profile repositories built on it.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/telepharmacy/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/telepharmacy/internal/server/repositories/profiles"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Credentials() credentials.Repository
	Profiles() profiles.Repository
	Close() error
}
