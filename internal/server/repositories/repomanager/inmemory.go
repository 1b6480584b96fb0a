package repomanager

import (
	"context"

	"github.com/dmitrijs2005/telepharmacy/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/telepharmacy/internal/server/repositories/profiles"
)

// InMemoryRepositoryManager holds process-local stores. Nothing survives a
// restart; a fresh manager starts empty.
type InMemoryRepositoryManager struct {
	credentials *credentials.InMemoryRepository
	profiles    *profiles.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		credentials: credentials.NewInMemoryRepository(),
		profiles:    profiles.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) Credentials() credentials.Repository { return m.credentials }

func (m *InMemoryRepositoryManager) Profiles() profiles.Repository { return m.profiles }

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *InMemoryRepositoryManager) Close() error { return nil }
