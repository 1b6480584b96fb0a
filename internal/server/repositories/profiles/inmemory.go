package profiles

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/telepharmacy/internal/common"
	"github.com/dmitrijs2005/telepharmacy/internal/server/models"
)

type InMemoryRepository struct {
	mu    sync.Mutex
	byUID map[string]*models.Profile
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byUID: map[string]*models.Profile{}}
}

func (r *InMemoryRepository) Put(_ context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byUID[p.ID] = p.Clone()
	return nil
}

func (r *InMemoryRepository) Get(_ context.Context, uid string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.byUID[uid].Clone(), nil
}

func (r *InMemoryRepository) Update(_ context.Context, uid string, fn Mutator) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byUID[uid]
	if !ok {
		return nil, common.ErrProfileNotFound
	}
	next := p.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	r.byUID[uid] = next
	return next.Clone(), nil
}

func (r *InMemoryRepository) Delete(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byUID, uid)
	return nil
}
