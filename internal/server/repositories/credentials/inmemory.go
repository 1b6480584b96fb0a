package credentials

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/telepharmacy/internal/common"
	"github.com/dmitrijs2005/telepharmacy/internal/server/models"
)

// InMemoryRepository keeps credentials in a map keyed by email. Every method
// holds the lock for its whole read-modify-write, so concurrent re-keys of the
// same email are serialized and the loser sees ErrUserNotFound.
type InMemoryRepository struct {
	mu      sync.Mutex
	byEmail map[string]models.Credential
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byEmail: map[string]models.Credential{}}
}

func (r *InMemoryRepository) Create(_ context.Context, c *models.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[c.Email]; ok {
		return common.ErrEmailAlreadyInUse
	}
	r.byEmail[c.Email] = *c
	return nil
}

func (r *InMemoryRepository) GetByEmail(_ context.Context, email string) (*models.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	return &c, nil
}

func (r *InMemoryRepository) ChangeEmail(_ context.Context, oldEmail, newEmail string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byEmail[oldEmail]
	if !ok {
		return common.ErrUserNotFound
	}
	if newEmail != oldEmail {
		if _, taken := r.byEmail[newEmail]; taken {
			return common.ErrEmailAlreadyInUse
		}
	}

	c.Email = newEmail
	c.UpdatedAt = now
	delete(r.byEmail, oldEmail)
	r.byEmail[newEmail] = c
	return nil
}

func (r *InMemoryRepository) UpdatePassword(_ context.Context, email, password string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byEmail[email]
	if !ok {
		return common.ErrUserNotFound
	}
	c.Password = password
	c.UpdatedAt = now
	r.byEmail[email] = c
	return nil
}

func (r *InMemoryRepository) Delete(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byEmail, email)
	return nil
}
