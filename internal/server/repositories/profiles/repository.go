// Package profiles stores one profile document per account identifier.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/telepharmacy/internal/server/models"
)

// Mutator edits a profile in place during Update. Returning an error aborts
// the update and leaves the stored record unchanged.
type Mutator func(p *models.Profile) error

type Repository interface {
	// Put stores p, replacing any profile with the same ID.
	Put(ctx context.Context, p *models.Profile) error
	// Get returns nil, nil when there is no profile for uid.
	Get(ctx context.Context, uid string) (*models.Profile, error)
	// Update applies fn atomically and returns the stored result. It fails
	// with common.ErrProfileNotFound when there is no profile for uid.
	Update(ctx context.Context, uid string, fn Mutator) (*models.Profile, error)
	// Delete succeeds when there is nothing to delete.
	Delete(ctx context.Context, uid string) error
}
