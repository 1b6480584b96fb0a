// Package credentials stores one credential per email address.
package credentials

import (
	"context"
	"time"

	"github.com/dmitrijs2005/telepharmacy/internal/server/models"
)

// Repository is keyed by email. The credential ID never changes, so it
// survives ChangeEmail and is what other stores refer to.
type Repository interface {
	// Create fails with common.ErrEmailAlreadyInUse if the email is taken.
	Create(ctx context.Context, c *models.Credential) error
	// GetByEmail fails with common.ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*models.Credential, error)
	// ChangeEmail re-keys the record, keeping every other field.
	ChangeEmail(ctx context.Context, oldEmail, newEmail string, now time.Time) error
	UpdatePassword(ctx context.Context, email, password string, now time.Time) error
	// Delete succeeds when there is nothing to delete.
	Delete(ctx context.Context, email string) error
}
