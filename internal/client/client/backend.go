package client

import (
	"context"

	"github.com/dmitrijs2005/telepharmacy/internal/server/models"
)

type CredentialStore interface {
	Register(ctx context.Context, email, password, name string) (*models.UserCredential, error)
	Login(ctx context.Context, email, password string) (*models.UserCredential, error)
	Logout(ctx context.Context, user models.UserRef) error
	UpdateEmail(ctx context.Context, user models.UserRef, newEmail string) error
	UpdatePassword(ctx context.Context, user models.UserRef, newPassword string) error
	Reauthenticate(ctx context.Context, user models.UserRef, currentPassword string) error
	DeleteAccount(ctx context.Context, user models.UserRef) error
	SendVerificationEmail(ctx context.Context, user models.UserRef) error
	ResetPassword(ctx context.Context, email string) error
	ApplyVerificationCode(ctx context.Context, code string) error
	ConfirmPasswordReset(ctx context.Context, code, newPassword string) error
	IDToken(ctx context.Context, uid string) (string, error)
}

// ProfileGetter is all the session needs to rehydrate. A nil profile with a
// nil error means the user has none.
type ProfileGetter interface {
	GetProfile(ctx context.Context, uid string) (*models.Profile, error)
}

type ProfileStore interface {
	ProfileGetter
	CreateProfile(ctx context.Context, src models.ProfileSource, extra models.Fields) (*models.Profile, error)
	UpdateProfile(ctx context.Context, uid string, patch models.Fields) (*models.Profile, error)
	DeleteProfile(ctx context.Context, uid string) error
	PreparePhotoUpload(ctx context.Context, uid string) (*models.PhotoUpload, error)
}

type Backend interface {
	CredentialStore
	ProfileStore
	Ping(ctx context.Context) error
	Close() error
}
