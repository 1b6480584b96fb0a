package client

import (
	"context"

	"github.com/dmitrijs2005/telepharmacy/internal/logging"
	"github.com/dmitrijs2005/telepharmacy/internal/server/models"
	"github.com/dmitrijs2005/telepharmacy/internal/server/passwords"
	"github.com/dmitrijs2005/telepharmacy/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/telepharmacy/internal/server/services"
	"github.com/dmitrijs2005/telepharmacy/internal/server/tokens"
)

// LocalBackend serves the credential and profile stores in process, with
// plain-text passwords and mock tokens. State lives as long as the value.
// Photo uploads are not available.
type LocalBackend struct {
	credentials *services.CredentialService
	profiles    *services.ProfileService
}

func NewLocalBackend(log logging.Logger) *LocalBackend {
	repos := repomanager.NewInMemoryRepositoryManager()
	return &LocalBackend{
		credentials: services.NewCredentialService(repos.Credentials(), passwords.Plain{}, tokens.NewMockIssuer(), log),
		profiles:    services.NewProfileService(repos.Profiles(), nil, log),
	}
}

func (b *LocalBackend) Register(ctx context.Context, email, password, name string) (*models.UserCredential, error) {
	return b.credentials.Register(ctx, email, password, name)
}

func (b *LocalBackend) Login(ctx context.Context, email, password string) (*models.UserCredential, error) {
	return b.credentials.Login(ctx, email, password)
}

func (b *LocalBackend) Logout(ctx context.Context, user models.UserRef) error {
	return b.credentials.Logout(ctx, user)
}

func (b *LocalBackend) UpdateEmail(ctx context.Context, user models.UserRef, newEmail string) error {
	return b.credentials.UpdateEmail(ctx, user, newEmail)
}

func (b *LocalBackend) UpdatePassword(ctx context.Context, user models.UserRef, newPassword string) error {
	return b.credentials.UpdatePassword(ctx, user, newPassword)
}

func (b *LocalBackend) Reauthenticate(ctx context.Context, user models.UserRef, currentPassword string) error {
	return b.credentials.Reauthenticate(ctx, user, currentPassword)
}

func (b *LocalBackend) DeleteAccount(ctx context.Context, user models.UserRef) error {
	return b.credentials.DeleteAccount(ctx, user)
}

func (b *LocalBackend) SendVerificationEmail(ctx context.Context, user models.UserRef) error {
	return b.credentials.SendVerificationEmail(ctx, user)
}

func (b *LocalBackend) ResetPassword(ctx context.Context, email string) error {
	return b.credentials.ResetPassword(ctx, email)
}

func (b *LocalBackend) ApplyVerificationCode(ctx context.Context, code string) error {
	return b.credentials.ApplyVerificationCode(ctx, code)
}

func (b *LocalBackend) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	return b.credentials.ConfirmPasswordReset(ctx, code, newPassword)
}

func (b *LocalBackend) IDToken(ctx context.Context, uid string) (string, error) {
	return b.credentials.IDToken(ctx, uid)
}

func (b *LocalBackend) CreateProfile(ctx context.Context, src models.ProfileSource, extra models.Fields) (*models.Profile, error) {
	return b.profiles.Create(ctx, src, extra)
}

func (b *LocalBackend) GetProfile(ctx context.Context, uid string) (*models.Profile, error) {
	return b.profiles.Get(ctx, uid)
}

func (b *LocalBackend) UpdateProfile(ctx context.Context, uid string, patch models.Fields) (*models.Profile, error) {
	return b.profiles.Update(ctx, uid, patch)
}

func (b *LocalBackend) DeleteProfile(ctx context.Context, uid string) error {
	return b.profiles.Delete(ctx, uid)
}

func (b *LocalBackend) PreparePhotoUpload(ctx context.Context, uid string) (*models.PhotoUpload, error) {
	return b.profiles.PreparePhotoUpload(ctx, uid)
}

func (b *LocalBackend) Ping(context.Context) error { return nil }

func (b *LocalBackend) Close() error { return nil }
