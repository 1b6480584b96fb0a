// Package services holds the CLI's application services. AuthService runs
// the multi-step account flows against a client.Backend and keeps the
// session in step with what the stores return.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/telepharmacy/internal/client/client"
	"github.com/dmitrijs2005/telepharmacy/internal/client/session"
	"github.com/dmitrijs2005/telepharmacy/internal/common"
	"github.com/dmitrijs2005/telepharmacy/internal/logging"
	"github.com/dmitrijs2005/telepharmacy/internal/server/models"
)

// AuthService surfaces store errors unchanged, so callers can branch on
// them with errors.Is. Operations on the current user fail with
// common.ErrNoAuthenticatedUser when nobody is logged in.
type AuthService struct {
	backend client.Backend
	session *session.Context
	log     logging.Logger
}

func NewAuthService(backend client.Backend, s *session.Context, log logging.Logger) *AuthService {
	return &AuthService{backend: backend, session: s, log: log.With("module", "auth_service")}
}

func (a *AuthService) currentUser() (*models.SessionUser, error) {
	u := a.session.User()
	if u == nil {
		return nil, common.ErrNoAuthenticatedUser
	}
	return u, nil
}

// Register creates the account, then its profile, then logs the user in.
// The two creations are separate calls; a profile failure leaves the
// credential in place.
func (a *AuthService) Register(ctx context.Context, email, password, name string) (*models.SessionUser, error) {
	cred, err := a.backend.Register(ctx, email, password, name)
	if err != nil {
		return nil, err
	}

	u := cred.User
	p, err := a.backend.CreateProfile(ctx, u.Source(), nil)
	if err != nil {
		return nil, err
	}
	u.Merge(p)

	if err := a.session.Login(ctx, u); err != nil {
		return nil, err
	}
	a.log.Info(ctx, "registered", "uid", u.UID)
	return &u, nil
}

// Login authenticates and overlays the stored profile, if any.
func (a *AuthService) Login(ctx context.Context, email, password string) (*models.SessionUser, error) {
	cred, err := a.backend.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	u := cred.User
	p, err := a.backend.GetProfile(ctx, u.UID)
	if err != nil {
		return nil, err
	}
	u.Merge(p)

	if err := a.session.Login(ctx, u); err != nil {
		return nil, err
	}
	a.log.Info(ctx, "logged in", "uid", u.UID)
	return &u, nil
}

// Logout always clears the local session, even if the backend call fails.
func (a *AuthService) Logout(ctx context.Context) error {
	var backendErr error
	if u := a.session.User(); u != nil {
		backendErr = a.backend.Logout(ctx, u.Ref())
	}
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	return backendErr
}

// UpdateProfile applies patch to the current user's profile.
func (a *AuthService) UpdateProfile(ctx context.Context, patch models.Fields) (*models.SessionUser, error) {
	u, err := a.currentUser()
	if err != nil {
		return nil, err
	}

	p, err := a.backend.UpdateProfile(ctx, u.UID, patch)
	if err != nil {
		return nil, err
	}
	u.Merge(p)

	if err := a.session.Login(ctx, *u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateEmail checks the current password, re-keys the credential and then
// copies the address to the profile.
func (a *AuthService) UpdateEmail(ctx context.Context, currentPassword, newEmail string) (*models.SessionUser, error) {
	u, err := a.currentUser()
	if err != nil {
		return nil, err
	}
	if err := a.backend.Reauthenticate(ctx, u.Ref(), currentPassword); err != nil {
		return nil, err
	}
	if err := a.backend.UpdateEmail(ctx, u.Ref(), newEmail); err != nil {
		return nil, err
	}

	// the credential moved, so the session must follow even if the
	// profile step fails
	u.Email = newEmail
	if err := a.session.Login(ctx, *u); err != nil {
		return nil, err
	}

	p, err := a.backend.UpdateProfile(ctx, u.UID, models.Fields{"email": newEmail})
	if err != nil {
		return nil, err
	}
	u.Merge(p)

	if err := a.session.Login(ctx, *u); err != nil {
		return nil, err
	}
	return u, nil
}

func (a *AuthService) UpdatePassword(ctx context.Context, currentPassword, newPassword string) error {
	u, err := a.currentUser()
	if err != nil {
		return err
	}
	if err := a.backend.Reauthenticate(ctx, u.Ref(), currentPassword); err != nil {
		return err
	}
	return a.backend.UpdatePassword(ctx, u.Ref(), newPassword)
}

// DeleteAccount checks the password, removes the profile and the credential,
// and ends the session.
func (a *AuthService) DeleteAccount(ctx context.Context, password string) error {
	u, err := a.currentUser()
	if err != nil {
		return err
	}
	if err := a.backend.Reauthenticate(ctx, u.Ref(), password); err != nil {
		return err
	}
	if err := a.backend.DeleteProfile(ctx, u.UID); err != nil {
		return err
	}
	if err := a.backend.DeleteAccount(ctx, u.Ref()); err != nil {
		return err
	}
	if err := a.session.Logout(ctx); err != nil {
		return fmt.Errorf("account deleted: %w", err)
	}
	a.log.Info(ctx, "account deleted", "uid", u.UID)
	return nil
}

func (a *AuthService) SendVerificationEmail(ctx context.Context) error {
	u, err := a.currentUser()
	if err != nil {
		return err
	}
	return a.backend.SendVerificationEmail(ctx, u.Ref())
}

func (a *AuthService) ResetPassword(ctx context.Context, email string) error {
	return a.backend.ResetPassword(ctx, email)
}

func (a *AuthService) ApplyVerificationCode(ctx context.Context, code string) error {
	return a.backend.ApplyVerificationCode(ctx, code)
}

func (a *AuthService) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	return a.backend.ConfirmPasswordReset(ctx, code, newPassword)
}

// IDToken returns a fresh token for the current user.
func (a *AuthService) IDToken(ctx context.Context) (string, error) {
	u, err := a.currentUser()
	if err != nil {
		return "", err
	}
	return a.backend.IDToken(ctx, u.UID)
}

func (a *AuthService) PreparePhotoUpload(ctx context.Context) (*models.PhotoUpload, error) {
	u, err := a.currentUser()
	if err != nil {
		return nil, err
	}
	return a.backend.PreparePhotoUpload(ctx, u.UID)
}

func (a *AuthService) CurrentUser() *models.SessionUser { return a.session.User() }

func (a *AuthService) IsAuthenticated() bool { return a.session.IsAuthenticated() }

func (a *AuthService) HasRole(r models.Role) bool { return a.session.HasRole(r) }

func (a *AuthService) Ping(ctx context.Context) error { return a.backend.Ping(ctx) }

func (a *AuthService) Close() error { return a.backend.Close() }
