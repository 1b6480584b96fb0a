// Package services contains the identity backend's business logic.
// CredentialService owns accounts and the rules around email uniqueness and
// password matching; ProfileService owns the profile documents.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/telepharmacy/internal/common"
	"github.com/dmitrijs2005/telepharmacy/internal/logging"
	"github.com/dmitrijs2005/telepharmacy/internal/server/models"
	"github.com/dmitrijs2005/telepharmacy/internal/server/passwords"
	"github.com/dmitrijs2005/telepharmacy/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/telepharmacy/internal/server/tokens"
	"github.com/google/uuid"
)

type CredentialService struct {
	repo      credentials.Repository
	passwords passwords.Scheme
	tokens    tokens.Issuer
	log       logging.Logger
	now       func() time.Time
	newID     func() string
}

func NewCredentialService(repo credentials.Repository, scheme passwords.Scheme, issuer tokens.Issuer, log logging.Logger) *CredentialService {
	return &CredentialService{
		repo:      repo,
		passwords: scheme,
		tokens:    issuer,
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Register creates an account with the default role and returns it together
// with a fresh token.
func (s *CredentialService) Register(ctx context.Context, email, password, name string) (*models.UserCredential, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", common.ErrInvalidField)
	}

	stored, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidField, err)
	}

	now := s.now()
	c := &models.Credential{
		ID:            s.newID(),
		Email:         email,
		Password:      stored,
		DisplayName:   name,
		EmailVerified: false,
		AccountStatus: models.DefaultAccountStatus(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, passThrough("error creating credential", err)
	}

	return s.issue(c)
}

func (s *CredentialService) Login(ctx context.Context, email, password string) (*models.UserCredential, error) {
	c, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, passThrough("error loading credential", err)
	}
	if !s.passwords.Matches(c.Password, password) {
		return nil, common.ErrWrongPassword
	}
	return s.issue(c)
}

// Logout is accepted and ignored: tokens are not tracked server-side.
func (s *CredentialService) Logout(ctx context.Context, user models.UserRef) error {
	s.log.Debug(ctx, "logout", "uid", user.UID)
	return nil
}

// UpdateEmail moves the account to newEmail. The identifier and every other
// field stay as they were.
func (s *CredentialService) UpdateEmail(ctx context.Context, user models.UserRef, newEmail string) error {
	if newEmail == "" {
		return fmt.Errorf("%w: email is required", common.ErrInvalidField)
	}
	if _, err := s.owned(ctx, user); err != nil {
		return err
	}
	if err := s.repo.ChangeEmail(ctx, user.Email, newEmail, s.now()); err != nil {
		return passThrough("error changing email", err)
	}
	return nil
}

func (s *CredentialService) UpdatePassword(ctx context.Context, user models.UserRef, newPassword string) error {
	if _, err := s.owned(ctx, user); err != nil {
		return err
	}
	stored, err := s.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidField, err)
	}
	if err := s.repo.UpdatePassword(ctx, user.Email, stored, s.now()); err != nil {
		return passThrough("error updating password", err)
	}
	return nil
}

// Reauthenticate checks currentPassword against the account. A missing
// account is reported as a wrong password.
func (s *CredentialService) Reauthenticate(ctx context.Context, user models.UserRef, currentPassword string) error {
	c, err := s.repo.GetByEmail(ctx, user.Email)
	if errors.Is(err, common.ErrUserNotFound) {
		return common.ErrWrongPassword
	}
	if err != nil {
		return passThrough("error loading credential", err)
	}
	if !s.passwords.Matches(c.Password, currentPassword) {
		return common.ErrWrongPassword
	}
	return nil
}

// DeleteAccount removes the account. Deleting one that is already gone
// succeeds.
func (s *CredentialService) DeleteAccount(ctx context.Context, user models.UserRef) error {
	if _, err := s.owned(ctx, user); err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil
		}
		return err
	}
	if err := s.repo.Delete(ctx, user.Email); err != nil {
		return passThrough("error deleting credential", err)
	}
	return nil
}

// The mail side channel is not implemented. These calls always succeed and
// have no effect beyond a log line.

func (s *CredentialService) SendVerificationEmail(ctx context.Context, user models.UserRef) error {
	s.log.Info(ctx, "verification email not sent: no mail transport", "uid", user.UID)
	return nil
}

func (s *CredentialService) ResetPassword(ctx context.Context, email string) error {
	s.log.Info(ctx, "password reset email not sent: no mail transport", "email", email)
	return nil
}

func (s *CredentialService) ApplyVerificationCode(ctx context.Context, code string) error {
	s.log.Info(ctx, "verification code ignored", "code_len", len(code))
	return nil
}

func (s *CredentialService) ConfirmPasswordReset(ctx context.Context, code, _ string) error {
	s.log.Info(ctx, "password reset confirmation ignored", "code_len", len(code))
	return nil
}

// IDToken mints a token for an already signed-in user.
func (s *CredentialService) IDToken(ctx context.Context, uid string) (string, error) {
	if uid == "" {
		return "", common.ErrNoAuthenticatedUser
	}
	tok, err := s.tokens.Issue(uid)
	if err != nil {
		return "", fmt.Errorf("%w: issue token: %v", common.ErrorInternal, err)
	}
	return tok, nil
}

// owned loads the account stored under user.Email and checks that it is the
// account user.UID names.
func (s *CredentialService) owned(ctx context.Context, user models.UserRef) (*models.Credential, error) {
	c, err := s.repo.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, passThrough("error loading credential", err)
	}
	if user.UID == "" || c.ID != user.UID {
		return nil, common.ErrNoAuthenticatedUser
	}
	return c, nil
}

func (s *CredentialService) issue(c *models.Credential) (*models.UserCredential, error) {
	tok, err := s.tokens.Issue(c.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: issue token: %v", common.ErrorInternal, err)
	}
	return &models.UserCredential{User: models.SessionUserFromCredential(c), Token: tok}, nil
}

var domainErrors = []error{
	common.ErrEmailAlreadyInUse,
	common.ErrUserNotFound,
	common.ErrWrongPassword,
	common.ErrProfileNotFound,
	common.ErrNoAuthenticatedUser,
	common.ErrInvalidField,
	common.ErrPhotoStorageDisabled,
}

// passThrough returns domain errors untouched so callers see exactly the kind
// the store raised, and wraps everything else with msg.
func passThrough(msg string, err error) error {
	for _, kind := range domainErrors {
		if errors.Is(err, kind) {
			return err
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
