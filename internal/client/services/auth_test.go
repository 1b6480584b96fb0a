package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/telepharmacy/internal/client/client"
	"github.com/dmitrijs2005/telepharmacy/internal/client/session"
	"github.com/dmitrijs2005/telepharmacy/internal/common"
	"github.com/dmitrijs2005/telepharmacy/internal/logging"
	"github.com/dmitrijs2005/telepharmacy/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyBackend fails the named operations and delegates everything else.
type flakyBackend struct {
	client.Backend
	fail map[string]error
}

func (f *flakyBackend) CreateProfile(ctx context.Context, src models.ProfileSource, extra models.Fields) (*models.Profile, error) {
	if err := f.fail["CreateProfile"]; err != nil {
		return nil, err
	}
	return f.Backend.CreateProfile(ctx, src, extra)
}

func (f *flakyBackend) GetProfile(ctx context.Context, uid string) (*models.Profile, error) {
	if err := f.fail["GetProfile"]; err != nil {
		return nil, err
	}
	return f.Backend.GetProfile(ctx, uid)
}

func (f *flakyBackend) Logout(ctx context.Context, user models.UserRef) error {
	if err := f.fail["Logout"]; err != nil {
		return err
	}
	return f.Backend.Logout(ctx, user)
}

func (f *flakyBackend) DeleteProfile(ctx context.Context, uid string) error {
	if err := f.fail["DeleteProfile"]; err != nil {
		return err
	}
	return f.Backend.DeleteProfile(ctx, uid)
}

type fixture struct {
	backend *flakyBackend
	session *session.Context
	auth    *AuthService
	repos   *client.Repositories
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	repos, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	b := &flakyBackend{Backend: client.NewLocalBackend(logging.Nop()), fail: map[string]error{}}
	s := session.New(repos.Metadata, b, logging.Nop())
	s.Init(ctx)

	return &fixture{backend: b, session: s, auth: NewAuthService(b, s, logging.Nop()), repos: repos}
}

func TestAuthService_RegisterCreatesProfileAndSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.auth.Register(ctx, "a@x.com", "pw1", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.DisplayName)
	assert.Equal(t, models.RolePatient, u.Role)
	assert.True(t, u.IsActive)

	assert.True(t, f.auth.IsAuthenticated())
	assert.True(t, f.auth.HasRole(models.RolePatient))
	assert.Equal(t, u.UID, f.auth.CurrentUser().UID)

	p, err := f.backend.GetProfile(ctx, u.UID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "a@x.com", p.Email)

	raw, err := f.repos.Metadata.Get(ctx, common.SessionUserKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), u.UID)

	_, err = f.auth.Register(ctx, "a@x.com", "pw", "Again")
	assert.ErrorIs(t, err, common.ErrEmailAlreadyInUse)
}

func TestAuthService_RegisterProfileFailureSurfaces(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.backend.fail["CreateProfile"] = client.ErrUnavailable

	_, err := f.auth.Register(ctx, "a@x.com", "pw1", "Alice")
	assert.ErrorIs(t, err, client.ErrUnavailable)
	assert.False(t, f.auth.IsAuthenticated())

	_, err = f.backend.Login(ctx, "a@x.com", "pw1")
	assert.NoError(t, err)
}

func TestAuthService_LoginErrorsAndProfileOverlay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Login(ctx, "ghost@x.com", "pw")
	assert.ErrorIs(t, err, common.ErrUserNotFound)

	reg, err := f.backend.Register(ctx, "a@x.com", "pw1", "Alice")
	require.NoError(t, err)

	u, err := f.auth.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, reg.User.UID, u.UID)
	assert.Equal(t, "Alice", u.DisplayName)

	_, err = f.backend.CreateProfile(ctx, reg.User.Source(), models.Fields{"role": "pharmacist", "phoneNumber": "555"})
	require.NoError(t, err)

	u, err = f.auth.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "555", u.PhoneNumber)
	assert.True(t, f.auth.HasRole(models.RolePharmacist))

	_, err = f.auth.Login(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, common.ErrWrongPassword)

	f.backend.fail["GetProfile"] = client.ErrUnavailable
	_, err = f.auth.Login(ctx, "a@x.com", "pw1")
	assert.ErrorIs(t, err, client.ErrUnavailable)
}

func TestAuthService_RequiresSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.IDToken(ctx)
	assert.ErrorIs(t, err, common.ErrNoAuthenticatedUser)
	_, err = f.auth.UpdateProfile(ctx, models.Fields{"displayName": "x"})
	assert.ErrorIs(t, err, common.ErrNoAuthenticatedUser)
	_, err = f.auth.UpdateEmail(ctx, "pw", "b@x.com")
	assert.ErrorIs(t, err, common.ErrNoAuthenticatedUser)
	assert.ErrorIs(t, f.auth.UpdatePassword(ctx, "pw", "pw2"), common.ErrNoAuthenticatedUser)
	assert.ErrorIs(t, f.auth.DeleteAccount(ctx, "pw"), common.ErrNoAuthenticatedUser)
	assert.ErrorIs(t, f.auth.SendVerificationEmail(ctx), common.ErrNoAuthenticatedUser)
	_, err = f.auth.PreparePhotoUpload(ctx)
	assert.ErrorIs(t, err, common.ErrNoAuthenticatedUser)

	require.NoError(t, f.auth.Logout(ctx))
}

func TestAuthService_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, "a@x.com", "pw1", "Alice")
	require.NoError(t, err)

	u, err := f.auth.UpdateProfile(ctx, models.Fields{"phoneNumber": "555", "allergies": []any{"penicillin"}})
	require.NoError(t, err)
	assert.Equal(t, "555", u.PhoneNumber)
	assert.Equal(t, "Alice", u.DisplayName)
	assert.Equal(t, []any{"penicillin"}, u.Extra["allergies"])
	assert.Equal(t, "555", f.auth.CurrentUser().PhoneNumber)

	_, err = f.auth.UpdateProfile(ctx, models.Fields{"createdAt": "now"})
	assert.ErrorIs(t, err, common.ErrInvalidField)
}

func TestAuthService_UpdateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg, err := f.auth.Register(ctx, "a@x.com", "pw1", "Alice")
	require.NoError(t, err)
	_, err = f.backend.Register(ctx, "taken@x.com", "pw", "Taken")
	require.NoError(t, err)

	_, err = f.auth.UpdateEmail(ctx, "wrong", "b@x.com")
	assert.ErrorIs(t, err, common.ErrWrongPassword)

	_, err = f.auth.UpdateEmail(ctx, "pw1", "taken@x.com")
	assert.ErrorIs(t, err, common.ErrEmailAlreadyInUse)

	u, err := f.auth.UpdateEmail(ctx, "pw1", "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", u.Email)
	assert.Equal(t, reg.UID, u.UID)

	p, err := f.backend.GetProfile(ctx, reg.UID)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", p.Email)

	_, err = f.backend.Login(ctx, "a@x.com", "pw1")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
	_, err = f.auth.Login(ctx, "b@x.com", "pw1")
	require.NoError(t, err)
}

func TestAuthService_UpdateEmailWithoutProfileKeepsSessionInStep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.backend.Register(ctx, "a@x.com", "pw1", "Alice")
	require.NoError(t, err)
	_, err = f.auth.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	_, err = f.auth.UpdateEmail(ctx, "pw1", "b@x.com")
	assert.ErrorIs(t, err, common.ErrProfileNotFound)
	assert.Equal(t, "b@x.com", f.auth.CurrentUser().Email)

	require.NoError(t, f.auth.UpdatePassword(ctx, "pw1", "pw2"))
}

func TestAuthService_UpdatePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, "a@x.com", "pw1", "Alice")
	require.NoError(t, err)

	assert.ErrorIs(t, f.auth.UpdatePassword(ctx, "nope", "pw2"), common.ErrWrongPassword)
	require.NoError(t, f.auth.UpdatePassword(ctx, "pw1", "pw2"))

	_, err = f.auth.Login(ctx, "a@x.com", "pw1")
	assert.ErrorIs(t, err, common.ErrWrongPassword)
	_, err = f.auth.Login(ctx, "a@x.com", "pw2")
	require.NoError(t, err)
}

func TestAuthService_DeleteAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.auth.Register(ctx, "a@x.com", "pw1", "Alice")
	require.NoError(t, err)

	assert.ErrorIs(t, f.auth.DeleteAccount(ctx, "wrong"), common.ErrWrongPassword)
	assert.True(t, f.auth.IsAuthenticated())

	f.backend.fail["DeleteProfile"] = client.ErrUnavailable
	assert.ErrorIs(t, f.auth.DeleteAccount(ctx, "pw1"), client.ErrUnavailable)
	assert.True(t, f.auth.IsAuthenticated())
	delete(f.backend.fail, "DeleteProfile")

	require.NoError(t, f.auth.DeleteAccount(ctx, "pw1"))
	assert.False(t, f.auth.IsAuthenticated())

	p, err := f.backend.GetProfile(ctx, u.UID)
	require.NoError(t, err)
	assert.Nil(t, p)
	_, err = f.backend.Login(ctx, "a@x.com", "pw1")
	assert.ErrorIs(t, err, common.ErrUserNotFound)

	raw, err := f.repos.Metadata.Get(ctx, common.SessionUserKey)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestAuthService_LogoutClearsSessionEvenOnBackendError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, "a@x.com", "pw1", "Alice")
	require.NoError(t, err)

	boom := errors.New("boom")
	f.backend.fail["Logout"] = boom

	assert.ErrorIs(t, f.auth.Logout(ctx), boom)
	assert.False(t, f.auth.IsAuthenticated())
}

func TestAuthService_TokensAndSideChannels(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, "a@x.com", "pw1", "Alice")
	require.NoError(t, err)

	t1, err := f.auth.IDToken(ctx)
	require.NoError(t, err)
	t2, err := f.auth.IDToken(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)

	require.NoError(t, f.auth.SendVerificationEmail(ctx))
	require.NoError(t, f.auth.ResetPassword(ctx, "anyone@x.com"))
	require.NoError(t, f.auth.ApplyVerificationCode(ctx, "code"))
	require.NoError(t, f.auth.ConfirmPasswordReset(ctx, "code", "pw9"))

	_, err = f.auth.PreparePhotoUpload(ctx)
	assert.ErrorIs(t, err, common.ErrPhotoStorageDisabled)

	require.NoError(t, f.auth.Ping(ctx))
	require.NoError(t, f.auth.Close())
}
