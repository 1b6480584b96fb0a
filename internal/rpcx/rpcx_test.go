package rpcx

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/telepharmacy/internal/common"
	"github.com/dmitrijs2005/telepharmacy/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestFullMethod(t *testing.T) {
	assert.Equal(t, "/telepharmacy.identity.v1.IdentityService/Login", FullMethod(MethodLogin))
}

func TestEncodeDecode_Profile(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	in := ProfileResponse{Profile: &models.Profile{
		ID:            "u1",
		DisplayName:   "Alice",
		CreatedAt:     created,
		AccountStatus: models.DefaultAccountStatus(),
		Extra:         map[string]any{"allergies": []any{"penicillin"}},
	}}

	s, err := Encode(in)
	require.NoError(t, err)
	assert.Contains(t, s.GetFields(), "profile")

	var out ProfileResponse
	require.NoError(t, Decode(s, &out))
	require.NotNil(t, out.Profile)
	assert.Equal(t, "Alice", out.Profile.DisplayName)
	assert.Equal(t, models.RolePatient, out.Profile.Role)
	assert.True(t, created.Equal(out.Profile.CreatedAt))
	assert.Equal(t, []any{"penicillin"}, out.Profile.Extra["allergies"])
}

func TestEncodeDecode_AbsentProfile(t *testing.T) {
	s, err := Encode(ProfileResponse{})
	require.NoError(t, err)

	var out ProfileResponse
	require.NoError(t, Decode(s, &out))
	assert.Nil(t, out.Profile)
}

func TestEncode_NonObject(t *testing.T) {
	_, err := Encode("just a string")
	require.Error(t, err)
}

func TestDecode_Nil(t *testing.T) {
	out := LoginRequest{Email: "keep"}
	require.NoError(t, Decode(nil, &out))
	assert.Equal(t, "keep", out.Email)
}

func TestStatusRoundTrip_PreservesKind(t *testing.T) {
	kinds := []error{
		common.ErrEmailAlreadyInUse,
		common.ErrUserNotFound,
		common.ErrWrongPassword,
		common.ErrProfileNotFound,
		common.ErrNoAuthenticatedUser,
		common.ErrPhotoStorageDisabled,
	}
	for _, kind := range kinds {
		t.Run(kind.Error(), func(t *testing.T) {
			got := FromStatus(ToStatus(kind))
			assert.Same(t, kind, got)
		})
	}
}

func TestStatusRoundTrip_WrappedKeepsMessage(t *testing.T) {
	err := fmt.Errorf("%w: role must be a string", common.ErrInvalidField)

	st := status.Convert(ToStatus(err))
	assert.Equal(t, codes.InvalidArgument, st.Code())

	got := FromStatus(st.Err())
	require.ErrorIs(t, got, common.ErrInvalidField)
	assert.Equal(t, err.Error(), got.Error())
}

func TestToStatus_UnknownIsInternal(t *testing.T) {
	st := status.Convert(ToStatus(errors.New("pq: password authentication failed")))
	assert.Equal(t, codes.Internal, st.Code())
	assert.NotContains(t, st.Message(), "password authentication")
	assert.Nil(t, ToStatus(nil))
}

func TestToStatus_PassesExistingStatus(t *testing.T) {
	in := status.Error(codes.Unavailable, "down")
	assert.Equal(t, in, ToStatus(in))
}

func TestFromStatus_ForeignDetailsIgnored(t *testing.T) {
	st, err := status.New(codes.NotFound, "nope").WithDetails(&errdetails.ErrorInfo{
		Reason: "USER_NOT_FOUND",
		Domain: "someone.else",
	})
	require.NoError(t, err)

	got := FromStatus(st.Err())
	assert.False(t, errors.Is(got, common.ErrUserNotFound))
	assert.Equal(t, codes.NotFound, status.Code(got))

	plain := errors.New("plain")
	assert.Same(t, plain, FromStatus(plain))
}
