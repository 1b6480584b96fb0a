package rpcx

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/telepharmacy/internal/common"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorDomain tags the ErrorInfo details this service attaches.
const ErrorDomain = "telepharmacy.identity"

type errorKind struct {
	err    error
	reason string
	code   codes.Code
}

var errorKinds = []errorKind{
	{common.ErrEmailAlreadyInUse, "EMAIL_ALREADY_IN_USE", codes.AlreadyExists},
	{common.ErrUserNotFound, "USER_NOT_FOUND", codes.NotFound},
	{common.ErrWrongPassword, "WRONG_PASSWORD", codes.Unauthenticated},
	{common.ErrProfileNotFound, "PROFILE_NOT_FOUND", codes.NotFound},
	{common.ErrNoAuthenticatedUser, "NO_AUTHENTICATED_USER", codes.Unauthenticated},
	{common.ErrInvalidField, "INVALID_FIELD", codes.InvalidArgument},
	{common.ErrPhotoStorageDisabled, "PHOTO_STORAGE_DISABLED", codes.FailedPrecondition},
}

// ToStatus converts err into a gRPC status error. Known kinds get their own
// code and an ErrorInfo reason; anything else becomes Internal without
// exposing its message.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok && !isKnown(err) {
		return err
	}
	for _, k := range errorKinds {
		if !errors.Is(err, k.err) {
			continue
		}
		st, detailErr := status.New(k.code, err.Error()).WithDetails(&errdetails.ErrorInfo{
			Reason: k.reason,
			Domain: ErrorDomain,
		})
		if detailErr != nil {
			return status.Error(k.code, err.Error())
		}
		return st.Err()
	}
	return status.Error(codes.Internal, common.ErrorInternal.Error())
}

// FromStatus turns a status produced by ToStatus back into the matching
// sentinel error, so errors.Is works on the client side. Statuses without a
// known reason are returned unchanged.
func FromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok || st.Code() == codes.OK {
		return err
	}
	for _, d := range st.Details() {
		info, ok := d.(*errdetails.ErrorInfo)
		if !ok || info.GetDomain() != ErrorDomain {
			continue
		}
		for _, k := range errorKinds {
			if info.GetReason() != k.reason {
				continue
			}
			msg := st.Message()
			if msg == k.err.Error() {
				return k.err
			}
			return &remoteError{kind: k.err, msg: msg}
		}
	}
	return err
}

func isKnown(err error) bool {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return true
		}
	}
	return false
}

// remoteError keeps the server's message while matching its kind.
type remoteError struct {
	kind error
	msg  string
}

func (e *remoteError) Error() string {
	if strings.HasPrefix(e.msg, e.kind.Error()) {
		return e.msg
	}
	return e.kind.Error() + ": " + e.msg
}

func (e *remoteError) Unwrap() error { return e.kind }
