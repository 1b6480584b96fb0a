// Package rpcx is the wire contract between the identity server and its
// clients. Messages travel as google.protobuf.Struct values built from the
// JSON form of the Go types, so no generated code is involved.
package rpcx

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "telepharmacy.identity.v1.IdentityService"

const (
	MethodRegister              = "Register"
	MethodLogin                 = "Login"
	MethodLogout                = "Logout"
	MethodUpdateEmail           = "UpdateEmail"
	MethodUpdatePassword        = "UpdatePassword"
	MethodReauthenticate        = "Reauthenticate"
	MethodDeleteAccount         = "DeleteAccount"
	MethodSendVerificationEmail = "SendVerificationEmail"
	MethodResetPassword         = "ResetPassword"
	MethodApplyVerificationCode = "ApplyVerificationCode"
	MethodConfirmPasswordReset  = "ConfirmPasswordReset"
	MethodIDToken               = "IDToken"
	MethodCreateProfile         = "CreateProfile"
	MethodGetProfile            = "GetProfile"
	MethodUpdateProfile         = "UpdateProfile"
	MethodDeleteProfile         = "DeleteProfile"
	MethodPreparePhotoUpload    = "PreparePhotoUpload"
	MethodPing                  = "Ping"
)

// FullMethod returns the gRPC path of method, e.g. "/pkg.Service/Login".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// Encode converts v to a Struct through its JSON form. v must marshal to a
// JSON object.
func Encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return s, nil
}

// Decode fills v from s. A nil Struct leaves v untouched.
func Decode(s *structpb.Struct, v any) error {
	if s == nil {
		return nil
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	return nil
}
