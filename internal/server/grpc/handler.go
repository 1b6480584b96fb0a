package grpc

import (
	"context"

	"github.com/dmitrijs2005/telepharmacy/internal/rpcx"
)

func (s *GRPCServer) register(ctx context.Context, req *rpcx.RegisterRequest) (any, error) {
	return s.credentials.Register(ctx, req.Email, req.Password, req.DisplayName)
}

func (s *GRPCServer) login(ctx context.Context, req *rpcx.LoginRequest) (any, error) {
	return s.credentials.Login(ctx, req.Email, req.Password)
}

func (s *GRPCServer) logout(ctx context.Context, req *rpcx.UserRequest) (any, error) {
	return rpcx.Empty{}, s.credentials.Logout(ctx, req.User)
}

func (s *GRPCServer) updateEmail(ctx context.Context, req *rpcx.UpdateEmailRequest) (any, error) {
	if err := s.authorize(ctx, req.User.UID); err != nil {
		return rpcx.Empty{}, err
	}
	return rpcx.Empty{}, s.credentials.UpdateEmail(ctx, req.User, req.NewEmail)
}

func (s *GRPCServer) updatePassword(ctx context.Context, req *rpcx.UpdatePasswordRequest) (any, error) {
	if err := s.authorize(ctx, req.User.UID); err != nil {
		return rpcx.Empty{}, err
	}
	return rpcx.Empty{}, s.credentials.UpdatePassword(ctx, req.User, req.NewPassword)
}

func (s *GRPCServer) reauthenticate(ctx context.Context, req *rpcx.ReauthenticateRequest) (any, error) {
	return rpcx.Empty{}, s.credentials.Reauthenticate(ctx, req.User, req.Password)
}

func (s *GRPCServer) deleteAccount(ctx context.Context, req *rpcx.UserRequest) (any, error) {
	if err := s.authorize(ctx, req.User.UID); err != nil {
		return rpcx.Empty{}, err
	}
	return rpcx.Empty{}, s.credentials.DeleteAccount(ctx, req.User)
}

func (s *GRPCServer) sendVerificationEmail(ctx context.Context, req *rpcx.UserRequest) (any, error) {
	if err := s.authorize(ctx, req.User.UID); err != nil {
		return rpcx.Empty{}, err
	}
	return rpcx.Empty{}, s.credentials.SendVerificationEmail(ctx, req.User)
}

func (s *GRPCServer) resetPassword(ctx context.Context, req *rpcx.EmailRequest) (any, error) {
	return rpcx.Empty{}, s.credentials.ResetPassword(ctx, req.Email)
}

func (s *GRPCServer) applyVerificationCode(ctx context.Context, req *rpcx.CodeRequest) (any, error) {
	return rpcx.Empty{}, s.credentials.ApplyVerificationCode(ctx, req.Code)
}

func (s *GRPCServer) confirmPasswordReset(ctx context.Context, req *rpcx.CodeRequest) (any, error) {
	return rpcx.Empty{}, s.credentials.ConfirmPasswordReset(ctx, req.Code, req.NewPassword)
}

func (s *GRPCServer) idToken(ctx context.Context, req *rpcx.UIDRequest) (any, error) {
	if err := s.authorize(ctx, req.UID); err != nil {
		return rpcx.TokenResponse{}, err
	}
	tok, err := s.credentials.IDToken(ctx, req.UID)
	return rpcx.TokenResponse{Token: tok}, err
}

func (s *GRPCServer) createProfile(ctx context.Context, req *rpcx.CreateProfileRequest) (any, error) {
	if err := s.authorize(ctx, req.User.UID); err != nil {
		return rpcx.ProfileResponse{}, err
	}
	p, err := s.profiles.Create(ctx, req.User, req.Extra)
	return rpcx.ProfileResponse{Profile: p}, err
}

func (s *GRPCServer) getProfile(ctx context.Context, req *rpcx.UIDRequest) (any, error) {
	if err := s.authorize(ctx, req.UID); err != nil {
		return rpcx.ProfileResponse{}, err
	}
	p, err := s.profiles.Get(ctx, req.UID)
	return rpcx.ProfileResponse{Profile: p}, err
}

func (s *GRPCServer) updateProfile(ctx context.Context, req *rpcx.UpdateProfileRequest) (any, error) {
	if err := s.authorize(ctx, req.UID); err != nil {
		return rpcx.ProfileResponse{}, err
	}
	p, err := s.profiles.Update(ctx, req.UID, req.Patch)
	return rpcx.ProfileResponse{Profile: p}, err
}

func (s *GRPCServer) deleteProfile(ctx context.Context, req *rpcx.UIDRequest) (any, error) {
	if err := s.authorize(ctx, req.UID); err != nil {
		return rpcx.Empty{}, err
	}
	return rpcx.Empty{}, s.profiles.Delete(ctx, req.UID)
}

func (s *GRPCServer) preparePhotoUpload(ctx context.Context, req *rpcx.UIDRequest) (any, error) {
	if err := s.authorize(ctx, req.UID); err != nil {
		return rpcx.PhotoUploadResponse{}, err
	}
	up, err := s.profiles.PreparePhotoUpload(ctx, req.UID)
	return rpcx.PhotoUploadResponse{Upload: up}, err
}

func (s *GRPCServer) ping(context.Context, *rpcx.Empty) (any, error) {
	return rpcx.PingResponse{Status: "OK"}, nil
}
