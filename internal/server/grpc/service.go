package grpc

import (
	"context"

	"github.com/dmitrijs2005/telepharmacy/internal/rpcx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

var serviceDesc = grpc.ServiceDesc{
	ServiceName: rpcx.ServiceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		unary(rpcx.MethodRegister, (*GRPCServer).register),
		unary(rpcx.MethodLogin, (*GRPCServer).login),
		unary(rpcx.MethodLogout, (*GRPCServer).logout),
		unary(rpcx.MethodUpdateEmail, (*GRPCServer).updateEmail),
		unary(rpcx.MethodUpdatePassword, (*GRPCServer).updatePassword),
		unary(rpcx.MethodReauthenticate, (*GRPCServer).reauthenticate),
		unary(rpcx.MethodDeleteAccount, (*GRPCServer).deleteAccount),
		unary(rpcx.MethodSendVerificationEmail, (*GRPCServer).sendVerificationEmail),
		unary(rpcx.MethodResetPassword, (*GRPCServer).resetPassword),
		unary(rpcx.MethodApplyVerificationCode, (*GRPCServer).applyVerificationCode),
		unary(rpcx.MethodConfirmPasswordReset, (*GRPCServer).confirmPasswordReset),
		unary(rpcx.MethodIDToken, (*GRPCServer).idToken),
		unary(rpcx.MethodCreateProfile, (*GRPCServer).createProfile),
		unary(rpcx.MethodGetProfile, (*GRPCServer).getProfile),
		unary(rpcx.MethodUpdateProfile, (*GRPCServer).updateProfile),
		unary(rpcx.MethodDeleteProfile, (*GRPCServer).deleteProfile),
		unary(rpcx.MethodPreparePhotoUpload, (*GRPCServer).preparePhotoUpload),
		unary(rpcx.MethodPing, (*GRPCServer).ping),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "telepharmacy/identity/v1/identity.proto",
}

type handlerFunc[Req any] func(s *GRPCServer, ctx context.Context, req *Req) (any, error)

// unary adapts a typed handler to a MethodDesc. Requests and responses are
// Structs on the wire; domain errors are converted to statuses here.
func unary[Req any](method string, fn handlerFunc[Req]) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := &structpb.Struct{}
			if err := dec(in); err != nil {
				return nil, err
			}

			call := func(ctx context.Context, raw any) (any, error) {
				var req Req
				if err := rpcx.Decode(raw.(*structpb.Struct), &req); err != nil {
					return nil, status.Error(codes.InvalidArgument, err.Error())
				}
				out, err := fn(srv.(*GRPCServer), ctx, &req)
				if err != nil {
					return nil, rpcx.ToStatus(err)
				}
				resp, err := rpcx.Encode(out)
				if err != nil {
					return nil, status.Error(codes.Internal, err.Error())
				}
				return resp, nil
			}

			if interceptor == nil {
				return call(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: rpcx.FullMethod(method)}
			return interceptor(ctx, in, info, call)
		},
	}
}
