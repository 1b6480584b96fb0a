// Package grpc serves the credential and profile stores over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/telepharmacy/internal/logging"
	"github.com/dmitrijs2005/telepharmacy/internal/server/metrics"
	"github.com/dmitrijs2005/telepharmacy/internal/server/models"
	"github.com/dmitrijs2005/telepharmacy/internal/server/tokens"
	"google.golang.org/grpc"
)

type CredentialService interface {
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

type ProfileService interface {
	Create(ctx context.Context, src models.ProfileSource, extra models.Fields) (*models.Profile, error)
	Get(ctx context.Context, uid string) (*models.Profile, error)
	Update(ctx context.Context, uid string, patch models.Fields) (*models.Profile, error)
	Delete(ctx context.Context, uid string) error
	PreparePhotoUpload(ctx context.Context, uid string) (*models.PhotoUpload, error)
}

type GRPCServer struct {
	address     string
	credentials CredentialService
	profiles    ProfileService
	tokens      tokens.Verifier
	logger      logging.Logger
	metrics     *metrics.Metrics
}

// NewGRPCServer wires the services into a server. v checks the bearer token
// on calls that act on an account; a nil v still demands a non-empty token.
// m may be nil to skip metrics.
func NewGRPCServer(a string, l logging.Logger, cs CredentialService, ps ProfileService, v tokens.Verifier, m *metrics.Metrics) *GRPCServer {
	return &GRPCServer{
		address:     a,
		logger:      l.With("module", "grpc_server"),
		credentials: cs,
		profiles:    ps,
		tokens:      v,
		metrics:     m,
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.requestInterceptor))
	srv.RegisterService(&serviceDesc, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
