package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/telepharmacy/internal/common"
	"github.com/dmitrijs2005/telepharmacy/internal/rpcx"
	"github.com/dmitrijs2005/telepharmacy/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// GRPCClient talks to a remote identity server. The token from the last
// successful Register or Login travels with every call.
type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn

	mu          sync.RWMutex
	accessToken string
	store       TokenStore
}

// TokenStore keeps the access token across restarts.
type TokenStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if tok := s.token(); tok != "" {
		ctx = withAccessToken(ctx, tok)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient prepares a lazy connection to endpointURL. Extra dial
// options are appended after the defaults.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// KeepTokenIn adopts the token saved in store, if any, and writes every later
// change back to it.
func (s *GRPCClient) KeepTokenIn(ctx context.Context, store TokenStore) error {
	raw, err := store.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return fmt.Errorf("load access token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = store
	if s.accessToken == "" {
		s.accessToken = string(raw)
	}
	return nil
}

func (s *GRPCClient) setToken(ctx context.Context, tok string) {
	s.mu.Lock()
	s.accessToken = tok
	store := s.store
	s.mu.Unlock()

	if store == nil {
		return
	}
	// a failed write only costs the token on the next start
	if tok == "" {
		_ = store.Delete(ctx, common.AccessTokenKey)
	} else {
		_ = store.Set(ctx, common.AccessTokenKey, []byte(tok))
	}
}

// call encodes req, invokes method and decodes the reply into a new Resp.
func call[Resp any](ctx context.Context, s *GRPCClient, method string, req any) (*Resp, error) {
	in, err := rpcx.Encode(req)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := s.conn.Invoke(ctx, rpcx.FullMethod(method), in, out); err != nil {
		return nil, mapError(err)
	}
	resp := new(Resp)
	if err := rpcx.Decode(out, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Unavailable, codes.DeadlineExceeded:
			return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
		}
	}
	return rpcx.FromStatus(err)
}

func (s *GRPCClient) Register(ctx context.Context, email, password, name string) (*models.UserCredential, error) {
	resp, err := call[models.UserCredential](ctx, s, rpcx.MethodRegister,
		rpcx.RegisterRequest{Email: email, Password: password, DisplayName: name})
	if err != nil {
		return nil, err
	}
	s.setToken(ctx, resp.Token)
	return resp, nil
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) (*models.UserCredential, error) {
	resp, err := call[models.UserCredential](ctx, s, rpcx.MethodLogin,
		rpcx.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	s.setToken(ctx, resp.Token)
	return resp, nil
}

func (s *GRPCClient) Logout(ctx context.Context, user models.UserRef) error {
	_, err := call[rpcx.Empty](ctx, s, rpcx.MethodLogout, rpcx.UserRequest{User: user})
	if err != nil {
		return err
	}
	s.setToken(ctx, "")
	return nil
}

func (s *GRPCClient) UpdateEmail(ctx context.Context, user models.UserRef, newEmail string) error {
	_, err := call[rpcx.Empty](ctx, s, rpcx.MethodUpdateEmail, rpcx.UpdateEmailRequest{User: user, NewEmail: newEmail})
	return err
}

func (s *GRPCClient) UpdatePassword(ctx context.Context, user models.UserRef, newPassword string) error {
	_, err := call[rpcx.Empty](ctx, s, rpcx.MethodUpdatePassword, rpcx.UpdatePasswordRequest{User: user, NewPassword: newPassword})
	return err
}

func (s *GRPCClient) Reauthenticate(ctx context.Context, user models.UserRef, currentPassword string) error {
	_, err := call[rpcx.Empty](ctx, s, rpcx.MethodReauthenticate, rpcx.ReauthenticateRequest{User: user, Password: currentPassword})
	return err
}

func (s *GRPCClient) DeleteAccount(ctx context.Context, user models.UserRef) error {
	_, err := call[rpcx.Empty](ctx, s, rpcx.MethodDeleteAccount, rpcx.UserRequest{User: user})
	if err != nil {
		return err
	}
	s.setToken(ctx, "")
	return nil
}

func (s *GRPCClient) SendVerificationEmail(ctx context.Context, user models.UserRef) error {
	_, err := call[rpcx.Empty](ctx, s, rpcx.MethodSendVerificationEmail, rpcx.UserRequest{User: user})
	return err
}

func (s *GRPCClient) ResetPassword(ctx context.Context, email string) error {
	_, err := call[rpcx.Empty](ctx, s, rpcx.MethodResetPassword, rpcx.EmailRequest{Email: email})
	return err
}

func (s *GRPCClient) ApplyVerificationCode(ctx context.Context, code string) error {
	_, err := call[rpcx.Empty](ctx, s, rpcx.MethodApplyVerificationCode, rpcx.CodeRequest{Code: code})
	return err
}

func (s *GRPCClient) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	_, err := call[rpcx.Empty](ctx, s, rpcx.MethodConfirmPasswordReset, rpcx.CodeRequest{Code: code, NewPassword: newPassword})
	return err
}

func (s *GRPCClient) IDToken(ctx context.Context, uid string) (string, error) {
	resp, err := call[rpcx.TokenResponse](ctx, s, rpcx.MethodIDToken, rpcx.UIDRequest{UID: uid})
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (s *GRPCClient) CreateProfile(ctx context.Context, src models.ProfileSource, extra models.Fields) (*models.Profile, error) {
	resp, err := call[rpcx.ProfileResponse](ctx, s, rpcx.MethodCreateProfile, rpcx.CreateProfileRequest{User: src, Extra: extra})
	if err != nil {
		return nil, err
	}
	return resp.Profile, nil
}

func (s *GRPCClient) GetProfile(ctx context.Context, uid string) (*models.Profile, error) {
	resp, err := call[rpcx.ProfileResponse](ctx, s, rpcx.MethodGetProfile, rpcx.UIDRequest{UID: uid})
	if err != nil {
		return nil, err
	}
	return resp.Profile, nil
}

func (s *GRPCClient) UpdateProfile(ctx context.Context, uid string, patch models.Fields) (*models.Profile, error) {
	resp, err := call[rpcx.ProfileResponse](ctx, s, rpcx.MethodUpdateProfile, rpcx.UpdateProfileRequest{UID: uid, Patch: patch})
	if err != nil {
		return nil, err
	}
	return resp.Profile, nil
}

func (s *GRPCClient) DeleteProfile(ctx context.Context, uid string) error {
	_, err := call[rpcx.Empty](ctx, s, rpcx.MethodDeleteProfile, rpcx.UIDRequest{UID: uid})
	return err
}

func (s *GRPCClient) PreparePhotoUpload(ctx context.Context, uid string) (*models.PhotoUpload, error) {
	resp, err := call[rpcx.PhotoUploadResponse](ctx, s, rpcx.MethodPreparePhotoUpload, rpcx.UIDRequest{UID: uid})
	if err != nil {
		return nil, err
	}
	return resp.Upload, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := call[rpcx.PingResponse](ctx, s, rpcx.MethodPing, rpcx.Empty{})
	if err != nil {
		return err
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}
