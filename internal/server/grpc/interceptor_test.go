package grpc

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrijs2005/telepharmacy/internal/common"
	"github.com/dmitrijs2005/telepharmacy/internal/logging"
	"github.com/dmitrijs2005/telepharmacy/internal/server/metrics"
	"github.com/dmitrijs2005/telepharmacy/internal/server/tokens"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestServer(buf *bytes.Buffer, m *metrics.Metrics) *GRPCServer {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(buf, nil)))
	return NewGRPCServer("", log, nil, nil, tokens.NewJWTIssuer([]byte("k"), time.Hour), m)
}

func TestInterceptor_LogsSubjectFromToken(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServer(&buf, nil)

	tok, err := tokens.NewJWTIssuer([]byte("k"), time.Hour).Issue("user-7")
	require.NoError(t, err)
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, tok))

	info := &grpc.UnaryServerInfo{FullMethod: "/telepharmacy.identity.v1.IdentityService/GetProfile"}
	resp, err := s.requestInterceptor(ctx, "req", info, func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	out := buf.String()
	assert.Contains(t, out, "method=GetProfile")
	assert.Contains(t, out, "uid=user-7")
	assert.Contains(t, out, "code=OK")
}

func TestInterceptor_LeavesAccessChecksToHandlers(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServer(&buf, nil)

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, "mock-token-01ABC"))
	called := false
	_, err := s.requestInterceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/x/Login"},
		func(context.Context, any) (any, error) {
			called = true
			return nil, nil
		})
	require.NoError(t, err)
	assert.True(t, called)
	assert.NotContains(t, buf.String(), "uid=")
}

func TestInterceptor_RecordsFailures(t *testing.T) {
	var buf bytes.Buffer
	m := metrics.New()
	s := newTestServer(&buf, m)

	wantErr := status.Error(codes.NotFound, "auth/user-not-found")
	_, err := s.requestInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x/Login"},
		func(context.Context, any) (any, error) { return nil, wantErr })
	assert.Equal(t, wantErr, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("Login", "NotFound")))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "request failed")
}

func TestAuthorize(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServer(&buf, nil)
	withToken := func(tok string) context.Context {
		return metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, tok))
	}

	tok, err := tokens.NewJWTIssuer([]byte("k"), time.Hour).Issue("user-7")
	require.NoError(t, err)

	require.NoError(t, s.authorize(withToken(tok), "user-7"))
	require.ErrorIs(t, s.authorize(withToken(tok), "user-8"), common.ErrNoAuthenticatedUser)
	require.ErrorIs(t, s.authorize(context.Background(), "user-7"), common.ErrNoAuthenticatedUser)
	require.ErrorIs(t, s.authorize(withToken("mock-token-01ABC"), "user-7"), common.ErrNoAuthenticatedUser)

	unverified := NewGRPCServer("", logging.Nop(), nil, nil, nil, nil)
	require.NoError(t, unverified.authorize(withToken("anything"), "user-7"))
	require.ErrorIs(t, unverified.authorize(context.Background(), "user-7"), common.ErrNoAuthenticatedUser)
}
