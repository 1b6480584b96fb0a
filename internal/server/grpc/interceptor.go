package grpc

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/dmitrijs2005/telepharmacy/internal/common"
	"github.com/dmitrijs2005/telepharmacy/internal/server/tokens"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// requestInterceptor logs every call and records its metrics. The log line is
// tagged with the user id the bearer token names, if any. Access checks
// happen in the handlers, which know whose account a call touches.
func (s *GRPCServer) requestInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	method := path.Base(info.FullMethod)

	resp, err := handler(ctx, req)

	elapsed := time.Since(start)
	code := status.Code(err)
	if s.metrics != nil {
		s.metrics.Observe(method, code.String(), elapsed)
	}

	args := []any{"method", method, "code", code.String(), "duration", elapsed}
	if uid := tokens.SubjectFromToken(accessToken(ctx)); uid != "" {
		args = append(args, "uid", uid)
	}
	if err != nil {
		s.logger.Warn(ctx, "request failed", append(args, "err", err.Error())...)
	} else {
		s.logger.Info(ctx, "request", args...)
	}

	return resp, err
}

func accessToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AccessTokenHeaderName)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// authorize checks the bearer token on a call acting for uid. A token whose
// subject differs from uid is rejected; tokens without a subject only need
// to be present.
func (s *GRPCServer) authorize(ctx context.Context, uid string) error {
	tok := accessToken(ctx)
	if tok == "" {
		return common.ErrNoAuthenticatedUser
	}
	if s.tokens == nil {
		return nil
	}
	subject, err := s.tokens.Verify(tok)
	if err != nil {
		return err
	}
	if subject != "" && subject != uid {
		return fmt.Errorf("%w: token is for another user", common.ErrNoAuthenticatedUser)
	}
	return nil
}
