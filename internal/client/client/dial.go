package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/telepharmacy/internal/logging"
	"google.golang.org/grpc"
)

const dialPingTimeout = 3 * time.Second

// Dial returns a backend for addr. An empty addr, or a server that does not
// answer a ping, yields a LocalBackend so the CLI stays usable offline.
// The second result reports whether the backend is remote.
func Dial(ctx context.Context, addr string, log logging.Logger, opts ...grpc.DialOption) (Backend, bool) {
	if addr == "" {
		log.Info(ctx, "no server configured, using local stores")
		return NewLocalBackend(log), false
	}

	c, err := NewGRPCClient(addr, opts...)
	if err != nil {
		log.Warn(ctx, "cannot create grpc client, using local stores", "address", addr, "error", err)
		return NewLocalBackend(log), false
	}

	pingCtx, cancel := context.WithTimeout(ctx, dialPingTimeout)
	defer cancel()

	if err := c.Ping(pingCtx); err != nil {
		log.Warn(ctx, "server unavailable, using local stores", "address", addr, "error", err)
		_ = c.Close()
		return NewLocalBackend(log), false
	}

	return c, true
}
