// Package tokens issues the bearer tokens handed out on register and login
// and checks the ones sent back on protected calls.
package tokens

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/telepharmacy/internal/common"
	"github.com/oklog/ulid/v2"
)

type Issuer interface {
	Issue(userID string) (string, error)
}

// Verifier checks a bearer token. subject is the user the token was issued
// to, or empty when the token does not name one. A rejected token yields
// common.ErrNoAuthenticatedUser.
type Verifier interface {
	Verify(token string) (subject string, err error)
}

// Authority both issues and verifies tokens.
type Authority interface {
	Issuer
	Verifier
}

const mockPrefix = "mock-token-"

// MockIssuer returns "mock-token-<ULID>". The ULIDs come from a monotonic
// source, so every token differs from the previous one even within the same
// millisecond.
type MockIssuer struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

func NewMockIssuer() *MockIssuer {
	return &MockIssuer{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

func (m *MockIssuer) Issue(string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(m.now()), m.entropy)
	if err != nil {
		return "", err
	}
	return mockPrefix + id.String(), nil
}

// Verify accepts any non-empty token. Mock tokens carry no subject.
func (m *MockIssuer) Verify(token string) (string, error) {
	if token == "" {
		return "", common.ErrNoAuthenticatedUser
	}
	return "", nil
}
