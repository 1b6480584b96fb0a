package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/telepharmacy/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockIssuer_DistinctWithinSameInstant(t *testing.T) {
	m := NewMockIssuer()
	frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return frozen }

	seen := map[string]struct{}{}
	prev := ""
	for i := 0; i < 1000; i++ {
		tok, err := m.Issue("u1")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(tok, "mock-token-"))
		_, dup := seen[tok]
		require.False(t, dup, "duplicate token %s", tok)
		seen[tok] = struct{}{}
		if prev != "" {
			assert.Greater(t, tok, prev)
		}
		prev = tok
	}
}

func TestJWTIssuer_IssueAndSubject(t *testing.T) {
	secret := []byte("super-secret")
	j := NewJWTIssuer(secret, time.Hour)

	a, err := j.Issue("user-123")
	require.NoError(t, err)
	b, err := j.Issue("user-123")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	assert.Equal(t, "user-123", SubjectFromToken(a))

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(a, claims, func(*jwt.Token) (any, error) { return secret, nil })
	require.NoError(t, err)
	assert.True(t, tok.Valid)
	assert.NotEmpty(t, claims.ID)
}

func TestSubjectFromToken_Expired(t *testing.T) {
	tok, err := NewJWTIssuer([]byte("k"), -time.Minute).Issue("u2")
	require.NoError(t, err)
	assert.Equal(t, "u2", SubjectFromToken(tok))
}

func TestSubjectFromToken_NotAJWT(t *testing.T) {
	assert.Empty(t, SubjectFromToken("mock-token-01HZX"))
	assert.Empty(t, SubjectFromToken(""))
	assert.Empty(t, SubjectFromToken("not.a.jwt"))
}

func TestMockIssuer_Verify(t *testing.T) {
	m := NewMockIssuer()
	tok, err := m.Issue("u1")
	require.NoError(t, err)

	sub, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Empty(t, sub)

	_, err = m.Verify("")
	require.ErrorIs(t, err, common.ErrNoAuthenticatedUser)
}

func TestJWTIssuer_Verify(t *testing.T) {
	j := NewJWTIssuer([]byte("super-secret"), time.Hour)
	tok, err := j.Issue("user-123")
	require.NoError(t, err)

	sub, err := j.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", sub)

	forged, err := NewJWTIssuer([]byte("other-secret"), time.Hour).Issue("user-123")
	require.NoError(t, err)
	expired, err := NewJWTIssuer([]byte("super-secret"), -time.Minute).Issue("user-123")
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-123"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, bad := range map[string]string{
		"empty":    "",
		"mock":     "mock-token-01HZX",
		"forged":   forged,
		"expired":  expired,
		"unsigned": unsigned,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := j.Verify(bad)
			require.ErrorIs(t, err, common.ErrNoAuthenticatedUser)
		})
	}
}
