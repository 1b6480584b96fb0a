package tokens

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/telepharmacy/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the registered claims plus the user the token was issued to.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// JWTIssuer signs HS256 tokens. Each token gets a random jti so two tokens
// issued to the same user in the same second still differ.
type JWTIssuer struct {
	secret   []byte
	validity time.Duration
}

func NewJWTIssuer(secret []byte, validity time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: secret, validity: validity}
}

func (j *JWTIssuer) Issue(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.validity)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks the signature, algorithm and expiry and returns the user the
// token was issued to.
func (j *JWTIssuer) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", common.ErrNoAuthenticatedUser
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrNoAuthenticatedUser, err)
	}
	subject := claims.UserID
	if subject == "" {
		subject = claims.Subject
	}
	if subject == "" {
		return "", fmt.Errorf("%w: token names no user", common.ErrNoAuthenticatedUser)
	}
	return subject, nil
}

// SubjectFromToken extracts the user id from a JWT without checking its
// signature or expiry. It is only for request logs; an empty string comes
// back for mock tokens and anything else that does not parse.
func SubjectFromToken(tokenString string) string {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return ""
	}
	if claims.UserID != "" {
		return claims.UserID
	}
	return claims.Subject
}
