// Package auth provides the credential capabilities the marketplace core
// consumes: JWT issue/verify, bcrypt password hashing, and the HTTP
// middleware that turns a bearer token into a resolved user.
//
// TOKENS:
// A token is a signed HS256 JWT whose "sub" claim is the internal user ID.
// Verification needs only the shared secret — no store round-trip — so the
// gate's single read is resolving the subject to a live user record.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer scopes tokens to this application; tokens minted by anything
// else with the same secret (e.g. a staging deployment) are rejected.
const tokenIssuer = "solari-market"

// defaultTokenTTL is one week, matching how long a trading session is
// expected to stay useful. Clients re-login after expiry.
const defaultTokenTTL = 7 * 24 * time.Hour

// TokenService signs and verifies bearer credentials with a shared HMAC
// secret.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService. The secret must carry real
// entropy; 16 characters is the floor below which we refuse to start.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the token payload; the registered Subject claim carries the
// user ID.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a credential for the given user ID with the
// default lifetime.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, defaultTokenTTL)
}

// GenerateWithDuration creates a credential with a custom lifetime. Tests
// use it to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a credential, returning the user ID from the
// subject claim.
//
// The signing method is pinned to HS256: without jwt.WithValidMethods a
// forged token could name a different algorithm and sidestep the signature
// check entirely.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
