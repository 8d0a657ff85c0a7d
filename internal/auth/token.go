package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenInvalid signals a token whose signature or structure does not check out.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired signals a well-formed token past its expiry instant.
	ErrTokenExpired = errors.New("token expired")
)

// TokenConfig carries the knobs for token issuance. Secret is required; TTL
// defaults to 30 minutes and Now to time.Now when left unset.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

// TokenIssuer mints and verifies stateless HS256-signed tokens. There is no
// revocation list: a token stays valid for its full lifetime once issued.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer validates the config and returns a ready issuer.
func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{secret: cfg.Secret, ttl: ttl, now: now}, nil
}

// Issue signs a token binding the subject to an absolute expiry of now+TTL.
func (t *TokenIssuer) Issue(subject string) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded subject.
// Expiry and signature failures are reported as distinct errors so callers
// can message them differently.
func (t *TokenIssuer) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
