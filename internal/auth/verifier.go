package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrAuth covers a missing, malformed, expired or otherwise invalid credential.
var ErrAuth = errors.New("unauthorized")

// Identity is the verified caller.
type Identity struct {
	Subject string
	Scope   string
}

type Claims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

type verifier struct {
	keys     *KeySet
	audience string
	issuer   string
	now      func() time.Time
}

func NewVerifier(keys *KeySet, audience, issuer string) Verifier {
	return &verifier{keys: keys, audience: audience, issuer: issuer, now: time.Now}
}

func (v *verifier) Verify(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, fmt.Errorf("%w: missing token", ErrAuth)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.audience),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		keys, err := v.keys.SigningKeys(ctx, v.now())
		if err != nil {
			return nil, err
		}
		key, ok := keys[kid]
		if !ok {
			return nil, fmt.Errorf("invalid header: unknown kid %q", kid)
		}
		return key, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("%w: missing sub", ErrAuth)
	}
	return Identity{Subject: claims.Subject, Scope: claims.Scope}, nil
}
