// Package auth identifies learners with HS256 bearer tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultLearner is the learner id used when no signing secret is
// configured and every request belongs to the same person.
const DefaultLearner = "local"

const issuer = "wordiz"

// ErrInvalidToken is returned for tokens that fail verification.
var ErrInvalidToken = errors.New("invalid token")

// Issuer signs and verifies learner tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an issuer for secret. A zero ttl issues tokens that
// never expire. An empty secret disables verification entirely.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Enabled reports whether tokens are required.
func (i *Issuer) Enabled() bool {
	return len(i.secret) > 0
}

// Issue returns a signed token whose subject is learnerID.
func (i *Issuer) Issue(learnerID string) (string, error) {
	if !i.Enabled() {
		return "", errors.New("issue token: no signing secret configured")
	}
	if learnerID == "" {
		return "", errors.New("issue token: empty learner id")
	}

	now := i.now()
	claims := jwt.RegisteredClaims{
		Issuer:   issuer,
		Subject:  learnerID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tok, nil
}

// Verify checks the token signature and expiry and returns its subject.
func (i *Issuer) Verify(token string) (string, error) {
	if !i.Enabled() {
		return DefaultLearner, nil
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}
