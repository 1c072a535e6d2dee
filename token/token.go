package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/netmovies/netmovies-server/models"
)

// DefaultTTL is the credential lifetime, one day from issuance.
const DefaultTTL = 24 * time.Hour

// Maker signs and verifies HS256 bearer tokens. The secret is fixed at
// construction and never rotated in-process.
type Maker struct {
	secret []byte
	ttl    time.Duration
}

// NewMaker returns a Maker signing with secret. A non-positive ttl falls
// back to DefaultTTL.
func NewMaker(secret string, ttl time.Duration) *Maker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Maker{secret: []byte(secret), ttl: ttl}
}

// Generate signs a token whose subject is the given user ID.
func (m *Maker) Generate(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks signature and expiry and returns the embedded user ID. Any
// failure collapses to ErrUnauthorized; callers never see a partial identity.
func (m *Maker) Verify(tokenString string) (string, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return "", models.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, models.ErrUnauthorized
		}
		return m.secret, nil
	})
	if err != nil {
		return "", models.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", models.ErrUnauthorized
	}
	return claims.Subject, nil
}
