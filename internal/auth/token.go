package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lodgeiq/internal/domain"
)

// Claims is the token payload issued by the identity provider. Only the
// subject (user id) and email are trusted; the current role is always read
// from the users table so role changes apply immediately.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Verify(tokenString string) (Claims, error) {
	if len(v.secret) == 0 {
		return Claims{}, fmt.Errorf("verifier: no secret configured")
	}
	var claims Claims
	tok, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !tok.Valid {
		return Claims{}, domain.ErrUnauthorized
	}
	return claims, nil
}

// Mint issues a token for a user. Used by the seeder to print dev tokens and
// by tests; production tokens come from the identity provider.
func (v *Verifier) Mint(userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
