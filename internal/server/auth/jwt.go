package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed cookie payload. ExpiresAt is only set for sessions
// committed with a max-age.
type Claims struct {
	jwt.RegisteredClaims
	Values map[string]string  `json:"v,omitempty"`
	Flash  map[string]Message `json:"f,omitempty"`
}

func encodeSession(s *Session, secret []byte, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
		Values: s.values,
		Flash:  s.flash,
	}
	if !s.expiresAt.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(s.expiresAt)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

func decodeSession(tokenString string, secret []byte, now time.Time) (*Session, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	s := NewSession()
	for k, v := range claims.Values {
		s.values[k] = v
	}
	for k, v := range claims.Flash {
		s.flash[k] = v
	}
	if claims.ExpiresAt != nil {
		s.expiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}
