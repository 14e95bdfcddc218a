package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenCodec signs and verifies the session cookie.
// The token carries the session id (jti) and owner (sub); everything else
// is read from the Store.
type tokenCodec struct {
	secret []byte
}

func (c tokenCodec) sign(s Session) (string, error) {
	claims := &jwt.RegisteredClaims{
		ID:        s.ID,
		Subject:   s.OwnerID,
		IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// parse returns the session id and owner of a valid token.
func (c tokenCodec) parse(raw string, now time.Time) (id, ownerID string, err error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", "", ErrNoSession
	}
	if claims.ID == "" || claims.Subject == "" {
		return "", "", ErrNoSession
	}
	return claims.ID, claims.Subject, nil
}
