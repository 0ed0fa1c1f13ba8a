package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired means the token was well-formed and correctly signed
	// but its expiry has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers everything else: malformed structure, bad
	// signature, wrong signing secret.
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims is the identity payload minted into both access and refresh
// tokens. The two kinds share the shape and differ only in lifetime and
// signing secret.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}
