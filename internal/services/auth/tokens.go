package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/mlukyanov/authsvc/internal/domain/auth"
	"github.com/mlukyanov/authsvc/internal/domain/user"
)

type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Now           func() time.Time
}

// Tokens mints and verifies the two token kinds. Access and refresh tokens
// carry the same claims but are signed with independent secrets, so one
// kind never verifies as the other.
type Tokens struct {
	cfg TokenConfig
}

func NewTokens(cfg TokenConfig) *Tokens {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Tokens{cfg: cfg}
}

func (t *Tokens) AccessTTL() time.Duration  { return t.cfg.AccessTTL }
func (t *Tokens) RefreshTTL() time.Duration { return t.cfg.RefreshTTL }

func (t *Tokens) IssueAccess(u *user.User) (string, error) {
	return t.issue(u, t.cfg.AccessSecret, t.cfg.AccessTTL)
}

func (t *Tokens) IssueRefresh(u *user.User) (string, error) {
	return t.issue(u, t.cfg.RefreshSecret, t.cfg.RefreshTTL)
}

func (t *Tokens) issue(u *user.User, secret []byte, ttl time.Duration) (string, error) {
	now := t.cfg.Now()
	claims := &domainauth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (t *Tokens) VerifyAccess(raw string) (*domainauth.Claims, error) {
	return t.verify(raw, t.cfg.AccessSecret)
}

func (t *Tokens) VerifyRefresh(raw string) (*domainauth.Claims, error) {
	return t.verify(raw, t.cfg.RefreshSecret)
}

func (t *Tokens) verify(raw string, secret []byte) (*domainauth.Claims, error) {
	claims := &domainauth.Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(tk *jwt.Token) (any, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tk.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(t.cfg.Now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainauth.ErrTokenExpired
		}
		return nil, domainauth.ErrTokenInvalid
	}
	if !tok.Valid {
		return nil, domainauth.ErrTokenInvalid
	}
	return claims, nil
}
