package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domainauth "github.com/mlukyanov/authsvc/internal/domain/auth"
	"github.com/mlukyanov/authsvc/internal/domain/user"
	"github.com/mlukyanov/authsvc/internal/repository/postgres"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. Callers must not be able to tell which one happened.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNoRefreshToken     = errors.New("refresh token not found")
	ErrRefreshExpired     = errors.New("refresh token expired")
	ErrRefreshInvalid     = errors.New("invalid refresh token")
)

type TokenPair struct {
	Access  string
	Refresh string
}

// Usecase implements the register/login/refresh/logout workflow. It holds
// no per-request state; every call reconstructs the session from the
// presented credentials.
type Usecase struct {
	users  user.Repo
	tokens *Tokens
	log    *zap.Logger
}

func NewUsecase(users user.Repo, tokens *Tokens, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{users: users, tokens: tokens, log: log}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Register creates the identity and signs it in. The password is hashed
// before anything touches the store; a plaintext password never reaches
// the repo. A duplicate email maps to ErrEmailTaken whether it is caught
// by the unique index or not.
func (u *Usecase) Register(ctx context.Context, name, email, password string) (*user.User, TokenPair, error) {
	email = normalizeEmail(email)

	hash, err := HashPassword(password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	rec := &user.User{Name: name, Email: email, Password: hash}
	if err := u.users.Create(ctx, rec); err != nil {
		if errors.Is(err, postgres.ErrConflict) {
			return nil, TokenPair{}, ErrEmailTaken
		}
		return nil, TokenPair{}, fmt.Errorf("create user: %w", err)
	}

	pair, err := u.issuePair(rec)
	if err != nil {
		return nil, TokenPair{}, err
	}
	u.log.Info("user registered", zap.Int64("user_id", rec.ID))
	return rec, pair, nil
}

// Login verifies the password against the stored hash. The unknown-email
// and wrong-password cases are logged apart but collapse into
// ErrInvalidCredentials at the boundary, so the response never reveals
// which emails are registered.
func (u *Usecase) Login(ctx context.Context, email, password string) (*user.User, TokenPair, error) {
	email = normalizeEmail(email)

	rec, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			u.log.Info("login rejected", zap.String("reason", "unknown_email"))
			return nil, TokenPair{}, ErrInvalidCredentials
		}
		return nil, TokenPair{}, fmt.Errorf("find user: %w", err)
	}
	if !CheckPassword(password, rec.Password) {
		u.log.Info("login rejected", zap.String("reason", "bad_password"), zap.Int64("user_id", rec.ID))
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := u.issuePair(rec)
	if err != nil {
		return nil, TokenPair{}, err
	}
	u.log.Info("user logged in", zap.Int64("user_id", rec.ID))
	return rec, pair, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// identity comes straight from the verified claims; no store lookup. The
// refresh token itself is not rotated and stays valid for its original
// window.
func (u *Usecase) Refresh(raw string) (string, *domainauth.Claims, error) {
	if raw == "" {
		return "", nil, ErrNoRefreshToken
	}
	claims, err := u.tokens.VerifyRefresh(raw)
	if err != nil {
		if errors.Is(err, domainauth.ErrTokenExpired) {
			u.log.Info("refresh rejected", zap.String("reason", "expired"))
			return "", nil, ErrRefreshExpired
		}
		u.log.Warn("refresh rejected", zap.String("reason", "invalid"))
		return "", nil, ErrRefreshInvalid
	}

	access, err := u.tokens.IssueAccess(&user.User{ID: claims.UserID, Email: claims.Email, Name: claims.Name})
	if err != nil {
		return "", nil, err
	}
	u.log.Info("access token refreshed", zap.Int64("user_id", claims.UserID))
	return access, claims, nil
}

// Logout is an acknowledgement only. Tokens are stateless, so there is
// nothing to revoke server-side: clearing the cookie is the caller's job,
// and an already-issued refresh token stays usable until it expires. Known
// trade-off, kept on purpose.
func (u *Usecase) Logout(ctx context.Context) {
	u.log.Info("user logged out")
}

func (u *Usecase) issuePair(rec *user.User) (TokenPair, error) {
	access, err := u.tokens.IssueAccess(rec)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access: %w", err)
	}
	refresh, err := u.tokens.IssueRefresh(rec)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh: %w", err)
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}
