package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mlukyanov/authsvc/internal/domain/user"
)

// Controller is the HTTP boundary: it binds and validates request bodies,
// calls the usecase, and translates outcomes into status codes and the
// refresh cookie. The refresh token travels only in an HTTP-only cookie;
// the access token only in the JSON body.
type Controller struct {
	log        *zap.Logger
	uc         *Usecase
	users      user.Repo
	tokens     *Tokens
	cookie     CookieOpts
	refreshTTL time.Duration
}

type CookieOpts struct {
	Name   string
	Domain string
	Path   string
	Secure bool
}

type Opts struct {
	Logger *zap.Logger
	Cookie CookieOpts
}

func NewController(uc *Usecase, users user.Repo, tokens *Tokens, o Opts) *Controller {
	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if o.Cookie.Name == "" {
		o.Cookie.Name = "refreshToken"
	}
	if o.Cookie.Path == "" {
		o.Cookie.Path = "/"
	}
	return &Controller{
		log:        log,
		uc:         uc,
		users:      users,
		tokens:     tokens,
		cookie:     o.Cookie,
		refreshTTL: tokens.RefreshTTL(),
	}
}

// Mount registers the auth routes on r.
func (c *Controller) Mount(r *mux.Router) {
	sub := r.PathPrefix("/api/auth").Subrouter()
	sub.HandleFunc("/register", c.handleRegister).Methods(http.MethodPost)
	sub.HandleFunc("/login", c.handleLogin).Methods(http.MethodPost)
	sub.HandleFunc("/refresh", c.handleRefresh).Methods(http.MethodGet)
	sub.HandleFunc("/logout", c.handleLogout).Methods(http.MethodPost)
	sub.Handle("/me", c.RequireAuth(http.HandlerFunc(c.handleMe))).Methods(http.MethodGet)
}

var (
	hasLower = regexp.MustCompile(`[a-z]`)
	hasUpper = regexp.MustCompile(`[A-Z]`)
	hasDigit = regexp.MustCompile(`\d`)
)

type registerPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p registerPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(2, 50)),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password,
			validation.Required,
			validation.Length(8, 100),
			validation.Match(hasLower).Error("must contain a lowercase letter"),
			validation.Match(hasUpper).Error("must contain an uppercase letter"),
			validation.Match(hasDigit).Error("must contain a digit"),
		),
	)
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p loginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

// publicUser is the identity subset that may appear in responses. The
// password hash never leaves the service.
type publicUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toPublicUser(u *user.User) publicUser {
	return publicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (c *Controller) handleRegister(w http.ResponseWriter, r *http.Request) {
	var p registerPayload
	if !c.bind(w, r, &p) {
		return
	}

	c.log.Info("auth.register", zap.String("email", p.Email))

	u, pair, err := c.uc.Register(r.Context(), p.Name, p.Email, p.Password)
	if err != nil {
		c.respondErr(w, err)
		return
	}

	c.setRefreshCookie(w, pair.Refresh)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "User registered successfully",
		"accessToken": pair.Access,
		"user":        toPublicUser(u),
	})
}

func (c *Controller) handleLogin(w http.ResponseWriter, r *http.Request) {
	var p loginPayload
	if !c.bind(w, r, &p) {
		return
	}

	c.log.Info("auth.login", zap.String("email", p.Email))

	u, pair, err := c.uc.Login(r.Context(), p.Email, p.Password)
	if err != nil {
		c.respondErr(w, err)
		return
	}

	c.setRefreshCookie(w, pair.Refresh)
	writeJSON(w, http.StatusOK, map[string]any{
		"accessToken": pair.Access,
		"user":        toPublicUser(u),
	})
}

func (c *Controller) handleRefresh(w http.ResponseWriter, r *http.Request) {
	raw := c.refreshFromRequest(r)

	c.log.Info("auth.refresh")

	access, claims, err := c.uc.Refresh(raw)
	if err != nil {
		c.respondErr(w, err)
		return
	}

	// The refresh cookie is left untouched: the token is not rotated and
	// keeps its original expiry.
	writeJSON(w, http.StatusOK, map[string]any{
		"accessToken": access,
		"user": publicUser{
			ID:    claims.UserID,
			Name:  claims.Name,
			Email: claims.Email,
		},
	})
}

func (c *Controller) handleLogout(w http.ResponseWriter, r *http.Request) {
	c.uc.Logout(r.Context())
	c.clearRefreshCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Logged out successfully"})
}

func (c *Controller) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		c.respondMsg(w, http.StatusUnauthorized, "Access token required")
		return
	}
	u, err := c.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		c.respondMsg(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, toPublicUser(u))
}

// bind decodes and validates the body; on failure it writes the response
// itself and returns false.
func (c *Controller) bind(w http.ResponseWriter, r *http.Request, p interface{ Validate() error }) bool {
	if err := json.NewDecoder(r.Body).Decode(p); err != nil {
		c.respondMsg(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	if err := p.Validate(); err != nil {
		var fields validation.Errors
		if errors.As(err, &fields) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"message": "Validation failed",
				"errors":  fields,
			})
			return false
		}
		c.respondMsg(w, http.StatusBadRequest, "Validation failed")
		return false
	}
	return true
}

func (c *Controller) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmailTaken):
		c.respondMsg(w, http.StatusConflict, "User with this email already exists")
	case errors.Is(err, ErrInvalidCredentials):
		c.respondMsg(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, ErrNoRefreshToken):
		c.respondMsg(w, http.StatusUnauthorized, "Refresh token not found")
	case errors.Is(err, ErrRefreshExpired):
		c.respondMsg(w, http.StatusForbidden, "Refresh token has expired")
	case errors.Is(err, ErrRefreshInvalid):
		c.respondMsg(w, http.StatusForbidden, "Invalid refresh token")
	default:
		c.log.Error("auth request failed", zap.Error(err))
		c.respondMsg(w, http.StatusInternalServerError, "Server error")
	}
}

func (c *Controller) respondMsg(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"message": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (c *Controller) setRefreshCookie(w http.ResponseWriter, raw string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.cookie.Name,
		Value:    raw,
		Path:     c.cookie.Path,
		Domain:   c.cookie.Domain,
		HttpOnly: true,
		Secure:   c.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(c.refreshTTL.Seconds()),
	})
}

func (c *Controller) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.cookie.Name,
		Value:    "",
		Path:     c.cookie.Path,
		Domain:   c.cookie.Domain,
		HttpOnly: true,
		Secure:   c.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	})
}

func (c *Controller) refreshFromRequest(r *http.Request) string {
	if ck, err := r.Cookie(c.cookie.Name); err == nil && ck.Value != "" {
		return ck.Value
	}
	// Fallback for clients that cannot send cookies.
	return r.Header.Get("X-Refresh-Token")
}
