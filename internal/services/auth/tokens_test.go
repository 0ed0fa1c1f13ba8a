package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/mlukyanov/authsvc/internal/domain/auth"
	"github.com/mlukyanov/authsvc/internal/domain/user"
)

type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time { return c.t }

func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTokens(clk *testClock) *Tokens {
	return NewTokens(TokenConfig{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Now:           clk.now,
	})
}

func testUser() *user.User {
	return &user.User{ID: 42, Name: "Ann", Email: "ann@x.com"}
}

func TestTokens_IssueAndVerifyAccess(t *testing.T) {
	clk := &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	tokens := newTestTokens(clk)

	raw, err := tokens.IssueAccess(testUser())
	require.NoError(t, err)

	claims, err := tokens.VerifyAccess(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ann@x.com", claims.Email)
	assert.Equal(t, "Ann", claims.Name)
	assert.Equal(t, clk.t, claims.IssuedAt.Time)
	assert.Equal(t, clk.t.Add(15*time.Minute), claims.ExpiresAt.Time)
}

func TestTokens_AccessExpires(t *testing.T) {
	clk := &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	tokens := newTestTokens(clk)

	raw, err := tokens.IssueAccess(testUser())
	require.NoError(t, err)

	clk.advance(14 * time.Minute)
	_, err = tokens.VerifyAccess(raw)
	require.NoError(t, err)

	clk.advance(2 * time.Minute)
	_, err = tokens.VerifyAccess(raw)
	assert.ErrorIs(t, err, domainauth.ErrTokenExpired)
}

func TestTokens_RefreshExpires(t *testing.T) {
	clk := &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	tokens := newTestTokens(clk)

	raw, err := tokens.IssueRefresh(testUser())
	require.NoError(t, err)

	clk.advance(6 * 24 * time.Hour)
	_, err = tokens.VerifyRefresh(raw)
	require.NoError(t, err)

	clk.advance(2 * 24 * time.Hour)
	_, err = tokens.VerifyRefresh(raw)
	assert.ErrorIs(t, err, domainauth.ErrTokenExpired)
}

func TestTokens_SecretIsolation(t *testing.T) {
	clk := &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	tokens := newTestTokens(clk)

	access, err := tokens.IssueAccess(testUser())
	require.NoError(t, err)
	refresh, err := tokens.IssueRefresh(testUser())
	require.NoError(t, err)

	_, err = tokens.VerifyRefresh(access)
	assert.ErrorIs(t, err, domainauth.ErrTokenInvalid)

	_, err = tokens.VerifyAccess(refresh)
	assert.ErrorIs(t, err, domainauth.ErrTokenInvalid)
}

func TestTokens_Malformed(t *testing.T) {
	clk := &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	tokens := newTestTokens(clk)

	for _, raw := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJub25lIn0.eyJ1aWQiOjF9."} {
		_, err := tokens.VerifyAccess(raw)
		assert.ErrorIs(t, err, domainauth.ErrTokenInvalid, "input %q", raw)
	}
}

func TestTokens_TamperedSignature(t *testing.T) {
	clk := &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	tokens := newTestTokens(clk)

	raw, err := tokens.IssueAccess(testUser())
	require.NoError(t, err)

	tampered := raw[:len(raw)-2] + "xx"
	_, err = tokens.VerifyAccess(tampered)
	assert.ErrorIs(t, err, domainauth.ErrTokenInvalid)
}
