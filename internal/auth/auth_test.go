package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestStaticProvider(t *testing.T) {
	id, err := StaticProvider{UserID: "user_1"}.Identity(context.Background())
	require.NoError(t, err)
	assert.True(t, id.Authenticated())

	id, err = StaticProvider{}.Identity(context.Background())
	require.NoError(t, err)
	assert.True(t, id.Loaded)
	assert.False(t, id.Authenticated())
}

func TestTokenProvider_Unverified(t *testing.T) {
	tok, err := IssueToken(secret, "user_2", "a@b.c", time.Hour)
	require.NoError(t, err)

	id, err := TokenProvider{Token: tok}.Identity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user_2", id.UserID)
	assert.Equal(t, "a@b.c", id.Email)
}

func TestTokenProvider_Expired(t *testing.T) {
	tok, err := IssueToken(secret, "user_2", "", time.Minute)
	require.NoError(t, err)

	later := func() time.Time { return time.Now().Add(time.Hour) }

	_, err = TokenProvider{Token: tok, Now: later}.Identity(context.Background())
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = TokenProvider{Token: tok, Secret: secret, Now: later}.Identity(context.Background())
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenProvider_Empty(t *testing.T) {
	id, err := TokenProvider{}.Identity(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
	assert.False(t, id.Authenticated())
}

func TestParseToken_WrongSecret(t *testing.T) {
	tok, err := IssueToken(secret, "user_3", "", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("other"), nil)
	assert.Error(t, err)

	_, err = ParseToken("not-a-token", nil, nil)
	assert.Error(t, err)
}

func TestParseToken_NoSubject(t *testing.T) {
	tok, err := IssueToken(secret, "", "", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(tok, secret, nil)
	assert.ErrorIs(t, err, ErrNoSubject)
}

func TestMiddleware(t *testing.T) {
	var gotSub string
	h := Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := FromContext(r.Context())
		require.True(t, ok)
		gotSub = c.Subject
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"missing bearer token"}`, rec.Body.String())

	bad := httptest.NewRequest(http.MethodGet, "/", nil)
	bad.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, bad)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid token"}`, rec.Body.String())

	tok, err := IssueToken(secret, "user_4", "", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user_4", gotSub)
}
