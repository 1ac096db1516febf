// bytesByHarsh | 2026
// handler_test.go

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytesByHarsh/go-backend-template/internal/config"
	"github.com/bytesByHarsh/go-backend-template/internal/core"
	"github.com/bytesByHarsh/go-backend-template/internal/middleware"
)

func newTestRouter(t *testing.T) (chi.Router, *Service, *fakeUserProvider) {
	t.Helper()

	manager := newTestJWTManager(t)
	users := newFakeUserProvider()
	svc := NewService(newFakeBlacklist(), manager, users)

	handler := NewHandler(svc, config.JWTConfig{
		CookieMaxAge: 3600,
	})

	router := chi.NewRouter()
	handler.RegisterRoutes(router, middleware.Authenticator(svc))

	return router, svc, users
}

func doLogin(
	t *testing.T,
	router chi.Router,
	username, password string,
) *httptest.ResponseRecorder {
	t.Helper()

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req := httptest.NewRequest(
		http.MethodPost,
		"/auth/login",
		strings.NewReader(form.Encode()),
	)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()

	var resp core.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Error.Message
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginSuccess(t *testing.T) {
	router, _, users := newTestRouter(t)
	addTestUser(t, users, "s3cret-password")

	rec := doLogin(t, router, "alice", "s3cret-password")
	require.Equal(t, http.StatusOK, rec.Code)

	var body TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.AccessToken)
	assert.Equal(t, "bearer", body.TokenType)

	cookies := rec.Result().Cookies()

	access := cookieByName(cookies, "access_token")
	require.NotNil(t, access)
	assert.Equal(t, body.AccessToken, access.Value)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)
	assert.Equal(t, 3600, access.MaxAge)

	refresh := cookieByName(cookies, "refresh_token")
	require.NotNil(t, refresh)
	assert.NotEmpty(t, refresh.Value)
	assert.NotEqual(t, access.Value, refresh.Value)
	assert.True(t, refresh.HttpOnly)
}

func TestLoginByEmail(t *testing.T) {
	router, _, users := newTestRouter(t)
	addTestUser(t, users, "s3cret-password")

	rec := doLogin(t, router, "alice@example.com", "s3cret-password")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginWrongCredentials(t *testing.T) {
	router, _, users := newTestRouter(t)
	addTestUser(t, users, "s3cret-password")

	for _, identifier := range []string{"alice", "nobody"} {
		rec := doLogin(t, router, identifier, "wrong")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(
			t,
			"Wrong username, email or password.",
			errorMessage(t, rec.Body.Bytes()),
		)
		assert.Empty(t, rec.Result().Cookies())
	}
}

func TestLoginMissingFields(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doLogin(t, router, "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshMissingCookie(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Refresh token missing.", errorMessage(t, rec.Body.Bytes()))
}

func TestRefreshInvalidCookie(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "garbage"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid refresh token.", errorMessage(t, rec.Body.Bytes()))
}

func TestRefreshSuccess(t *testing.T) {
	router, svc, users := newTestRouter(t)
	addTestUser(t, users, "s3cret-password")

	login := doLogin(t, router, "alice", "s3cret-password")
	require.Equal(t, http.StatusOK, login.Code)
	refresh := cookieByName(login.Result().Cookies(), "refresh_token")
	require.NotNil(t, refresh)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(refresh)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.AccessToken)
	assert.Equal(t, "bearer", body.TokenType)

	_, err := svc.VerifyAccessToken(context.Background(), body.AccessToken)
	assert.NoError(t, err)
}

func TestLogout(t *testing.T) {
	router, svc, users := newTestRouter(t)
	addTestUser(t, users, "s3cret-password")

	login := doLogin(t, router, "alice", "s3cret-password")
	require.Equal(t, http.StatusOK, login.Code)

	var tokens TokenResponse
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &tokens))

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Logged out successfully", body.Message)

	for _, name := range []string{"access_token", "refresh_token"} {
		cleared := cookieByName(rec.Result().Cookies(), name)
		require.NotNil(t, cleared, name)
		assert.Empty(t, cleared.Value)
		assert.Negative(t, cleared.MaxAge)
	}

	_, err := svc.VerifyAccessToken(context.Background(), tokens.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestLogoutRequiresAuthentication(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
