// bytesByHarsh | 2026
// auth_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytesByHarsh/go-backend-template/internal/core"
)

type fakeVerifier struct {
	claims *AccessTokenClaims
	err    error
}

func (f *fakeVerifier) VerifyAccessToken(
	_ context.Context,
	_ string,
) (*AccessTokenClaims, error) {
	return f.claims, f.err
}

func TestExtractToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{name: "bearer token", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "missing header", header: "", want: ""},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", want: ""},
		{name: "scheme only", header: "Bearer", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			assert.Equal(t, tc.want, ExtractToken(req))
		})
	}
}

func TestAuthenticatorPopulatesContext(t *testing.T) {
	verifier := &fakeVerifier{
		claims: &AccessTokenClaims{
			UserID:   "user-1",
			Username: "alice",
			Role:     "admin",
		},
	}

	var gotCtx context.Context
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCtx = r.Context()
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some.token")
	rec := httptest.NewRecorder()

	Authenticator(verifier)(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", GetUserID(gotCtx))
	assert.Equal(t, "alice", GetUsername(gotCtx))
	assert.Equal(t, "admin", GetUserRole(gotCtx))
	assert.True(t, IsAuthenticated(gotCtx))
	assert.True(t, IsAdmin(gotCtx))

	claims := GetClaims(gotCtx)
	require.NotNil(t, claims)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestAuthenticatorRejectsMissingToken(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	Authenticator(&fakeVerifier{})(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAuthenticatorRejectsFailedVerification(t *testing.T) {
	for _, err := range []error{
		core.ErrTokenExpired,
		core.ErrTokenRevoked,
		core.ErrTokenInvalid,
	} {
		verifier := &fakeVerifier{err: err}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer some.token")
		rec := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		})

		Authenticator(verifier)(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		// Verification failures are indistinguishable to the client.
		assert.Contains(t, rec.Body.String(), "invalid or expired token")
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	run := func(role string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if role != "" {
			ctx := context.WithValue(req.Context(), UserRoleKey, role)
			req = req.WithContext(ctx)
		}

		rec := httptest.NewRecorder()
		RequireRole("admin")(next).ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, run("admin").Code)
	assert.Equal(t, http.StatusForbidden, run("user").Code)
	assert.Equal(t, http.StatusUnauthorized, run("").Code)
}
