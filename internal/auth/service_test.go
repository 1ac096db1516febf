// bytesByHarsh | 2026
// service_test.go

package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"

	"github.com/bytesByHarsh/go-backend-template/internal/core"
)

type fakeBlacklist struct {
	mu      sync.Mutex
	entries map[string]*BlacklistEntry
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{entries: make(map[string]*BlacklistEntry)}
}

func (f *fakeBlacklist) Revoke(_ context.Context, entry *BlacklistEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.entries[entry.TokenHash]; exists {
		return nil
	}
	f.entries[entry.TokenHash] = entry
	return nil
}

func (f *fakeBlacklist) IsRevoked(
	_ context.Context,
	tokenHash string,
) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, revoked := f.entries[tokenHash]
	return revoked, nil
}

func (f *fakeBlacklist) DeleteExpired(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var removed int64
	for hash, entry := range f.entries {
		if entry.IsExpired() {
			delete(f.entries, hash)
			removed++
		}
	}
	return removed, nil
}

type fakeUserProvider struct {
	mu        sync.Mutex
	byName    map[string]*UserInfo
	byEmail   map[string]*UserInfo
	passwords map[string]string
}

func newFakeUserProvider() *fakeUserProvider {
	return &fakeUserProvider{
		byName:    make(map[string]*UserInfo),
		byEmail:   make(map[string]*UserInfo),
		passwords: make(map[string]string),
	}
}

func (f *fakeUserProvider) add(user *UserInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.byName[user.Username] = user
	f.byEmail[user.Email] = user
}

func (f *fakeUserProvider) remove(username string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if user, ok := f.byName[username]; ok {
		delete(f.byEmail, user.Email)
		delete(f.byName, username)
	}
}

func (f *fakeUserProvider) GetByUsername(
	_ context.Context,
	username string,
) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.byName[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, core.ErrNotFound)
	}
	return user, nil
}

func (f *fakeUserProvider) GetByEmail(
	_ context.Context,
	email string,
) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", email, core.ErrNotFound)
	}
	return user, nil
}

func (f *fakeUserProvider) UpdatePassword(
	_ context.Context,
	userID, hashedPassword string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.passwords[userID] = hashedPassword
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeUserProvider, *fakeBlacklist) {
	t.Helper()

	manager := newTestJWTManager(t)
	repo := newFakeBlacklist()
	users := newFakeUserProvider()

	return NewService(repo, manager, users), users, repo
}

func addTestUser(t *testing.T, users *fakeUserProvider, password string) *UserInfo {
	t.Helper()

	hash, err := core.HashPassword(password)
	require.NoError(t, err)

	user := &UserInfo{
		ID:             "7c9ad0e3-0000-4000-8000-000000000001",
		Username:       "alice",
		Email:          "alice@example.com",
		EmpID:          "EMP-001",
		Name:           "Alice",
		Role:           "user",
		HashedPassword: hash,
	}
	users.add(user)
	return user
}

func TestAuthenticate(t *testing.T) {
	svc, users, _ := newTestService(t)
	addTestUser(t, users, "s3cret-password")

	t.Run("by username", func(t *testing.T) {
		user, err := svc.Authenticate(context.Background(), "alice", "s3cret-password")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("by email", func(t *testing.T) {
		user, err := svc.Authenticate(
			context.Background(),
			"alice@example.com",
			"s3cret-password",
		)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user yields the same error", func(t *testing.T) {
		_, unknownErr := svc.Authenticate(context.Background(), "nobody", "wrong")
		_, wrongErr := svc.Authenticate(context.Background(), "alice", "wrong")
		assert.Equal(t, wrongErr, unknownErr)
	})
}

func TestLoginAndVerifyRoundtrip(t *testing.T) {
	svc, users, _ := newTestService(t)
	user := addTestUser(t, users, "s3cret-password")

	tokens, err := svc.Login(context.Background(), "alice", "s3cret-password")
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
	assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)

	claims, err := svc.VerifyAccessToken(context.Background(), tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "user", claims.Role)

	// A refresh token never passes access verification.
	_, err = svc.VerifyAccessToken(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestRefresh(t *testing.T) {
	svc, users, _ := newTestService(t)
	addTestUser(t, users, "s3cret-password")

	tokens, err := svc.Login(context.Background(), "alice", "s3cret-password")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.VerifyAccessToken(context.Background(), refreshed.AccessToken)
	require.NoError(t, err)

	// Access tokens cannot stand in for refresh tokens.
	_, err = svc.Refresh(context.Background(), tokens.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	svc, users, _ := newTestService(t)
	addTestUser(t, users, "s3cret-password")

	tokens, err := svc.Login(context.Background(), "alice", "s3cret-password")
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(context.Background(), tokens.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), tokens.AccessToken))

	_, err = svc.VerifyAccessToken(context.Background(), tokens.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)

	// The refresh token is untouched by logout.
	_, err = svc.VerifyRefreshToken(context.Background(), tokens.RefreshToken)
	assert.NoError(t, err)
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, users, _ := newTestService(t)
	addTestUser(t, users, "s3cret-password")

	tokens, err := svc.Login(context.Background(), "alice", "s3cret-password")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), tokens.AccessToken))
	require.NoError(t, svc.Logout(context.Background(), tokens.AccessToken))
}

func TestVerifyFailsForRemovedUser(t *testing.T) {
	svc, users, _ := newTestService(t)
	addTestUser(t, users, "s3cret-password")

	tokens, err := svc.Login(context.Background(), "alice", "s3cret-password")
	require.NoError(t, err)

	users.remove("alice")

	_, err = svc.VerifyAccessToken(context.Background(), tokens.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestAuthenticateUpgradesLegacyHash(t *testing.T) {
	svc, users, _ := newTestService(t)
	user := addTestUser(t, users, "s3cret-password")

	// Weak parameters mark the hash for upgrade on next successful login.
	salt := []byte("legacy-salt-0123")
	digest := argon2.IDKey([]byte("s3cret-password"), salt, 1, 16*1024, 1, 32)
	legacy := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, 16*1024, 1, 1,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)
	user.HashedPassword = legacy

	_, err := svc.Authenticate(context.Background(), "alice", "s3cret-password")
	require.NoError(t, err)

	users.mu.Lock()
	defer users.mu.Unlock()
	assert.NotEmpty(t, users.passwords[user.ID])
	assert.NotEqual(t, legacy, users.passwords[user.ID])
}

func TestPruneExpiredBlacklist(t *testing.T) {
	svc, _, repo := newTestService(t)

	expired := &BlacklistEntry{
		ID:        "expired",
		TokenHash: core.HashToken("expired-token"),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	live := &BlacklistEntry{
		ID:        "live",
		TokenHash: core.HashToken("live-token"),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	require.NoError(t, repo.Revoke(context.Background(), expired))
	require.NoError(t, repo.Revoke(context.Background(), live))

	removed, err := svc.PruneExpiredBlacklist(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	revoked, err := repo.IsRevoked(context.Background(), live.TokenHash)
	require.NoError(t, err)
	assert.True(t, revoked)
}
