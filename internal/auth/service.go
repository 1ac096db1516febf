// bytesByHarsh | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bytesByHarsh/go-backend-template/internal/core"
	"github.com/bytesByHarsh/go-backend-template/internal/middleware"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type UserInfo struct {
	ID             string
	Username       string
	Email          string
	EmpID          string
	Name           string
	Role           string
	HashedPassword string
}

type UserProvider interface {
	GetByUsername(ctx context.Context, username string) (*UserInfo, error)
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, hashedPassword string) error
}

type Service struct {
	repo  Repository
	jwt   *JWTManager
	users UserProvider
}

func NewService(repo Repository, jwt *JWTManager, users UserProvider) *Service {
	return &Service{
		repo:  repo,
		jwt:   jwt,
		users: users,
	}
}

// Authenticate resolves identifier (username, or email when it contains an
// '@') against live users and checks the password. Unknown identifier and
// wrong password collapse to the same error so callers cannot enumerate
// accounts.
func (s *Service) Authenticate(
	ctx context.Context,
	identifier, password string,
) (*UserInfo, error) {
	var (
		user *UserInfo
		err  error
	)

	if strings.Contains(identifier, "@") {
		user, err = s.users.GetByEmail(ctx, identifier)
	} else {
		user, err = s.users.GetByUsername(ctx, identifier)
	}

	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		password,
		&user.HashedPassword,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.users.UpdatePassword(ctx, user.ID, newHash)
	}

	return user, nil
}

type SessionTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

func (s *Service) Login(
	ctx context.Context,
	identifier, password string,
) (*SessionTokens, error) {
	user, err := s.Authenticate(ctx, identifier, password)
	if err != nil {
		return nil, err
	}

	accessToken, accessExp, err := s.jwt.CreateAccessToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refreshToken, _, err := s.jwt.CreateRefreshToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	return &SessionTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExp,
	}, nil
}

// verifyToken runs the full verification pipeline in a fixed order: the
// local signature/expiry/type checks first, then the blacklist probe, then
// the live-user lookup. The cheap checks run before anything that touches
// the database.
func (s *Service) verifyToken(
	ctx context.Context,
	raw, expectedType string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.ParseToken(raw, expectedType)
	if err != nil {
		return nil, err
	}

	revoked, err := s.repo.IsRevoked(ctx, core.HashToken(raw))
	if err != nil {
		return nil, fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	user, err := s.users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf(
				"verify token: unknown subject: %w",
				core.ErrTokenInvalid,
			)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &middleware.AccessTokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

func (s *Service) VerifyAccessToken(
	ctx context.Context,
	raw string,
) (*middleware.AccessTokenClaims, error) {
	return s.verifyToken(ctx, raw, TokenTypeAccess)
}

func (s *Service) VerifyRefreshToken(
	ctx context.Context,
	raw string,
) (*middleware.AccessTokenClaims, error) {
	return s.verifyToken(ctx, raw, TokenTypeRefresh)
}

// Refresh mints a new access token for the refresh token's subject. The
// refresh token itself is not rotated.
func (s *Service) Refresh(ctx context.Context, refreshRaw string) (*SessionTokens, error) {
	identity, err := s.VerifyRefreshToken(ctx, refreshRaw)
	if err != nil {
		return nil, err
	}

	accessToken, accessExp, err := s.jwt.CreateAccessToken(identity.Username)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &SessionTokens{
		AccessToken: accessToken,
		ExpiresAt:   accessExp,
	}, nil
}

// Logout blacklists the presented access token. Revoking is permanent for
// the token's remaining lifetime; a token that has already expired needs no
// blacklist row because expiry alone fails verification.
func (s *Service) Logout(ctx context.Context, raw string) error {
	claims, err := s.jwt.ParseToken(raw, TokenTypeAccess)
	if err != nil {
		return err
	}

	if time.Until(claims.ExpiresAt) <= 0 {
		return nil
	}

	entry := &BlacklistEntry{
		ID:        uuid.New().String(),
		TokenHash: core.HashToken(raw),
		ExpiresAt: claims.ExpiresAt,
	}

	if err := s.repo.Revoke(ctx, entry); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	return nil
}

// PruneExpiredBlacklist removes blacklist rows for tokens past their natural
// expiry. Called from a background ticker; correctness never depends on it.
func (s *Service) PruneExpiredBlacklist(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx)
}

var _ middleware.TokenVerifier = (*Service)(nil)
