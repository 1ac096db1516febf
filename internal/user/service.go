// bytesByHarsh | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bytesByHarsh/go-backend-template/internal/auth"
	"github.com/bytesByHarsh/go-backend-template/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new user. Each unique field is pre-checked so the
// conflict answer names the offending field; the database constraints remain
// the real guard against concurrent registrations.
func (s *Service) Register(
	ctx context.Context,
	req *CreateUserRequest,
) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	if exists, err := s.repo.ExistsByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	} else if exists {
		return nil, core.DuplicateValueError("Email is already registered")
	}

	if exists, err := s.repo.ExistsByUsername(ctx, username); err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	} else if exists {
		return nil, core.DuplicateValueError("Username not available")
	}

	if exists, err := s.repo.ExistsByEmpID(ctx, req.EmpID); err != nil {
		return nil, fmt.Errorf("check emp_id: %w", err)
	} else if exists {
		return nil, core.DuplicateValueError("emp_id is already registered")
	}

	hashedPassword, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = RoleUser
	}

	user := &User{
		ID:              uuid.New().String(),
		Username:        username,
		Email:           email,
		EmpID:           req.EmpID,
		Name:            req.Name,
		ProfileImageURL: req.ProfileImageURL,
		Role:            role,
		HashedPassword:  hashedPassword,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		var dup *ErrDuplicateField
		if errors.As(err, &dup) {
			return nil, duplicateMessage(dup.Field)
		}
		return nil, err
	}

	return user, nil
}

func duplicateMessage(field string) *core.AppError {
	switch field {
	case "email":
		return core.DuplicateValueError("Email is already registered")
	case "username":
		return core.DuplicateValueError("Username not available")
	case "emp_id":
		return core.DuplicateValueError("emp_id is already registered")
	default:
		return core.DuplicateValueError("Value is already registered")
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUsernameUser(
	ctx context.Context,
	username string,
) (*User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// UpdateProfile applies the mutable profile fields. Role changes go through
// UpdateRole so the admin-only path stays separate.
func (s *Service) UpdateProfile(
	ctx context.Context,
	id string,
	req *UpdateUserRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.ProfileImageURL != nil {
		user.ProfileImageURL = *req.ProfileImageURL
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) UpdateRole(
	ctx context.Context,
	id, role string,
) (*User, error) {
	if !ValidRole(role) {
		return nil, core.ValidationError("invalid role")
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Delete soft-deletes the user. The row keeps its unique values, but every
// lookup and uniqueness check excludes deleted rows, so the identifiers
// become reusable immediately.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

// GetByUsername, GetByEmail and UpdatePassword satisfy the identity shape the
// auth package authenticates against.
func (s *Service) GetByUsername(
	ctx context.Context,
	username string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, hashedPassword string,
) error {
	return s.repo.UpdatePassword(ctx, userID, hashedPassword)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		EmpID:          u.EmpID,
		Name:           u.Name,
		Role:           u.Role,
		HashedPassword: u.HashedPassword,
	}
}

var _ auth.UserProvider = (*Service)(nil)
