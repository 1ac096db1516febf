// bytesByHarsh | 2026
// dto.go

package user

import (
	"time"
)

type CreateUserRequest struct {
	Username        string `json:"username"          validate:"required,min=3,max=50"`
	Email           string `json:"email"             validate:"required,email,max=255"`
	EmpID           string `json:"emp_id"            validate:"required,max=50"`
	Password        string `json:"password"          validate:"required,min=8,max=128"`
	Name            string `json:"name"              validate:"required,min=1,max=100"`
	ProfileImageURL string `json:"profile_image_url" validate:"omitempty,url,max=2048"`
	Role            string `json:"user_role"         validate:"omitempty,oneof=user admin guest"`
}

type UpdateUserRequest struct {
	Name            *string `json:"name,omitempty"              validate:"omitempty,min=1,max=100"`
	ProfileImageURL *string `json:"profile_image_url,omitempty" validate:"omitempty,url,max=2048"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"user_role" validate:"required,oneof=user admin guest"`
}

type UserResponse struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	EmpID           string    `json:"emp_id"`
	Name            string    `json:"name"`
	ProfileImageURL string    `json:"profile_image_url"`
	Role            string    `json:"user_role"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Role     string `json:"user_role"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		EmpID:           u.EmpID,
		Name:            u.Name,
		ProfileImageURL: u.ProfileImageURL,
		Role:            u.Role,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}
