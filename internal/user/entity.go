// bytesByHarsh | 2026
// entity.go

package user

import (
	"time"
)

// Timestamps and SoftDelete are explicit embedded record parts rather than
// inherited behavior; sqlx flattens them into the users row.
type Timestamps struct {
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type SoftDelete struct {
	IsDeleted bool       `db:"is_deleted"`
	DeletedAt *time.Time `db:"deleted_at"`
}

// User is the identity record. Username, email and emp_id are each unique
// among non-deleted users; rows are soft-deleted, never removed by normal
// flow.
type User struct {
	ID              string `db:"id"`
	Username        string `db:"username"`
	Email           string `db:"email"`
	EmpID           string `db:"emp_id"`
	Name            string `db:"name"`
	ProfileImageURL string `db:"profile_image_url"`
	Role            string `db:"user_role"`
	HashedPassword  string `db:"hashed_password"`

	Timestamps
	SoftDelete
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
	RoleGuest = "guest"
)

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin || role == RoleGuest
}
