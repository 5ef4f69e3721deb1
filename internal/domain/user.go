package domain

import "time"

type UserRole string

const (
	UserRoleMember    UserRole = "member"
	UserRoleOrganizer UserRole = "organizer"
)

type User struct {
	ID           int32      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        string     `json:"phone,omitempty"`
	Role         UserRole   `json:"role"`
	IsBlocked    bool       `json:"is_blocked"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	LoginCount   int32      `json:"login_count"`
	CreatedOn    time.Time  `json:"created_on"`
	UpdatedOn    time.Time  `json:"updated_on"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserSummary is the applicant identity attached to participant listings.
// It deliberately excludes the credential hash and block state.
type UserSummary struct {
	ID        int32  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
}
