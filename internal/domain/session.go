package domain

import "time"

// Session is the single persisted refresh token for a user. Issuing a new
// token pair replaces the row, so at most one refresh token is live per
// account at any time.
type Session struct {
	UserID    int32     `json:"user_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedOn time.Time `json:"created_on"`
}

func (s *Session) IsExpired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
