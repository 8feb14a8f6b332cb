package auth

import "time"

type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// Session rows reference a user when authenticated; anonymous sessions carry
// a NULL user and exist only so CSRF tokens can be issued before login.
type Session struct {
	ID        int64
	TokenHash string
	UserID    *int64
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}
