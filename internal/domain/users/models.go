package users

import "time"

const (
	ActionActivate   = "activate"
	ActionDeactivate = "deactivate"

	CacheKey = "users_cache"
)

type Profile struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	FullName           string     `json:"full_name"`
	Role               string     `json:"role"`
	IsActive           bool       `json:"is_active"`
	MustChangePassword bool       `json:"must_change_password"`
	LastSignInAt       *time.Time `json:"last_sign_in_at"`
	CreatedAt          time.Time  `json:"created_at"`
}

// ResetResult is returned once to the admin; the password is not stored in clear.
type ResetResult struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	FullName          string `json:"full_name"`
	TemporaryPassword string `json:"temporary_password"`
}
