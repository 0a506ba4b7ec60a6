package users

import "errors"

var (
	ErrNotFound         = errors.New("user not found")
	ErrInvalidAction    = errors.New("action must be activate or deactivate")
	ErrSelfDeactivation = errors.New("admins cannot deactivate their own account")
)
