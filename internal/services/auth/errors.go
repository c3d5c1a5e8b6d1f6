package auth

import "errors"

// Service errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrWeakPassword       = errors.New("password must be at least 8 characters and contain a special character")
	ErrUserNotFound       = errors.New("user not found")
)
