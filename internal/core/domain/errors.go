package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidView        = errors.New("unknown view")
)
