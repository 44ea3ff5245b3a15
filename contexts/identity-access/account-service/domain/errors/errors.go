package errors

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid account input")
	ErrAccountNotFound    = errors.New("account not found")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
