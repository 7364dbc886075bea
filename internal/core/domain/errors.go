package domain

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("access forbidden")
	ErrAccountNotFound      = errors.New("user not found")
	ErrAccountExists        = errors.New("email already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrIncorrectOldPassword = errors.New("old password is incorrect")
	ErrTokenExpired         = errors.New("token expired")
	ErrTokenInvalid         = errors.New("invalid token")
)
