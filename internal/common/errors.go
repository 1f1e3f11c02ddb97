package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal          = errors.New("internal error")
	ErrorUnauthorized      = errors.New("unauthorized")
	ErrorValidation        = errors.New("validation error")
	ErrorIncorrectPassword = errors.New("incorrect password")
	ErrorPasswordsMismatch = errors.New("passwords don't match")
	ErrorUpstream          = errors.New("upstream provider error")

	// Token errors. Each one maps to its own 401 message.
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")
	ErrInvalidToken  = errors.New("invalid token")

	// Inference errors.
	ErrorModelNotFound = errors.New("model not found")
	ErrorInvalidImage  = errors.New("invalid image")
)
