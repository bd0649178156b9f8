package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrConceptNotFound    = errors.New("concept not found")
	ErrScoreOutOfRange    = errors.New("score must be between 0 and 100")
	ErrMasteryOutOfRange  = errors.New("mastery must be between 0 and 100")
	ErrConflict           = errors.New("concurrent update conflict, please retry")
)
