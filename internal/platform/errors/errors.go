package apperrors

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrNoSession        = errors.New("no session for activity")
	ErrSessionNotActive = errors.New("session is not active")
	ErrSessionNotPaused = errors.New("session is not paused")
	ErrSessionRunning   = errors.New("another session is already running")
	ErrNoCurrentSession = errors.New("no session is currently running")
	ErrInvalidPlan      = errors.New("invalid day plan")
	ErrInvalidState     = errors.New("invalid saved state")
)
