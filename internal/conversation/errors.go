package conversation

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrQueueFull       = errors.New("task queue full")
	ErrUnknownTopic    = errors.New("unknown topic")
	ErrManagerStopped  = errors.New("conversation manager stopped")
)

// ValidationError rejects an upload before anything is appended.
type ValidationError struct {
	Reason   string
	TooLarge bool
}

func (e *ValidationError) Error() string { return e.Reason }
