package misc

import (
	"fmt"
	"time"
)

// TimedOutError Generic error for timeouts
type TimedOutError struct {
	msg   string
	after time.Duration
}

func (t *TimedOutError) Error() string {
	return fmt.Sprintf("%s after %s", t.msg, t.after)
}

func (t *TimedOutError) Is(e error) bool {
	_, ok := e.(*TimedOutError)
	return ok
}

func NewTimedOutError(msg string, after time.Duration) error {
	return &TimedOutError{msg, after}
}

// RetriesExhaustedError Generic error for bounded retry loops
type RetriesExhaustedError struct {
	op       string
	attempts int
}

func (r *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts", r.op, r.attempts)
}

func (r *RetriesExhaustedError) Is(e error) bool {
	_, ok := e.(*RetriesExhaustedError)
	return ok
}

func NewRetriesExhaustedError(op string, attempts int) error {
	return &RetriesExhaustedError{op, attempts}
}
