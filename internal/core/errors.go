package core

import (
	"errors"
	"fmt"
)

var (
	ErrNoAmount      = errors.New("message contains no amount")
	ErrInvalidAmount = errors.New("amount is not a number")
)

// ParseError reports a message that could not be turned into an intent.
// A failed parse never produces a partial transaction.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %v", e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
