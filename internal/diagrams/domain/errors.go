package domain

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var ErrTitleTooLong = errors.New("title too long (max 100 chars)")

// ValidationError reports a rejected input field. It unwraps to the
// underlying sentinel so callers can use errors.Is.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ValidateTitle rejects titles longer than MaxTitleLength code points.
// A nil title is valid.
func ValidateTitle(title *string) error {
	if title == nil {
		return nil
	}
	if utf8.RuneCountInString(*title) > MaxTitleLength {
		return &ValidationError{Field: "title", Err: ErrTitleTooLong}
	}
	return nil
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
