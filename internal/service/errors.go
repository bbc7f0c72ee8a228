package service

import (
	"errors"
	"fmt"
)

// ErrUnauthorized indicates the acting user is not allowed to touch the resource.
var ErrUnauthorized = errors.New("not authorized")

// ErrInvalidInput indicates a request failed validation.
var ErrInvalidInput = errors.New("invalid input")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
