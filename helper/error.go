package helper

import "fmt"

// NewError wraps an error with the operation context in which it occurred.
func NewError(context string, err error) error {
	return fmt.Errorf("error in %s: %w", context, err)
}
