package summarizer

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrAuthFailure     = errors.New("provider rejected credentials")
	ErrRateLimited     = errors.New("provider rate limit reached")
	ErrProvider        = errors.New("provider error")
	ErrUnknown         = errors.New("unknown completion error")
	ErrEmptyCompletion = errors.New("completion is empty")
)

// classifyStatus maps an API status code onto the failure taxonomy and keeps
// err as detail.
func classifyStatus(status int, err error) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrAuthFailure, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	default:
		return fmt.Errorf("%w (status = %d): %w", ErrProvider, status, err)
	}
}
