package services

import (
	"errors"
	"fmt"

	"artSparkAPI/internal/store"
)

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrResourceExhausted = errors.New("resource exhausted")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInternal          = errors.New("internal error")
)

// translate maps storage sentinels onto the service taxonomy and wraps
// anything unexpected as ErrInternal.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, store.ErrAttemptCapReached):
		return fmt.Errorf("%w: %s", ErrResourceExhausted, err.Error())
	case errors.Is(err, store.ErrAlreadySubmitted):
		return fmt.Errorf("%w: %s", ErrAlreadyExists, err.Error())
	default:
		return fmt.Errorf("%w: %s: %v", ErrInternal, what, err)
	}
}

func requireUser(uid string) error {
	if uid == "" {
		return fmt.Errorf("%w: sign in required", ErrUnauthenticated)
	}
	return nil
}
