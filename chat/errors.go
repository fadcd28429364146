package chat

import (
	"errors"
	"fmt"
)

// Domain errors. Handlers map these onto HTTP status codes with errors.Is;
// everything else is surfaced as ErrInternal with the cause kept out of the
// client-visible message.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")
)

// internal wraps an unexpected failure, passing domain errors through as-is.
func internal(err error) error {
	if err == nil {
		return nil
	}
	for _, domain := range []error{ErrUnauthorized, ErrNotFound, ErrBadRequest, ErrForbidden} {
		if errors.Is(err, domain) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
