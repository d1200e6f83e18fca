package status

import "errors"

var (
	ErrRegistrationClosed     = errors.New("waitlist: registration is closed")
	ErrInvalidPartySize       = errors.New("waitlist: party must have at least one adult")
	ErrInvalidSeatPreference  = errors.New("waitlist: unknown seat preference")
	ErrGuestNotFound          = errors.New("waitlist: guest not found in active queue")
	ErrInvalidTransition      = errors.New("waitlist: status transition not allowed")
	ErrInvalidCancelToken     = errors.New("waitlist: cancel token mismatch")
	ErrPersistenceUnavailable = errors.New("waitlist: state store unavailable")
)
