package handlers

import (
	"errors"

	"github.com/pocketbase/pocketbase/apis"

	"waitlist-system/internal/status"
)

// toAPIError maps ledger error kinds onto HTTP responses. Validation
// failures are the caller's to fix; only a store failure is a 5xx.
func toAPIError(err error) error {
	switch {
	case errors.Is(err, status.ErrGuestNotFound):
		return apis.NewNotFoundError("Guest not found", err)
	case errors.Is(err, status.ErrRegistrationClosed):
		return apis.NewBadRequestError("Registration is currently closed", err)
	case errors.Is(err, status.ErrInvalidPartySize):
		return apis.NewBadRequestError("Party must include at least one adult", err)
	case errors.Is(err, status.ErrInvalidSeatPreference):
		return apis.NewBadRequestError("Unknown seat preference", err)
	case errors.Is(err, status.ErrInvalidTransition):
		return apis.NewBadRequestError("Guest is not in a state that allows this", err)
	case errors.Is(err, status.ErrInvalidCancelToken):
		return apis.NewUnauthorizedError("Cancel token mismatch", err)
	case errors.Is(err, status.ErrPersistenceUnavailable):
		return apis.NewApiError(503, "Waitlist storage unavailable", err)
	default:
		return apis.NewBadRequestError("Request failed", err)
	}
}
