package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrNotFound          = errors.New("not found")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrAlreadyExists     = errors.New("already exists")
	ErrAlreadyMember     = errors.New("already a member")
	ErrAlreadyModerator  = errors.New("already a moderator")
	ErrNotAParticipant   = errors.New("not a participant")
	ErrNotAModerator     = errors.New("not a moderator")
	ErrMustTransferAdmin = errors.New("admin must transfer role before leaving")
	ErrConflict          = errors.New("conflicting concurrent update")
	ErrRateLimited       = errors.New("too many messages")
)

// Status maps a service error to an HTTP status code. Unrecognized errors
// are treated as internal failures.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, ErrAlreadyExists),
		errors.Is(err, ErrAlreadyMember),
		errors.Is(err, ErrAlreadyModerator),
		errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, ErrNotAParticipant),
		errors.Is(err, ErrNotAModerator),
		errors.Is(err, ErrMustTransferAdmin):
		return fiber.StatusPreconditionFailed
	case errors.Is(err, ErrRateLimited):
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}
