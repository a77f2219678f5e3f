package services

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Business-rule sentinels. Every engine operation returns one of these (or a
// wrapped storage error); handlers translate them to HTTP statuses. Races lost
// on unique indexes are mapped to the same sentinel a pre-check would produce.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailAlreadyUsed    = errors.New("email already registered")
	ErrMissingFields       = errors.New("all fields are required")
	ErrNegativeAmount      = errors.New("amount must not be negative")
	ErrInsufficientFunds   = errors.New("insufficient coins")
	ErrContestNotFound     = errors.New("contest not found")
	ErrInvalidContest      = errors.New("invalid contest")
	ErrContestClosed       = errors.New("contest is closed")
	ErrContestNotOpenYet   = errors.New("contest has not started yet")
	ErrContestExpired      = errors.New("contest has ended")
	ErrContestFull         = errors.New("contest is full")
	ErrContestNotActive    = errors.New("contest is not active")
	ErrDuplicateSubmission = errors.New("photo already submitted to this contest")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrInvalidStatus       = errors.New("invalid submission status")
	ErrPhotoNotFound       = errors.New("photo not found")
	ErrNotPhotoOwner       = errors.New("not the photo owner")
	ErrPhotoNotInContest   = errors.New("photo is not part of this contest")
	ErrPhotoNotApproved    = errors.New("photo is not approved for voting")
	ErrSelfVoteForbidden   = errors.New("cannot vote on your own photo")
	ErrDuplicateVote       = errors.New("already voted for this photo")
)

func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrContestNotFound),
		errors.Is(err, ErrSubmissionNotFound),
		errors.Is(err, ErrPhotoNotFound),
		errors.Is(err, ErrPhotoNotInContest):
		return fiber.StatusNotFound
	case errors.Is(err, ErrEmailAlreadyUsed),
		errors.Is(err, ErrDuplicateSubmission),
		errors.Is(err, ErrDuplicateVote):
		return fiber.StatusConflict
	case errors.Is(err, ErrInsufficientFunds):
		return fiber.StatusPaymentRequired
	case errors.Is(err, ErrContestClosed),
		errors.Is(err, ErrContestNotOpenYet),
		errors.Is(err, ErrContestExpired),
		errors.Is(err, ErrContestFull),
		errors.Is(err, ErrContestNotActive),
		errors.Is(err, ErrPhotoNotApproved),
		errors.Is(err, ErrSelfVoteForbidden),
		errors.Is(err, ErrNotPhotoOwner):
		return fiber.StatusForbidden
	case errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrNegativeAmount),
		errors.Is(err, ErrInvalidContest),
		errors.Is(err, ErrInvalidStatus):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// errorJSON writes the standard error envelope for a failed engine call.
func errorJSON(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
}
