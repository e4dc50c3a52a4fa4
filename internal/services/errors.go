package services

import (
	"errors"
	"fmt"

	"github.com/isdelr/event-graph-be/internal/models"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrCreatorNotFound = errors.New("creator not found")
	ErrDuplicateEmail  = errors.New("User exists already")
	ErrPersistence     = errors.New("persistence failed")
	ErrBackReference   = errors.New("back-reference update failed")
)

// BackReferenceError reports an event that was saved while its creator's
// createdEvents list could not be updated.
type BackReferenceError struct {
	Event models.Event
	Err   error
}

func (e *BackReferenceError) Error() string {
	return fmt.Sprintf("event %s saved but not linked to user %s: %v", e.Event.ID, e.Event.CreatorID, e.Err)
}

func (e *BackReferenceError) Unwrap() []error {
	return []error{ErrBackReference, e.Err}
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
