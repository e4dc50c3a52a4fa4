package graph

import (
	"errors"

	"github.com/isdelr/event-graph-be/internal/services"
)

// Codes reported in the "extensions" of a GraphQL error.
const (
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeCreatorNotFound     = "CREATOR_NOT_FOUND"
	CodeDuplicateEmail      = "DUPLICATE_EMAIL"
	CodePersistenceFailed   = "PERSISTENCE_FAILED"
	CodeBackReferenceFailed = "BACK_REFERENCE_FAILED"
	CodeNotFound            = "NOT_FOUND"
	CodeInternal            = "INTERNAL"
)

// resolverError carries a machine readable code to the client.
type resolverError struct {
	err        error
	message    string
	extensions map[string]interface{}
}

func (e *resolverError) Error() string { return e.message }

func (e *resolverError) Unwrap() error { return e.err }

func (e *resolverError) Extensions() map[string]interface{} { return e.extensions }

// toGraphQLError classifies a service error. Store details stay in the logs.
func toGraphQLError(err error) error {
	if err == nil {
		return nil
	}

	code, message := CodeInternal, "internal error"
	extensions := map[string]interface{}{}

	var brErr *services.BackReferenceError
	switch {
	case errors.As(err, &brErr):
		code, message = CodeBackReferenceFailed, "event was saved but could not be linked to its creator"
		extensions["eventId"] = brErr.Event.ID
	case errors.Is(err, services.ErrValidation):
		code, message = CodeValidationFailed, err.Error()
	case errors.Is(err, services.ErrUnauthenticated):
		code, message = CodeUnauthenticated, "authentication required"
	case errors.Is(err, services.ErrCreatorNotFound):
		code, message = CodeCreatorNotFound, "authenticated user does not exist"
	case errors.Is(err, services.ErrDuplicateEmail):
		code, message = CodeDuplicateEmail, services.ErrDuplicateEmail.Error()
	case errors.Is(err, services.ErrPersistence):
		code, message = CodePersistenceFailed, "record store unavailable"
	}

	extensions["code"] = code
	return &resolverError{err: err, message: message, extensions: extensions}
}
