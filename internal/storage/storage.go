package storage

import (
	"context"
	"errors"

	"github.com/isdelr/event-graph-be/internal/models"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidID    = errors.New("invalid id")
)

// EventStore persists event documents.
type EventStore interface {
	SaveEvent(ctx context.Context, event models.Event) (models.Event, error)
	// Events returns every event in the store's natural order.
	Events(ctx context.Context) ([]models.Event, error)
	// EventsByIDs returns the events in the order of ids, skipping unknown ones.
	EventsByIDs(ctx context.Context, ids []string) ([]models.Event, error)
}

// UserStore persists user documents and their createdEvents back-references.
type UserStore interface {
	SaveUser(ctx context.Context, email, passwordHash string) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id string) (models.User, error)
	// AddCreatedEvent appends eventID to the user's createdEvents unless it is
	// already present.
	AddCreatedEvent(ctx context.Context, userID, eventID string) error
}

// Store is a complete record store backend.
type Store interface {
	EventStore
	UserStore
}

// OrderByIDs arranges events in the order of ids. Unknown ids are skipped.
func OrderByIDs(events []models.Event, ids []string) []models.Event {
	byID := make(map[string]models.Event, len(events))
	for _, event := range events {
		byID[event.ID] = event
	}

	ordered := make([]models.Event, 0, len(ids))
	for _, id := range ids {
		if event, ok := byID[id]; ok {
			ordered = append(ordered, event)
		}
	}
	return ordered
}
