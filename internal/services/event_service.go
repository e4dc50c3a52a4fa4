package services

import (
	"context"
	"errors"
	"strings"

	"github.com/isdelr/event-graph-be/internal/auth"
	"github.com/isdelr/event-graph-be/internal/models"
	"github.com/isdelr/event-graph-be/internal/storage"
	"github.com/rs/zerolog/log"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(ctx context.Context, input models.EventInput) (models.Event, error)
	GetEvents(ctx context.Context) ([]models.Event, error)
	GetEventsByIDs(ctx context.Context, ids []string) ([]models.Event, error)
}

// EventNotifier is told about every event that reached the store.
type EventNotifier interface {
	EventCreated(event models.Event)
}

// EventService provides business logic for event management.
type EventService struct {
	events   storage.EventStore
	users    storage.UserStore
	notifier EventNotifier
}

// NewEventService creates a new EventService. notifier may be nil.
func NewEventService(events storage.EventStore, users storage.UserStore, notifier EventNotifier) *EventService {
	return &EventService{events: events, users: users, notifier: notifier}
}

// CreateEvent saves an event on behalf of the caller in ctx and links it into
// the caller's createdEvents.
//
// The two writes are not atomic. When the link fails the event stays stored
// and a *BackReferenceError carrying it is returned.
func (s *EventService) CreateEvent(ctx context.Context, input models.EventInput) (models.Event, error) {
	const op = "services.CreateEvent"

	if err := validateInput(input); err != nil {
		return models.Event{}, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return models.Event{}, validationError("title is required")
	}
	date, err := ParseEventDate(input.Date)
	if err != nil {
		return models.Event{}, err
	}

	principal, ok := auth.PrincipalFrom(ctx)
	if !ok {
		return models.Event{}, ErrUnauthenticated
	}

	creator, err := s.users.UserByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn().Str("user_id", principal.UserID).Msg("Event creator has no user record")
			return models.Event{}, ErrCreatorNotFound
		}
		log.Error().Err(err).Str("user_id", principal.UserID).Msg("Failed to look up event creator")
		return models.Event{}, persistenceError(op, err)
	}

	event, err := s.events.SaveEvent(ctx, models.Event{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Date:        date,
		CreatorID:   creator.ID,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", creator.ID).Msg("Failed to save event")
		return models.Event{}, persistenceError(op, err)
	}

	if s.notifier != nil {
		s.notifier.EventCreated(event)
	}

	if err := s.users.AddCreatedEvent(ctx, creator.ID, event.ID); err != nil {
		log.Error().Err(err).
			Str("event_id", event.ID).
			Str("user_id", creator.ID).
			Msg("Event saved but createdEvents not updated")
		return event, &BackReferenceError{Event: event, Err: err}
	}

	log.Info().Str("event_id", event.ID).Str("user_id", creator.ID).Msg("Event created")
	return event, nil
}

// GetEvents returns every stored event.
func (s *EventService) GetEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.events.Events(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve events")
		return nil, persistenceError("services.GetEvents", err)
	}
	return events, nil
}

// GetEventsByIDs returns the events named by ids, in that order.
func (s *EventService) GetEventsByIDs(ctx context.Context, ids []string) ([]models.Event, error) {
	events, err := s.events.EventsByIDs(ctx, ids)
	if err != nil {
		return nil, persistenceError("services.GetEventsByIDs", err)
	}
	return events, nil
}
