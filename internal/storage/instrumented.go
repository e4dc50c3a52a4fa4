package storage

import (
	"context"
	"errors"
	"time"

	"github.com/isdelr/event-graph-be/internal/metrics"
	"github.com/isdelr/event-graph-be/internal/models"
)

type instrumented struct {
	next    Store
	backend string
}

// Instrument wraps a store so every call records latency and failures under
// the given backend label.
func Instrument(next Store, backend string) Store {
	return &instrumented{next: next, backend: backend}
}

func (s *instrumented) observe(op string, start time.Time, err error) {
	metrics.StoreOperationDuration.WithLabelValues(s.backend, op).Observe(time.Since(start).Seconds())
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		metrics.StoreErrors.WithLabelValues(s.backend, op).Inc()
	}
}

func (s *instrumented) SaveEvent(ctx context.Context, event models.Event) (saved models.Event, err error) {
	defer func(start time.Time) { s.observe("save_event", start, err) }(time.Now())
	return s.next.SaveEvent(ctx, event)
}

func (s *instrumented) Events(ctx context.Context) (events []models.Event, err error) {
	defer func(start time.Time) { s.observe("events", start, err) }(time.Now())
	return s.next.Events(ctx)
}

func (s *instrumented) EventsByIDs(ctx context.Context, ids []string) (events []models.Event, err error) {
	defer func(start time.Time) { s.observe("events_by_ids", start, err) }(time.Now())
	return s.next.EventsByIDs(ctx, ids)
}

func (s *instrumented) SaveUser(ctx context.Context, email, passwordHash string) (user models.User, err error) {
	defer func(start time.Time) { s.observe("save_user", start, err) }(time.Now())
	return s.next.SaveUser(ctx, email, passwordHash)
}

func (s *instrumented) UserByEmail(ctx context.Context, email string) (user models.User, err error) {
	defer func(start time.Time) { s.observe("user_by_email", start, err) }(time.Now())
	return s.next.UserByEmail(ctx, email)
}

func (s *instrumented) UserByID(ctx context.Context, id string) (user models.User, err error) {
	defer func(start time.Time) { s.observe("user_by_id", start, err) }(time.Now())
	return s.next.UserByID(ctx, id)
}

func (s *instrumented) AddCreatedEvent(ctx context.Context, userID, eventID string) (err error) {
	defer func(start time.Time) { s.observe("add_created_event", start, err) }(time.Now())
	return s.next.AddCreatedEvent(ctx, userID, eventID)
}
