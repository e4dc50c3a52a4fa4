package monitoring

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/isdelr/event-graph-be/internal/metrics"
	"github.com/isdelr/event-graph-be/internal/storage"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const runTimeout = 2 * time.Minute

// Reconciler restores createdEvents entries that a failed second write of
// CreateEvent left out. Every stored event is checked against its creator's
// list on each run.
type Reconciler struct {
	store storage.Store
	cron  *cron.Cron

	// startup pass launched by Run
	initial sync.WaitGroup
}

// NewReconciler creates a reconciler firing on spec, a standard cron
// expression or descriptor such as "@every 5m".
func NewReconciler(store storage.Store, spec string) (*Reconciler, error) {
	r := &Reconciler{store: store, cron: cron.New()}

	if _, err := r.cron.AddFunc(spec, r.runOnce); err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", spec, err)
	}
	return r, nil
}

// Run starts the schedule. It returns immediately.
func (r *Reconciler) Run() {
	log.Info().Msg("Starting back-reference reconciler")

	// Run once immediately on start
	r.initial.Add(1)
	go func() {
		defer r.initial.Done()
		r.runOnce()
	}()
	r.cron.Start()
}

// Stop halts the schedule and waits for running passes, including the one
// started by Run, to finish.
func (r *Reconciler) Stop() {
	<-r.cron.Stop().Done()
	r.initial.Wait()
	log.Info().Msg("Stopped back-reference reconciler")
}

func (r *Reconciler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	repaired, err := r.Reconcile(ctx)
	if err != nil {
		log.Error().Err(err).Int("repaired", repaired).Msg("Back-reference reconciliation failed")
		return
	}
	if repaired > 0 {
		log.Info().Int("repaired", repaired).Msg("Restored missing createdEvents entries")
	}
}

// Reconcile links every event missing from its creator's createdEvents and
// reports how many links it added. Events whose creator no longer exists are
// skipped.
func (r *Reconciler) Reconcile(ctx context.Context) (int, error) {
	events, err := r.store.Events(ctx)
	if err != nil {
		return 0, fmt.Errorf("list events: %w", err)
	}

	// creator id -> event ids, in store order
	byCreator := make(map[string][]string)
	var creators []string
	for _, event := range events {
		if _, seen := byCreator[event.CreatorID]; !seen {
			creators = append(creators, event.CreatorID)
		}
		byCreator[event.CreatorID] = append(byCreator[event.CreatorID], event.ID)
	}

	repaired := 0
	for _, creatorID := range creators {
		user, err := r.store.UserByID(ctx, creatorID)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				log.Warn().Str("user_id", creatorID).Msg("Events reference a missing creator")
				continue
			}
			return repaired, fmt.Errorf("load user %s: %w", creatorID, err)
		}

		for _, eventID := range byCreator[creatorID] {
			if slices.Contains(user.CreatedEvents, eventID) {
				continue
			}
			if err := r.store.AddCreatedEvent(ctx, creatorID, eventID); err != nil {
				return repaired, fmt.Errorf("link event %s to user %s: %w", eventID, creatorID, err)
			}
			repaired++
			metrics.BackReferenceRepairs.Inc()
		}
	}
	return repaired, nil
}
