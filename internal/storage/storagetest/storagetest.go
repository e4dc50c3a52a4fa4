// Package storagetest holds behaviour every storage.Store backend must share.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/isdelr/event-graph-be/internal/models"
	"github.com/isdelr/event-graph-be/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// UnknownID is well formed for every backend and never assigned.
const UnknownID = "000000000000000000000000"

// Run exercises store. newStore must return an empty store each call.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("events", func(t *testing.T) { testEvents(t, newStore(t)) })
	t.Run("created events", func(t *testing.T) { testCreatedEvents(t, newStore(t)) })
}

func testUsers(t *testing.T, store storage.Store) {
	ctx := context.Background()

	saved, err := store.SaveUser(ctx, "a@b.com", "hash")
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "a@b.com", saved.Email)
	assert.Empty(t, saved.CreatedEvents)

	byEmail, err := store.UserByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := store.UserByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", byID.Email)

	_, err = store.SaveUser(ctx, "a@b.com", "other")
	assert.ErrorIs(t, err, storage.ErrUserExists)

	_, err = store.UserByEmail(ctx, "nobody@b.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	_, err = store.UserByID(ctx, UnknownID)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	_, err = store.UserByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func testEvents(t *testing.T, store storage.Store) {
	ctx := context.Background()

	creator, err := store.SaveUser(ctx, "creator@b.com", "hash")
	require.NoError(t, err)

	events, err := store.Events(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)

	date := time.Date(2024, 1, 1, 18, 30, 0, 250*int(time.Millisecond), time.UTC)
	first, err := store.SaveEvent(ctx, models.Event{
		Title: "Talk", Description: "D", Price: 9.99, Date: date, CreatorID: creator.ID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "Talk", first.Title)
	assert.Equal(t, 9.99, first.Price)
	assert.True(t, date.Equal(first.Date))
	assert.Equal(t, creator.ID, first.CreatorID)

	second, err := store.SaveEvent(ctx, models.Event{
		Title: "Workshop", Description: "W", Price: 0, Date: date.Add(24 * time.Hour), CreatorID: creator.ID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	events, err = store.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, first.ID, events[0].ID)
	assert.True(t, date.Equal(events[0].Date))
	assert.Equal(t, "D", events[0].Description)

	ordered, err := store.EventsByIDs(ctx, []string{second.ID, UnknownID, first.ID})
	require.NoError(t, err)
	require.Len(t, ordered, 2)
	assert.Equal(t, second.ID, ordered[0].ID)
	assert.Equal(t, first.ID, ordered[1].ID)

	none, err := store.EventsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testCreatedEvents(t *testing.T, store storage.Store) {
	ctx := context.Background()

	user, err := store.SaveUser(ctx, "owner@b.com", "hash")
	require.NoError(t, err)

	var ids []string
	for _, title := range []string{"one", "two"} {
		event, err := store.SaveEvent(ctx, models.Event{Title: title, Date: time.Now(), CreatorID: user.ID})
		require.NoError(t, err)
		ids = append(ids, event.ID)
	}

	require.NoError(t, store.AddCreatedEvent(ctx, user.ID, ids[0]))
	require.NoError(t, store.AddCreatedEvent(ctx, user.ID, ids[1]))
	require.NoError(t, store.AddCreatedEvent(ctx, user.ID, ids[0]))

	reloaded, err := store.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, ids, reloaded.CreatedEvents)

	err = store.AddCreatedEvent(ctx, UnknownID, ids[0])
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}
