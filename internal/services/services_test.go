package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/isdelr/event-graph-be/internal/database"
	"github.com/isdelr/event-graph-be/internal/models"
	"github.com/isdelr/event-graph-be/internal/storage"
	"github.com/isdelr/event-graph-be/internal/storage/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestStore(t *testing.T) (storage.Store, *sql.DB) {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.MigrateSQLite(context.Background(), db))
	return sqlite.New(db), db
}

func newTestUserService(users storage.UserStore) *UserService {
	svc := NewUserService(users)
	svc.cost = bcrypt.MinCost
	return svc
}

// faultyStore fails selected operations and delegates the rest.
type faultyStore struct {
	storage.Store
	saveEventErr   error
	saveUserErr    error
	userByEmailErr error
	userByIDErr    error
	addCreatedErr  error
	eventsErr      error
}

func (f *faultyStore) SaveEvent(ctx context.Context, event models.Event) (models.Event, error) {
	if f.saveEventErr != nil {
		return models.Event{}, f.saveEventErr
	}
	return f.Store.SaveEvent(ctx, event)
}

func (f *faultyStore) SaveUser(ctx context.Context, email, hash string) (models.User, error) {
	if f.saveUserErr != nil {
		return models.User{}, f.saveUserErr
	}
	return f.Store.SaveUser(ctx, email, hash)
}

func (f *faultyStore) UserByEmail(ctx context.Context, email string) (models.User, error) {
	if f.userByEmailErr != nil {
		return models.User{}, f.userByEmailErr
	}
	return f.Store.UserByEmail(ctx, email)
}

func (f *faultyStore) UserByID(ctx context.Context, id string) (models.User, error) {
	if f.userByIDErr != nil {
		return models.User{}, f.userByIDErr
	}
	return f.Store.UserByID(ctx, id)
}

func (f *faultyStore) AddCreatedEvent(ctx context.Context, userID, eventID string) error {
	if f.addCreatedErr != nil {
		return f.addCreatedErr
	}
	return f.Store.AddCreatedEvent(ctx, userID, eventID)
}

func (f *faultyStore) Events(ctx context.Context) ([]models.Event, error) {
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return f.Store.Events(ctx)
}
