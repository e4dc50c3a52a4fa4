package graph

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/isdelr/event-graph-be/internal/models"
	"github.com/isdelr/event-graph-be/internal/services"
	"github.com/isdelr/event-graph-be/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEventService struct {
	mock.Mock
}

func (m *mockEventService) CreateEvent(ctx context.Context, input models.EventInput) (models.Event, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(models.Event), args.Error(1)
}

func (m *mockEventService) GetEvents(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	events, _ := args.Get(0).([]models.Event)
	return events, args.Error(1)
}

func (m *mockEventService) GetEventsByIDs(ctx context.Context, ids []string) ([]models.Event, error) {
	args := m.Called(ctx, ids)
	events, _ := args.Get(0).([]models.Event)
	return events, args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) CreateUser(ctx context.Context, input models.UserInput) (models.User, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func codeOf(t *testing.T, err error) string {
	t.Helper()

	var rErr *resolverError
	require.ErrorAs(t, err, &rErr)
	return rErr.Extensions()["code"].(string)
}

func TestToGraphQLError(t *testing.T) {
	storeErr := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		code string
	}{
		{"validation", fmt.Errorf("%w: title is required", services.ErrValidation), CodeValidationFailed},
		{"unauthenticated", services.ErrUnauthenticated, CodeUnauthenticated},
		{"creator not found", services.ErrCreatorNotFound, CodeCreatorNotFound},
		{"duplicate email", services.ErrDuplicateEmail, CodeDuplicateEmail},
		{"persistence", fmt.Errorf("op: %w: %w", services.ErrPersistence, storeErr), CodePersistenceFailed},
		{"unknown", storeErr, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := toGraphQLError(tt.err)
			assert.Equal(t, tt.code, codeOf(t, err))
			assert.ErrorIs(t, err, tt.err)
		})
	}

	assert.NoError(t, toGraphQLError(nil))
}

func TestToGraphQLError_HidesStoreDetails(t *testing.T) {
	err := toGraphQLError(fmt.Errorf("op: %w: %w", services.ErrPersistence, errors.New("dial tcp 10.0.0.7:27017")))
	assert.NotContains(t, err.Error(), "10.0.0.7")
}

func TestResolver_CreateEvent_BackReferenceFailure(t *testing.T) {
	event := models.Event{ID: "evt-1", Title: "Talk", CreatorID: "user-1"}
	events := &mockEventService{}
	events.On("CreateEvent", mock.Anything, mock.AnythingOfType("models.EventInput")).
		Return(event, &services.BackReferenceError{Event: event, Err: errors.New("write conflict")})

	r := NewResolver(events, &mockUserService{})
	res, err := r.CreateEvent(context.Background(), eventInputArgs{})

	assert.Nil(t, res)
	assert.Equal(t, CodeBackReferenceFailed, codeOf(t, err))
	assert.ErrorIs(t, err, services.ErrBackReference)

	var rErr *resolverError
	require.ErrorAs(t, err, &rErr)
	assert.Equal(t, "evt-1", rErr.Extensions()["eventId"])
	events.AssertExpectations(t)
}

func TestResolver_Events_PersistenceFailure(t *testing.T) {
	events := &mockEventService{}
	events.On("GetEvents", mock.Anything).
		Return(nil, fmt.Errorf("services.GetEvents: %w: %w", services.ErrPersistence, errors.New("timeout")))

	res, err := NewResolver(events, &mockUserService{}).Events(context.Background())

	assert.Nil(t, res)
	assert.Equal(t, CodePersistenceFailed, codeOf(t, err))
	events.AssertExpectations(t)
}

func TestEventResolver_Creator_Missing(t *testing.T) {
	users := &mockUserService{}
	users.On("GetUserByID", mock.Anything, "ghost").
		Return(models.User{}, fmt.Errorf("services.GetUserByID: %w", storage.ErrUserNotFound))

	e := &eventResolver{root: NewResolver(&mockEventService{}, users), event: models.Event{ID: "evt-1", CreatorID: "ghost"}}
	res, err := e.Creator(context.Background())

	assert.Nil(t, res)
	assert.Equal(t, CodeNotFound, codeOf(t, err))
	users.AssertExpectations(t)
}

func TestUserResolver_PasswordAlwaysNull(t *testing.T) {
	u := &userResolver{user: models.User{ID: "u1", Email: "a@b.co", PasswordHash: "$2a$12$hash"}}
	assert.Nil(t, u.Password())
}
