package graph

import (
	"context"
	"errors"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/isdelr/event-graph-be/internal/metrics"
	"github.com/isdelr/event-graph-be/internal/models"
	"github.com/isdelr/event-graph-be/internal/services"
	"github.com/isdelr/event-graph-be/internal/storage"
)

// DateLayout is how event dates are rendered: UTC with millisecond precision.
const DateLayout = "2006-01-02T15:04:05.000Z"

// Resolver is the root of both RootQuery and RootMutation.
type Resolver struct {
	events services.EventServiceProvider
	users  services.UserServiceProvider
}

// NewResolver creates the root resolver.
func NewResolver(events services.EventServiceProvider, users services.UserServiceProvider) *Resolver {
	return &Resolver{events: events, users: users}
}

func observe(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.GraphQLOperations.WithLabelValues(operation, outcome).Inc()
}

func (r *Resolver) Events(ctx context.Context) ([]*eventResolver, error) {
	events, err := r.events.GetEvents(ctx)
	observe("events", err)
	if err != nil {
		return nil, toGraphQLError(err)
	}
	return r.eventResolvers(events), nil
}

type eventInputArgs struct {
	EventInput struct {
		Title       string
		Description string
		Price       float64
		Date        string
	}
}

func (r *Resolver) CreateEvent(ctx context.Context, args eventInputArgs) (*eventResolver, error) {
	event, err := r.events.CreateEvent(ctx, models.EventInput{
		Title:       args.EventInput.Title,
		Description: args.EventInput.Description,
		Price:       args.EventInput.Price,
		Date:        args.EventInput.Date,
	})
	observe("createEvent", err)
	if err != nil {
		return nil, toGraphQLError(err)
	}
	return &eventResolver{root: r, event: event}, nil
}

type userInputArgs struct {
	UserInput struct {
		Email    string
		Password string
	}
}

func (r *Resolver) CreateUser(ctx context.Context, args userInputArgs) (*userResolver, error) {
	user, err := r.users.CreateUser(ctx, models.UserInput{
		Email:    args.UserInput.Email,
		Password: args.UserInput.Password,
	})
	observe("createUser", err)
	if err != nil {
		return nil, toGraphQLError(err)
	}
	return &userResolver{root: r, user: user}, nil
}

func (r *Resolver) eventResolvers(events []models.Event) []*eventResolver {
	out := make([]*eventResolver, len(events))
	for i, event := range events {
		out[i] = &eventResolver{root: r, event: event}
	}
	return out
}

type eventResolver struct {
	root  *Resolver
	event models.Event
}

func (e *eventResolver) ID() graphql.ID { return graphql.ID(e.event.ID) }
func (e *eventResolver) Title() string { return e.event.Title }
func (e *eventResolver) Description() string { return e.event.Description }
func (e *eventResolver) Price() float64 { return e.event.Price }
func (e *eventResolver) Date() string { return e.event.Date.UTC().Format(DateLayout) }

func (e *eventResolver) Creator(ctx context.Context) (*userResolver, error) {
	user, err := e.root.users.GetUserByID(ctx, e.event.CreatorID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, &resolverError{
				err:        err,
				message:    "creator not found",
				extensions: map[string]interface{}{"code": CodeNotFound, "userId": e.event.CreatorID},
			}
		}
		return nil, toGraphQLError(err)
	}
	return &userResolver{root: e.root, user: user}, nil
}

type userResolver struct {
	root *Resolver
	user models.User
}

func (u *userResolver) ID() graphql.ID { return graphql.ID(u.user.ID) }
func (u *userResolver) Email() string { return u.user.Email }

// Password is always null: neither plaintext nor hash leaves the service.
func (u *userResolver) Password() *string { return nil }

func (u *userResolver) CreatedEvents(ctx context.Context) ([]*eventResolver, error) {
	events, err := u.root.events.GetEventsByIDs(ctx, u.user.CreatedEvents)
	if err != nil {
		return nil, toGraphQLError(err)
	}
	return u.root.eventResolvers(events), nil
}
