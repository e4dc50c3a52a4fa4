package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/event-graph-be/internal/models"
	"github.com/isdelr/event-graph-be/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Storage is the document store backend. Events and users live in the
// "events" and "users" collections.
type Storage struct {
	events *mongo.Collection
	users  *mongo.Collection
}

type eventDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Date        time.Time          `bson:"date"`
	Creator     primitive.ObjectID `bson:"creator"`
}

type userDocument struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Email         string               `bson:"email"`
	Password      string               `bson:"password"`
	CreatedEvents []primitive.ObjectID `bson:"createdEvents"`
}

// New returns a Storage over db.
func New(db *mongo.Database) *Storage {
	return &Storage{
		events: db.Collection("events"),
		users:  db.Collection("users"),
	}
}

func (s *Storage) SaveEvent(ctx context.Context, event models.Event) (models.Event, error) {
	const op = "storage.mongo.SaveEvent"

	creator, err := primitive.ObjectIDFromHex(event.CreatorID)
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: creator %q: %w", op, event.CreatorID, storage.ErrInvalidID)
	}

	doc := eventDocument{
		Title:       event.Title,
		Description: event.Description,
		Price:       event.Price,
		// BSON dates carry millisecond precision.
		Date:    event.Date.UTC().Truncate(time.Millisecond),
		Creator: creator,
	}

	res, err := s.events.InsertOne(ctx, doc)
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return models.Event{}, fmt.Errorf("%s: unexpected inserted id %v", op, res.InsertedID)
	}
	doc.ID = id
	return doc.model(), nil
}

func (s *Storage) Events(ctx context.Context) ([]models.Event, error) {
	const op = "storage.mongo.Events"

	events, err := s.findEvents(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

func (s *Storage) EventsByIDs(ctx context.Context, ids []string) ([]models.Event, error) {
	const op = "storage.mongo.EventsByIDs"

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return []models.Event{}, nil
	}

	found, err := s.findEvents(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return storage.OrderByIDs(found, ids), nil
}

func (s *Storage) findEvents(ctx context.Context, filter any) ([]models.Event, error) {
	cursor, err := s.events.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	var docs []eventDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	events := make([]models.Event, 0, len(docs))
	for _, doc := range docs {
		events = append(events, doc.model())
	}
	return events, nil
}

func (s *Storage) SaveUser(ctx context.Context, email, passwordHash string) (models.User, error) {
	const op = "storage.mongo.SaveUser"

	doc := userDocument{
		Email:         email,
		Password:      passwordHash,
		CreatedEvents: []primitive.ObjectID{},
	}

	res, err := s.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return models.User{}, fmt.Errorf("%s: unexpected inserted id %v", op, res.InsertedID)
	}
	doc.ID = id
	return doc.model(), nil
}

func (s *Storage) UserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "storage.mongo.UserByEmail"

	user, err := s.findUser(ctx, bson.M{"email": email})
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (s *Storage) UserByID(ctx context.Context, id string) (models.User, error) {
	const op = "storage.mongo.UserByID"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// An id that cannot exist in this store.
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	user, err := s.findUser(ctx, bson.M{"_id": oid})
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (s *Storage) findUser(ctx context.Context, filter any) (models.User, error) {
	var doc userDocument
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, storage.ErrUserNotFound
		}
		return models.User{}, err
	}
	return doc.model(), nil
}

func (s *Storage) AddCreatedEvent(ctx context.Context, userID, eventID string) error {
	const op = "storage.mongo.AddCreatedEvent"

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	eid, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return fmt.Errorf("%s: event %q: %w", op, eventID, storage.ErrInvalidID)
	}

	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": uid},
		bson.M{"$addToSet": bson.M{"createdEvents": eid}},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	return nil
}

func (d eventDocument) model() models.Event {
	return models.Event{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Date:        d.Date.UTC(),
		CreatorID:   d.Creator.Hex(),
	}
}

func (d userDocument) model() models.User {
	created := make([]string, 0, len(d.CreatedEvents))
	for _, id := range d.CreatedEvents {
		created = append(created, id.Hex())
	}
	return models.User{
		ID:            d.ID.Hex(),
		Email:         d.Email,
		PasswordHash:  d.Password,
		CreatedEvents: created,
	}
}
