package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/event-graph-be/internal/models"
	"github.com/isdelr/event-graph-be/internal/storage"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Storage is the embedded record store, used for local runs and tests.
type Storage struct {
	db *sql.DB
}

// New wraps a migrated SQLite database.
func New(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) SaveEvent(ctx context.Context, event models.Event) (models.Event, error) {
	const op = "storage.sqlite.SaveEvent"

	event.ID = uuid.New().String()
	event.Date = event.Date.UTC()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, title, description, price, date, creator) VALUES (?, ?, ?, ?, ?, ?)",
		event.ID, event.Title, event.Description, event.Price, event.Date.Format(time.RFC3339Nano), event.CreatorID)
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}
	return event, nil
}

func (s *Storage) Events(ctx context.Context) ([]models.Event, error) {
	const op = "storage.sqlite.Events"

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, description, price, date, creator FROM events ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

func (s *Storage) EventsByIDs(ctx context.Context, ids []string) ([]models.Event, error) {
	const op = "storage.sqlite.EventsByIDs"

	if len(ids) == 0 {
		return []models.Event{}, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, description, price, date, creator FROM events WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	found, err := scanEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return storage.OrderByIDs(found, ids), nil
}

func scanEvents(rows *sql.Rows) ([]models.Event, error) {
	events := []models.Event{}
	for rows.Next() {
		var (
			event models.Event
			date  string
		)
		if err := rows.Scan(&event.ID, &event.Title, &event.Description, &event.Price, &date, &event.CreatorID); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, date)
		if err != nil {
			return nil, fmt.Errorf("event %s has malformed date %q: %w", event.ID, date, err)
		}
		event.Date = parsed
		events = append(events, event)
	}
	return events, rows.Err()
}

func (s *Storage) SaveUser(ctx context.Context, email, passwordHash string) (models.User, error) {
	const op = "storage.sqlite.SaveUser"

	user := models.User{
		ID:            uuid.New().String(),
		Email:         email,
		PasswordHash:  passwordHash,
		CreatedEvents: []string{},
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash) VALUES (?, ?, ?)",
		user.ID, user.Email, user.PasswordHash)
	if err != nil {
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) && isUniqueViolation(sqliteErr.Code()) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// isUniqueViolation matches the extended codes of a unique index or key
// collision. Other constraint failures are not duplicates.
func isUniqueViolation(code int) bool {
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

func (s *Storage) UserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "storage.sqlite.UserByEmail"

	user, err := s.userWhere(ctx, "email = ?", email)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (s *Storage) UserByID(ctx context.Context, id string) (models.User, error) {
	const op = "storage.sqlite.UserByID"

	user, err := s.userWhere(ctx, "id = ?", id)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (s *Storage) userWhere(ctx context.Context, cond string, arg any) (models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, "SELECT id, email, password_hash FROM users WHERE "+cond, arg).
		Scan(&user.ID, &user.Email, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}
		return models.User{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT event_id FROM user_created_events WHERE user_id = ? ORDER BY seq", user.ID)
	if err != nil {
		return models.User{}, err
	}
	defer rows.Close()

	user.CreatedEvents = []string{}
	for rows.Next() {
		var eventID string
		if err := rows.Scan(&eventID); err != nil {
			return models.User{}, err
		}
		user.CreatedEvents = append(user.CreatedEvents, eventID)
	}
	return user, rows.Err()
}

func (s *Storage) AddCreatedEvent(ctx context.Context, userID, eventID string) error {
	const op = "storage.sqlite.AddCreatedEvent"

	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id = ?", userID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO user_created_events (user_id, event_id) VALUES (?, ?)", userID, eventID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
