package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/isdelr/event-graph-be/internal/models"
	"github.com/isdelr/event-graph-be/internal/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for password hashes.
const BcryptCost = 12

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	CreateUser(ctx context.Context, input models.UserInput) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	users storage.UserStore
	cost  int
}

// NewUserService creates a new UserService.
func NewUserService(users storage.UserStore) *UserService {
	return &UserService{users: users, cost: BcryptCost}
}

// CreateUser registers a new user, hashing their password. The returned user
// never carries the hash.
func (s *UserService) CreateUser(ctx context.Context, input models.UserInput) (models.User, error) {
	const op = "services.CreateUser"

	if err := validateInput(input); err != nil {
		return models.User{}, err
	}

	_, err := s.users.UserByEmail(ctx, input.Email)
	switch {
	case err == nil:
		log.Info().Str("email", input.Email).Msg("Registration refused, email taken")
		return models.User{}, ErrDuplicateEmail
	case !errors.Is(err, storage.ErrUserNotFound):
		log.Error().Err(err).Str("email", input.Email).Msg("Failed to look up user")
		return models.User{}, persistenceError(op, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	user, err := s.users.SaveUser(ctx, input.Email, string(hashedPassword))
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Info().Str("email", input.Email).Msg("Registration lost a race, email taken")
			return models.User{}, ErrDuplicateEmail
		}
		log.Error().Err(err).Str("email", input.Email).Msg("Failed to save user")
		return models.User{}, persistenceError(op, err)
	}

	log.Info().Str("user_id", user.ID).Msg("User registered")

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID, without the password hash.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	user, err := s.users.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, fmt.Errorf("user with ID %s: %w", id, err)
		}
		return models.User{}, persistenceError("services.GetUserByID", err)
	}
	user.PasswordHash = ""
	return user, nil
}
