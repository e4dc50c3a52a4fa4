package models

// User represents a registered account.
type User struct {
	ID            string   `json:"_id"`
	Email         string   `json:"email"`
	PasswordHash  string   `json:"-"` // Never expose this to the client
	CreatedEvents []string `json:"createdEvents"`
}

// UserInput is the payload of a registration.
type UserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
