package models

import "time"

// Event is a priced, dated listing created by a user.
type Event struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Date        time.Time `json:"date"`
	CreatorID   string    `json:"creator"`
}

// EventInput is the caller-supplied part of an event. Date is free text and
// is parsed by the event service.
type EventInput struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Date        string  `json:"date" validate:"required"`
}
