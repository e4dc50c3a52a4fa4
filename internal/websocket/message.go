package websocket

import (
	"encoding/json"

	"github.com/isdelr/event-graph-be/internal/models"
)

const ActionEventCreated = "event.created"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewEventCreatedMessage encodes the feed message for a stored event.
func NewEventCreatedMessage(event models.Event) ([]byte, error) {
	return json.Marshal(Message{Action: ActionEventCreated, Payload: event})
}
