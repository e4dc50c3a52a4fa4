package websocket

import (
	"github.com/isdelr/event-graph-be/internal/metrics"
	"github.com/isdelr/event-graph-be/internal/models"
	"github.com/rs/zerolog/log"
)

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Outbound messages for every client.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	done chan struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			for client := range h.clients {
				h.drop(client)
			}
			return
		case client := <-h.Register:
			h.clients[client] = true
			metrics.LiveFeedClients.Set(float64(len(h.clients)))
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Slow consumer.
					h.drop(client)
				}
			}
		}
	}
}

// Stop ends Run and closes every client's send channel.
func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	metrics.LiveFeedClients.Set(float64(len(h.clients)))
}

// EventCreated queues an event.created message for every client. It never
// blocks the caller; when the queue is full the message is dropped.
func (h *Hub) EventCreated(event models.Event) {
	message, err := NewEventCreatedMessage(event)
	if err != nil {
		log.Error().Err(err).Str("event_id", event.ID).Msg("Failed to encode live feed message")
		return
	}

	select {
	case h.Broadcast <- message:
	default:
		log.Warn().Str("event_id", event.ID).Msg("Live feed queue full, message dropped")
	}
}

// Attach registers client unless the hub has stopped.
func (h *Hub) Attach(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}
