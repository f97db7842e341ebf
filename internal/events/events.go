// Package events fans domain events out to live websocket clients and to NATS.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

const (
	EntityRequest    = "request"
	EntitySuggestion = "suggestion"
	EntityProduct    = "product"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event is the wire shape shared by the websocket feed, NATS and the ClickHouse event log.
type Event struct {
	Event      string          `json:"event"` // e.g. request.updated
	Entity     string          `json:"entity"`
	EntityID   uint            `json:"entity_id"`
	ActorID    uint            `json:"actor_id"`
	Data       json.RawMessage `json:"data,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// New builds an event; data is marshalled as-is and dropped if it cannot be encoded.
func New(entity, action string, entityID, actorID uint, data any) Event {
	e := Event{
		Event:      entity + "." + action,
		Entity:     entity,
		EntityID:   entityID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			log.Printf("failed to encode %s event payload: %v", e.Event, err)
		} else {
			e.Data = raw
		}
	}
	return e
}

// Publisher is what services call after a mutation commits. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Broadcaster is satisfied by the websocket hub.
type Broadcaster interface {
	Broadcast(message []byte)
}

// Notifier delivers to the hub and to NATS; either may be nil.
type Notifier struct {
	hub  Broadcaster
	nats *NATSClient
}

func NewNotifier(hub Broadcaster, nats *NATSClient) *Notifier {
	return &Notifier{hub: hub, nats: nats}
}

func (n *Notifier) Publish(_ context.Context, e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("failed to encode event %s: %v", e.Event, err)
		return
	}
	if n.hub != nil {
		n.hub.Broadcast(data)
	}
	if n.nats != nil {
		if err := n.nats.PublishEvent(data); err != nil {
			log.Printf("failed to publish event %s to NATS: %v", e.Event, err)
		}
	}
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
