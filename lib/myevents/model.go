package myevents

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

type EventEnvelope struct {
	UID           string
	CreatedAt     time.Time
	Topic         string
	AggregateUID  string
	EventTypeName string
	EventPayload  string `datastore:",noindex"`
	Published     bool
}

func (e EventEnvelope) String() string {
	return e.Topic + "." + e.EventTypeName + "." + e.AggregateUID
}

type Event interface {
	GetEventTypeName() string
	GetAggregateName() string
}

// PushRequest is the body pubsub posts to a push subscription
type PushRequest struct {
	Message      PushMessage
	Subscription string
}

type PushMessage struct {
	Attributes map[string]string
	Data       []byte
	ID         string `json:"message_id"`
}

func ParseEventEnvelope(r io.Reader) (EventEnvelope, error) {
	msg := PushRequest{}
	err := json.NewDecoder(r).Decode(&msg)
	if err != nil {
		return EventEnvelope{}, fmt.Errorf("error parsing push-request: %w", err)
	}
	envlp := EventEnvelope{}
	err = json.Unmarshal(msg.Message.Data, &envlp)
	if err != nil {
		return EventEnvelope{}, fmt.Errorf("error parsing envelope: %w", err)
	}

	return envlp, nil
}

// NewPushRequest wraps an event the way pubsub delivers it to subscribers
func NewPushRequest(topic string, subscription string, event Event) (PushRequest, error) {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return PushRequest{}, fmt.Errorf("error marshalling event: %w", err)
	}
	envelope := EventEnvelope{
		UID:           event.GetAggregateName() + "." + event.GetEventTypeName(),
		Topic:         topic,
		AggregateUID:  event.GetAggregateName(),
		EventTypeName: event.GetEventTypeName(),
		EventPayload:  string(eventBytes),
		Published:     true,
	}
	envelopeBytes, err := json.Marshal(envelope)
	if err != nil {
		return PushRequest{}, fmt.Errorf("error marshalling envelope: %w", err)
	}

	return PushRequest{
		Message: PushMessage{
			Data: envelopeBytes,
		},
		Subscription: subscription,
	}, nil
}
