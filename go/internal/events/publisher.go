// Package events publishes dashboard change notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// EventType names a dashboard notification.
type EventType string

const (
	EventTypeUserUpdated EventType = "user.updated"
)

// Event is the envelope published for every notification.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// UserUpdatedPayload is the data of a user.updated event.
type UserUpdatedPayload struct {
	UserID string `json:"user_id"`
	TeamID string `json:"team_id,omitempty"`
}

// Publisher sends events somewhere. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NewEvent builds an envelope with a fresh id.
func NewEvent(eventType EventType, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}, nil
}

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error {
	log.Debug().Str("event_id", event.ID).Str("event_type", string(event.Type)).Msg("no publisher configured, dropping event")
	return nil
}

// NATSPublisher publishes events to core NATS subjects.
type NATSPublisher struct {
	nc            *nats.Conn
	subjectPrefix string
}

// ConnectNATS dials the broker with reconnect handling.
func ConnectNATS(url string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("octofit-dashboard"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}

func NewNATSPublisher(nc *nats.Conn, subjectPrefix string) *NATSPublisher {
	return &NATSPublisher{nc: nc, subjectPrefix: subjectPrefix}
}

// Subject returns the subject an event type is published on.
func Subject(prefix string, eventType EventType) string {
	if prefix == "" {
		return string(eventType)
	}
	return fmt.Sprintf("%s.%s", prefix, eventType)
}

func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := nats.NewMsg(Subject(p.subjectPrefix, event.Type))
	msg.Header.Set("Nats-Msg-Id", event.ID)
	msg.Data = data

	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Debug().
		Str("subject", msg.Subject).
		Str("event_id", event.ID).
		Int("size", len(data)).
		Msg("event published")
	return nil
}

func logPublished(event Event, took time.Duration) {
	log.Debug().
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Dur("took", took).
		Msg("publish completed")
}
