package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventWrapsPayload(t *testing.T) {
	event, err := NewEvent(EventTypeUserUpdated, UserUpdatedPayload{UserID: "5"})
	require.NoError(t, err)

	_, err = uuid.Parse(event.ID)
	require.NoError(t, err)
	assert.Equal(t, EventTypeUserUpdated, event.Type)
	assert.False(t, event.Timestamp.IsZero())

	var payload UserUpdatedPayload
	require.NoError(t, json.Unmarshal(event.Data, &payload))
	assert.Equal(t, "5", payload.UserID)
	assert.Empty(t, payload.TeamID)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "octofit.user.updated", Subject("octofit", EventTypeUserUpdated))
	assert.Equal(t, "user.updated", Subject("", EventTypeUserUpdated))
}

func TestNopPublisher(t *testing.T) {
	event, err := NewEvent(EventTypeUserUpdated, UserUpdatedPayload{UserID: "1"})
	require.NoError(t, err)
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), event))
}

type failingPublisher struct{ err error }

func (p failingPublisher) Publish(ctx context.Context, event Event) error { return p.err }

func TestMetricPublisherRecordsOutcome(t *testing.T) {
	type record struct {
		eventType string
		success   bool
	}
	var records []record
	metrics := MetricsFunc(func(eventType string, success bool) {
		records = append(records, record{eventType, success})
	})

	event, err := NewEvent(EventTypeUserUpdated, UserUpdatedPayload{UserID: "1"})
	require.NoError(t, err)

	require.NoError(t, NewMetricPublisher(NopPublisher{}, metrics).Publish(context.Background(), event))

	boom := errors.New("broker down")
	err = NewMetricPublisher(failingPublisher{err: boom}, metrics).Publish(context.Background(), event)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, []record{
		{eventType: "user.updated", success: true},
		{eventType: "user.updated", success: false},
	}, records)
}
