package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-frontdesk-backend/internal/model"
)

func sampleReservation() model.Reservation {
	return model.Reservation{
		ID:           9,
		Reference:    "ref-9",
		RoomID:       3,
		CheckinDate:  model.NewDay(2024, 6, 1),
		CheckoutDate: model.NewDay(2024, 6, 4),
		TotalPrice:   3000,
		Occupants:    []model.ReservationOccupant{{ReservationID: 9, ClientID: 5}},
	}
}

func TestNewReservationEvent_JSON(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("MSK", 3*3600))
	ev := NewReservationEvent(ReservationCreated, sampleReservation(), at)

	body, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "reservation.created", decoded["type"])
	assert.Equal(t, "2024-06-01", decoded["checkin"])
	assert.Equal(t, "2024-06-04", decoded["checkout"])
	assert.Equal(t, []any{float64(5)}, decoded["occupantIds"])
	assert.Equal(t, "2024-06-01T09:00:00Z", decoded["occurredAt"])
}

func TestAMQPPublisher_DialFailure(t *testing.T) {
	p := NewAMQPPublisher("amqp://broker.invalid/", "frontdesk.reservations")
	dials := 0
	p.dial = func(string) (*amqp.Connection, error) {
		dials++
		return nil, errors.New("connection refused")
	}

	ev := NewReservationEvent(ReservationCancelled, sampleReservation(), time.Now())
	err := p.Publish(context.Background(), ev)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial broker")

	// The next publish tries again instead of caching the failure.
	require.Error(t, p.Publish(context.Background(), ev))
	assert.Equal(t, 2, dials)
	assert.NoError(t, p.Close())
}

func TestRecorder(t *testing.T) {
	var r Recorder
	ev := NewReservationEvent(ReservationCreated, sampleReservation(), time.Now())
	require.NoError(t, r.Publish(context.Background(), ev))

	r.Err = errors.New("down")
	assert.Error(t, r.Publish(context.Background(), ev))
	assert.Len(t, r.Events(), 1)

	var _ Publisher = Noop{}
	var _ Publisher = (*AMQPPublisher)(nil)
}
