package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/grocery/order/pkg/event"
)

type acknowledgement struct {
	tag     uint64
	acked   bool
	requeue bool
}

type fakeAcknowledger struct {
	results chan acknowledgement
}

func (a fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.results <- acknowledgement{tag: tag, acked: true}
	return nil
}

func (a fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	a.results <- acknowledgement{tag: tag, requeue: requeue}
	return nil
}

func (a fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	a.results <- acknowledgement{tag: tag, requeue: requeue}
	return nil
}

type fakeStore struct {
	mu     sync.Mutex
	err    error
	stored []event.OrderPlaced
}

func (s *fakeStore) StoreOrderPlaced(c context.Context, events []event.OrderPlaced) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.stored = append(s.stored, events...)
	return nil
}

func orderPlaced(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(event.OrderPlaced{
		Type:      event.TypeOrderPlaced,
		OrderID:   uuid.New(),
		UserID:    uuid.New(),
		Total:     decimal.RequireFromString("332.50"),
		ItemCount: 2,
		PlacedAt:  time.Now(),
	})
	require.NoError(t, err)
	return body
}

func TestNotificationWorker(t *testing.T) {
	tests := []struct {
		name     string
		storeErr error
		bodies   func(t *testing.T) [][]byte
		expected map[uint64]acknowledgement
		stored   int
	}{
		{
			name:   "given valid events should store and ack",
			bodies: func(t *testing.T) [][]byte { return [][]byte{orderPlaced(t), orderPlaced(t)} },
			expected: map[uint64]acknowledgement{
				1: {tag: 1, acked: true},
				2: {tag: 2, acked: true},
			},
			stored: 2,
		},
		{
			name:   "given malformed event should reject without requeue",
			bodies: func(t *testing.T) [][]byte { return [][]byte{[]byte("{"), orderPlaced(t)} },
			expected: map[uint64]acknowledgement{
				1: {tag: 1},
				2: {tag: 2, acked: true},
			},
			stored: 1,
		},
		{
			name:     "given store failure should nack with requeue",
			storeErr: errors.New("redis down"),
			bodies:   func(t *testing.T) [][]byte { return [][]byte{orderPlaced(t)} },
			expected: map[uint64]acknowledgement{
				1: {tag: 1, requeue: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, cancel := context.WithCancel(context.Background())
			defer cancel()

			store := &fakeStore{err: tt.storeErr}
			acknowledger := fakeAcknowledger{results: make(chan acknowledgement, 10)}
			deliveries := make(chan amqp.Delivery, 10)

			wg := sync.WaitGroup{}
			wg.Add(1)
			go NewNotificationWorker(store, deliveries, 10*time.Millisecond).StartWorker(c, &wg)

			for i, body := range tt.bodies(t) {
				deliveries <- amqp.Delivery{Acknowledger: acknowledger, DeliveryTag: uint64(i + 1), Body: body}
			}

			actual := map[uint64]acknowledgement{}
			for range tt.expected {
				select {
				case ack := <-acknowledger.results:
					actual[ack.tag] = ack
				case <-time.After(5 * time.Second):
					t.Fatal("timed out waiting for acknowledgement")
				}
			}
			cancel()
			wg.Wait()

			assert.Equal(t, tt.expected, actual)
			store.mu.Lock()
			assert.Len(t, store.stored, tt.stored)
			store.mu.Unlock()
		})
	}
}
