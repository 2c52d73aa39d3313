package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/Alturino/grocery/internal/constants"
	"github.com/Alturino/grocery/internal/log"
	"github.com/Alturino/grocery/order/pkg/event"
)

const (
	DefaultInterval = 300 * time.Millisecond
	maxBatchSize    = 50
)

type Store interface {
	StoreOrderPlaced(c context.Context, events []event.OrderPlaced) error
}

// NotificationWorker drains order.placed deliveries into batches and stores
// them every interval. Deliveries are acked only after their batch is stored.
type NotificationWorker struct {
	store      Store
	deliveries <-chan amqp.Delivery
	interval   time.Duration
}

func NewNotificationWorker(store Store, deliveries <-chan amqp.Delivery, interval time.Duration) *NotificationWorker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &NotificationWorker{store: store, deliveries: deliveries, interval: interval}
}

func (wrk NotificationWorker) StartWorker(c context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationWorker StartWorker").
		Str(log.KeyProcess, "consuming order placed").
		Str(log.KeyQueue, constants.QueueOrderPlaced).
		Logger()

	ticker := time.NewTicker(wrk.interval)
	defer ticker.Stop()

	batch := make([]amqp.Delivery, 0, maxBatchSize)
	events := make([]event.OrderPlaced, 0, maxBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		requestID := uuid.NewString()
		batchLogger := logger.With().Str(log.KeyRequestID, requestID).Int(log.KeyBatchSize, len(batch)).Logger()
		bc := log.AttachRequestIDToContext(batchLogger.WithContext(c), requestID)

		batchLogger.Trace().Msg("storing batch")
		err := wrk.store.StoreOrderPlaced(bc, events)
		for _, d := range batch {
			var ackErr error
			if err != nil {
				ackErr = d.Nack(false, true)
			} else {
				ackErr = d.Ack(false)
			}
			if ackErr != nil {
				batchLogger.Warn().Err(ackErr).Uint64("deliveryTag", d.DeliveryTag).Msg("failed acknowledging delivery")
			}
		}
		if err != nil {
			err = fmt.Errorf("failed storing batch with error=%w", err)
			batchLogger.Error().Err(err).Msg(err.Error())
		} else {
			batchLogger.Info().Msg("stored batch")
		}
		batch = batch[:0]
		events = events[:0]
	}

	logger.Info().Msg("started worker")
	for {
		select {
		case <-c.Done():
			flush()
			logger.Info().Msg("stopped worker")
			return
		case <-ticker.C:
			flush()
		case d, ok := <-wrk.deliveries:
			if !ok {
				flush()
				logger.Info().Msg("deliveries closed, stopped worker")
				return
			}
			e := event.OrderPlaced{}
			if err := json.Unmarshal(d.Body, &e); err != nil || e.Type != event.TypeOrderPlaced {
				logger.Warn().Err(err).Uint64("deliveryTag", d.DeliveryTag).Msg("rejecting malformed delivery")
				if err := d.Reject(false); err != nil {
					logger.Warn().Err(err).Msg("failed rejecting delivery")
				}
				continue
			}
			batch = append(batch, d)
			events = append(events, e)
			if len(batch) >= maxBatchSize {
				flush()
			}
		}
	}
}
