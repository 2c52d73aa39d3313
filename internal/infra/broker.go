package infra

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/Alturino/grocery/internal/config"
	"github.com/Alturino/grocery/internal/log"
	"github.com/Alturino/grocery/internal/otel"
)

const brokerDialAttempts = 10

// Broker owns one AMQP connection and the channel every publish and consume
// goes through.
type Broker struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewBroker(c context.Context, cfg config.Broker) (*Broker, error) {
	c, span := otel.Tracer.Start(c, "infra NewBroker")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "infra NewBroker").
		Str(log.KeyProcess, "dialing broker").
		Logger()

	var (
		conn *amqp.Connection
		err  error
	)
	for attempt := 1; attempt <= brokerDialAttempts; attempt++ {
		conn, err = amqp.Dial(cfg.URL)
		if err == nil {
			break
		}
		logger.Warn().Err(err).Int("attempt", attempt).Msg("failed dialing broker, retrying")
		select {
		case <-c.Done():
			return nil, c.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	if err != nil {
		err = fmt.Errorf("failed dialing broker with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("dialed broker")

	logger = logger.With().Str(log.KeyProcess, "opening channel").Logger()
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		err = fmt.Errorf("failed opening broker channel with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("opened channel")

	return &Broker{conn: conn, channel: ch}, nil
}

func (b *Broker) DeclareQueue(name string) error {
	_, err := b.channel.QueueDeclare(name, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed declaring queue=%s with error=%w", name, err)
	}
	return nil
}

func (b *Broker) Publish(c context.Context, queue string, body []byte) error {
	err := b.channel.PublishWithContext(c, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed publishing to queue=%s with error=%w", queue, err)
	}
	return nil
}

func (b *Broker) Consume(queue string, consumer string) (<-chan amqp.Delivery, error) {
	if err := b.channel.Qos(50, 0, false); err != nil {
		return nil, fmt.Errorf("failed setting qos with error=%w", err)
	}
	deliveries, err := b.channel.Consume(queue, consumer, false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed consuming queue=%s with error=%w", queue, err)
	}
	return deliveries, nil
}

func (b *Broker) Close() error {
	if err := b.channel.Close(); err != nil {
		_ = b.conn.Close()
		return err
	}
	return b.conn.Close()
}
