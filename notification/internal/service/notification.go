package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/grocery/internal/cache"
	"github.com/Alturino/grocery/internal/log"
	inOtel "github.com/Alturino/grocery/internal/otel"
	"github.com/Alturino/grocery/notification/internal/otel"
	"github.com/Alturino/grocery/notification/pkg/response"
	"github.com/Alturino/grocery/order/pkg/event"
)

// MaxNotifications is how many entries a user's feed keeps, newest first.
const MaxNotifications = 50

type NotificationService struct {
	cache *redis.Client
	ttl   time.Duration
}

func NewNotificationService(cache *redis.Client, ttl time.Duration) *NotificationService {
	return &NotificationService{cache: cache, ttl: ttl}
}

func fromOrderPlaced(e event.OrderPlaced) response.Notification {
	createdAt := e.PlacedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return response.Notification{
		ID:        uuid.New(),
		Type:      e.Type,
		UserID:    e.UserID,
		OrderID:   e.OrderID,
		Title:     "Order placed",
		Message:   fmt.Sprintf("Your order of %d item(s) totalling %s is being processed", e.ItemCount, e.Total.StringFixed(2)),
		Total:     e.Total,
		CreatedAt: createdAt,
	}
}

// StoreOrderPlaced prepends one notification per event to its user's feed in
// a single pipeline and trims every touched feed to MaxNotifications.
func (svc *NotificationService) StoreOrderPlaced(c context.Context, events []event.OrderPlaced) error {
	c, span := otel.Tracer.Start(c, "NotificationService StoreOrderPlaced")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationService StoreOrderPlaced").
		Int(log.KeyBatchSize, len(events)).
		Str(log.KeyProcess, "storing notifications").
		Logger()

	if len(events) == 0 {
		return nil
	}

	logger.Trace().Msg("storing notifications")
	pipe := svc.cache.TxPipeline()
	touched := map[string]struct{}{}
	for _, e := range events {
		encoded, err := json.Marshal(fromOrderPlaced(e))
		if err != nil {
			err = fmt.Errorf("failed encoding notification orderId=%s with error=%w", e.OrderID, err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		key := cache.NotificationKey(e.UserID)
		pipe.LPush(c, key, encoded)
		touched[key] = struct{}{}
	}
	for key := range touched {
		pipe.LTrim(c, key, 0, MaxNotifications-1)
		if svc.ttl > 0 {
			pipe.Expire(c, key, svc.ttl)
		}
	}
	if _, err := pipe.Exec(c); err != nil {
		err = fmt.Errorf("failed storing notifications with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Int("feeds", len(touched)).Msg("stored notifications")

	return nil
}

func (svc *NotificationService) FindNotifications(c context.Context, userId uuid.UUID) ([]response.Notification, error) {
	c, span := otel.Tracer.Start(c, "NotificationService FindNotifications")
	defer span.End()

	key := cache.NotificationKey(userId)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationService FindNotifications").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyCacheKey, key).
		Str(log.KeyProcess, "reading notifications").
		Logger()

	logger.Trace().Msg("reading notifications")
	entries, err := svc.cache.LRange(c, key, 0, -1).Result()
	if err != nil {
		err = fmt.Errorf("failed reading notifications with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	notifications := make([]response.Notification, 0, len(entries))
	for _, entry := range entries {
		notification := response.Notification{}
		if err := json.Unmarshal([]byte(entry), &notification); err != nil {
			logger.Warn().Err(err).Msg("skipping malformed notification")
			continue
		}
		notifications = append(notifications, notification)
	}
	logger.Info().Int("notifications", len(notifications)).Msg("read notifications")

	return notifications, nil
}

func (svc *NotificationService) Clear(c context.Context, userId uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "NotificationService Clear")
	defer span.End()

	key := cache.NotificationKey(userId)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationService Clear").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyCacheKey, key).
		Str(log.KeyProcess, "clearing notifications").
		Logger()

	if err := svc.cache.Del(c, key).Err(); err != nil {
		err = fmt.Errorf("failed clearing notifications with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("cleared notifications")

	return nil
}
