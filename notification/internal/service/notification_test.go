package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/grocery/internal/cache"
	"github.com/Alturino/grocery/internal/testutil"
	"github.com/Alturino/grocery/order/pkg/event"
)

func TestNotificationService(t *testing.T) {
	c := testutil.Context(t)
	redis := testutil.StartRedis(t, c)
	svc := NewNotificationService(redis, time.Hour)

	userId := uuid.New()
	otherId := uuid.New()

	events := make([]event.OrderPlaced, 0, MaxNotifications+5)
	for i := 0; i < MaxNotifications+5; i++ {
		events = append(events, event.OrderPlaced{
			Type:      event.TypeOrderPlaced,
			OrderID:   uuid.New(),
			UserID:    userId,
			Total:     decimal.NewFromInt(int64(100 + i)),
			ItemCount: 1,
			PlacedAt:  time.Now(),
		})
	}
	events = append(events, event.OrderPlaced{Type: event.TypeOrderPlaced, OrderID: uuid.New(), UserID: otherId, Total: decimal.NewFromInt(10)})

	require.NoError(t, svc.StoreOrderPlaced(c, events))

	t.Run("given more than the limit should keep newest only", func(t *testing.T) {
		notifications, err := svc.FindNotifications(c, userId)
		require.NoError(t, err)
		require.Len(t, notifications, MaxNotifications)
		newest := events[MaxNotifications+4]
		assert.Equal(t, newest.OrderID, notifications[0].OrderID)
		assert.True(t, newest.Total.Equal(notifications[0].Total))
		assert.Equal(t, "Order placed", notifications[0].Title)

		ttl, err := redis.TTL(c, cache.NotificationKey(userId)).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})

	t.Run("given other user should have separate feed", func(t *testing.T) {
		notifications, err := svc.FindNotifications(c, otherId)
		require.NoError(t, err)
		require.Len(t, notifications, 1)
		assert.Contains(t, notifications[0].Message, "10.00")
	})

	t.Run("given clear should empty feed", func(t *testing.T) {
		require.NoError(t, svc.Clear(c, userId))
		notifications, err := svc.FindNotifications(c, userId)
		require.NoError(t, err)
		assert.Empty(t, notifications)
	})
}
