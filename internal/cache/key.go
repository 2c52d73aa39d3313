package cache

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	keyCart          = "cart:%s"
	keyCartVersion   = "cart:version:%s"
	keyNotifications = "notifications:%s"
)

func CartKey(userId uuid.UUID) string {
	return fmt.Sprintf(keyCart, userId.String())
}

func CartVersionKey(userId uuid.UUID) string {
	return fmt.Sprintf(keyCartVersion, userId.String())
}

func NotificationKey(userId uuid.UUID) string {
	return fmt.Sprintf(keyNotifications, userId.String())
}
