package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CartVersion returns the invalidation counter of a user's cart. A missing
// counter reads as zero.
func CartVersion(c context.Context, client *redis.Client, userId uuid.UUID) (int64, error) {
	version, err := client.Get(c, CartVersionKey(userId)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}

// InvalidateCart bumps the cart version and drops the cached cart in one
// transaction. A reader holding an older version can no longer write back.
func InvalidateCart(c context.Context, client *redis.Client, userId uuid.UUID) error {
	_, err := client.TxPipelined(c, func(pipe redis.Pipeliner) error {
		pipe.Incr(c, CartVersionKey(userId))
		pipe.Del(c, CartKey(userId))
		return nil
	})
	return err
}

// SetCartIfUnchanged stores the encoded cart only while the cart version still
// equals version, the value read before the rows were loaded. It reports
// whether the cart was stored.
func SetCartIfUnchanged(
	c context.Context,
	client *redis.Client,
	userId uuid.UUID,
	version int64,
	encoded []byte,
	ttl time.Duration,
) (bool, error) {
	versionKey := CartVersionKey(userId)
	stored := false
	err := client.Watch(c, func(tx *redis.Tx) error {
		current, err := tx.Get(c, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(c, func(pipe redis.Pipeliner) error {
			pipe.Set(c, CartKey(userId), encoded, ttl)
			return nil
		})
		if err != nil {
			return err
		}
		stored = true
		return nil
	}, versionKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return stored, err
}
