package store

import (
	"context"
	"encoding/json"
	"path"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/redis/go-redis/v9"
)

// The redis store implements the CartStore interface using Redis as the
// backend. Each cart is a Redis list of JSON-encoded items, capped at the
// most recent entries. The keys namespace is organized as follows:
// - `/<prefix>/cartstore/items/<threadID>` for the cart contents

const maxCartItems = 100

type redisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) CartStore {
	return &redisStore{
		client: client,
		prefix: prefix,
	}
}

func (m *redisStore) getRedisItemsKey(threadID string) string {
	return path.Join(m.prefix, "cartstore", "items", threadID)
}

func (m *redisStore) Items(ctx context.Context, threadID string) ([]CartItem, error) {
	key := m.getRedisItemsKey(threadID)
	data, err := m.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read cart from Redis")
	}

	var items []CartItem
	for _, raw := range data {
		var item CartItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			logger.ContextKV(ctx, xlog.ERROR, "reason", "unmarshal cart item", "err", err.Error())
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (m *redisStore) Add(ctx context.Context, threadID string, item CartItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return errors.Wrap(err, "failed to marshal cart item")
	}

	key := m.getRedisItemsKey(threadID)
	pipe := m.client.Pipeline()
	pipe.RPush(ctx, key, data)
	// keep only the most recent items
	pipe.LTrim(ctx, key, -maxCartItems, -1)
	_, err = pipe.Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to store cart item in Redis")
	}
	return nil
}

func (m *redisStore) Reset(ctx context.Context, threadID string) error {
	err := m.client.Del(ctx, m.getRedisItemsKey(threadID)).Err()
	if err != nil {
		return errors.Wrap(err, "failed to reset cart in Redis")
	}
	return nil
}
