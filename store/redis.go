package store

import (
	"context"

	"github.com/polyrabbit/gold-alert/config"
	"github.com/polyrabbit/gold-alert/model"
	"github.com/redis/go-redis/v9"
)

// Compile-time check to ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)

type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = config.DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Name() string {
	return "redis " + s.key
}

func (s *RedisStore) Load(ctx context.Context) (*model.PriceTable, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, model.StoreError("get "+s.key, err)
	}
	return decode(s.key, data)
}

// Save overwrites the key without expiry, a single SET.
func (s *RedisStore) Save(ctx context.Context, table *model.PriceTable) error {
	data, err := table.MarshalCSV()
	if err != nil {
		return model.StoreError("encode snapshot", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return model.StoreError("set "+s.key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
