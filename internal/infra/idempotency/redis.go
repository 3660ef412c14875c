package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const pendingMarker = "pending"

// ErrInFlight means another request with the same key has not finished yet.
var ErrInFlight = errors.New("idempotency: request in flight")

// Response is the stored outcome replayed for a repeated key.
type Response struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		rdb:    rdb,
		ttl:    ttl,
		prefix: "spa:idem:",
	}
}

// NewClient parses a redis:// URL.
func NewClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

// Begin claims key. It returns (nil, nil) when the caller owns the key and must
// later call Save or Release, or the stored response of an earlier request.
func (s *RedisStore) Begin(ctx context.Context, key string) (*Response, error) {
	ok, err := s.rdb.SetNX(ctx, s.prefix+key, pendingMarker, s.ttl).Result()
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, nil
	}

	raw, err := s.rdb.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET; try once more
		return s.Begin(ctx, key)
	}
	if err != nil {
		return nil, err
	}
	if raw == pendingMarker {
		return nil, ErrInFlight
	}

	var resp Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, resp Response) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.prefix+key, b, s.ttl).Err()
}

// Release frees a claimed key so the request can be retried.
func (s *RedisStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.prefix+key).Err()
}
