package rstore

import (
	"context"
	"errors"
	"github.com/ValentinKolb/kvsolar/lib/common"
	"github.com/ValentinKolb/kvsolar/lib/store"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/redis/go-redis/v9"
	"strings"
	"time"
)

var (
	log = logger.GetLogger("store")
)

// Store owns the long-lived connection to Redis.
// It implements store.IStore for plain key-value operations and hands out the
// underlying client to the DAO packages.
type Store struct {
	client redis.UniversalClient
}

// check that Store implements store.IStore
var _ store.IStore = (*Store)(nil)

// NewRedisStore opens a connection to the endpoints of the config and checks it with a PING.
// The caller owns the returned store and must Close it.
func NewRedisStore(ctx context.Context, config common.ClientConfig) (*Store, error) {
	if len(config.Endpoints) == 0 {
		return nil, store.NewValidationError("at least one endpoint is required")
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        trimEndpoints(config.Endpoints),
		Password:     config.Password,
		DB:           config.DB,
		MaxRetries:   config.RetryCount,
		PoolSize:     config.PoolSize,
		DialTimeout:  config.Timeout(),
		ReadTimeout:  config.Timeout(),
		WriteTimeout: config.Timeout(),
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, store.Unavailable(err)
	}

	log.Infof("connected to %s", strings.Join(config.Endpoints, ","))
	return NewFromClient(client), nil
}

// NewFromClient wraps an already connected client. Closing the store closes the client.
func NewFromClient(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// Client returns the underlying client, e.g. to create DAOs
func (s *Store) Client() redis.UniversalClient {
	return s.client
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return store.Unavailable(s.client.Set(ctx, key, value, 0).Err())
}

func (s *Store) SetE(ctx context.Context, key string, value []byte, expireIn time.Duration) error {
	return store.Unavailable(s.client.Set(ctx, key, value, expireIn).Err())
}

func (s *Store) SetEIfUnset(ctx context.Context, key string, value []byte, expireIn time.Duration) error {
	return store.Unavailable(s.client.SetNX(ctx, key, value, expireIn).Err())
}

func (s *Store) Expire(ctx context.Context, key string, expireIn time.Duration) error {
	return store.Unavailable(s.client.Expire(ctx, key, expireIn).Err())
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return store.Unavailable(s.client.Del(ctx, key).Err())
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, store.Unavailable(err)
	}
	return val, true, nil
}

func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, store.Unavailable(err)
	}
	return n > 0, nil
}

// Close closes the client and all pooled connections
func (s *Store) Close() error {
	log.Debugf("closing connection")
	return s.client.Close()
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// trimEndpoints removes whitespace and a redis:// scheme from the endpoints
func trimEndpoints(endpoints []string) []string {
	addrs := make([]string, 0, len(endpoints))
	for _, e := range endpoints {
		e = strings.TrimSpace(e)
		e = strings.TrimPrefix(e, "redis://")
		if e != "" {
			addrs = append(addrs, e)
		}
	}
	return addrs
}
