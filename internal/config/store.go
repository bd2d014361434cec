package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/99designs/keyring"
	"github.com/redis/go-redis/v9"
)

// ErrKeyNotFound is returned by a Store for a missing key.
var ErrKeyNotFound = errors.New("key not found")

// Store is the key/value backend profiles are persisted in.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, data []byte) error
	Remove(key string) error
}

type keyringStore struct {
	ring keyring.Keyring
}

func (s keyringStore) Get(key string) ([]byte, error) {
	item, err := s.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return item.Data, nil
}

func (s keyringStore) Set(key string, data []byte) error {
	return s.ring.Set(keyring.Item{Key: key, Data: data, Label: serviceName + " " + key})
}

func (s keyringStore) Remove(key string) error {
	if err := s.ring.Remove(key); err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return ErrKeyNotFound
		}
		return err
	}
	return nil
}

const redisTimeout = 5 * time.Second

// redisStore shares profiles between hosts. Keys live under
// "linkedin-cli/<key>".
type redisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to redisURL and verifies the connection.
func NewRedisStore(redisURL string) (Store, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", envRedisURL, err)
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &redisStore{rdb: rdb}, nil
}

func redisKey(key string) string {
	return serviceName + "/" + key
}

func (s *redisStore) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	data, err := s.rdb.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	return data, err
}

func (s *redisStore) Set(key string, data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	return s.rdb.Set(ctx, redisKey(key), data, 0).Err()
}

func (s *redisStore) Remove(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	n, err := s.rdb.Del(ctx, redisKey(key)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrKeyNotFound
	}
	return nil
}

// StoreBackend names the backend openStore will use.
func StoreBackend() string {
	if strings.TrimSpace(os.Getenv(envRedisURL)) != "" {
		return "redis"
	}
	return "keyring"
}

// openStore opens the profile store: Redis when LINKEDIN_REDIS_URL is set,
// the OS keyring otherwise.
func openStore() (Store, error) {
	if redisURL := strings.TrimSpace(os.Getenv(envRedisURL)); redisURL != "" {
		return NewRedisStore(redisURL)
	}
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return keyringStore{ring: ring}, nil
}
