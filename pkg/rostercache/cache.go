package rostercache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tserv/shift-control/pkg/models"
)

const (
	keyPrefix     = "roster:"
	generationKey = "roster-generation"
)

// ErrMiss is returned when no fresh roster is cached
var ErrMiss = errors.New("roster not cached")

// Cache stores roster snapshots per caller token. Invalidate drops the
// snapshots of every token, since a write by one operator changes what all
// of them see.
type Cache interface {
	Get(ctx context.Context, token string) ([]models.Shift, error)
	Set(ctx context.Context, token string, shifts []models.Shift) error
	Invalidate(ctx context.Context) error
}

// Key derives the storage key for a token without keeping the token itself
func Key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// RedisCache keeps roster snapshots in Redis as JSON with a TTL. Entry keys
// carry a shared generation counter; bumping it orphans every snapshot, which
// then expires on its TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// NewRedisClient connects to Redis
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (r *RedisCache) key(ctx context.Context, token string) (string, error) {
	gen, err := r.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return Key(token) + ":" + strconv.FormatInt(gen, 10), nil
}

func (r *RedisCache) Get(ctx context.Context, token string) ([]models.Shift, error) {
	key, err := r.key(ctx, token)
	if err != nil {
		return nil, err
	}
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	var shifts []models.Shift
	if err := json.Unmarshal(data, &shifts); err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *RedisCache) Set(ctx context.Context, token string, shifts []models.Shift) error {
	data, err := json.Marshal(shifts)
	if err != nil {
		return err
	}
	key, err := r.key(ctx, token)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

func (r *RedisCache) Invalidate(ctx context.Context) error {
	return r.client.Incr(ctx, generationKey).Err()
}

type memoryEntry struct {
	shifts  []models.Shift
	expires time.Time
}

// MemoryCache is an in-process cache used when no Redis is configured
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryCache creates an in-process cache
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (m *MemoryCache) Get(_ context.Context, token string) ([]models.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[Key(token)]
	if !ok || !m.now().Before(e.expires) {
		delete(m.entries, Key(token))
		return nil, ErrMiss
	}
	return append([]models.Shift(nil), e.shifts...), nil
}

func (m *MemoryCache) Set(_ context.Context, token string, shifts []models.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[Key(token)] = memoryEntry{
		shifts:  append([]models.Shift(nil), shifts...),
		expires: m.now().Add(m.ttl),
	}
	return nil
}

func (m *MemoryCache) Invalidate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	return nil
}
