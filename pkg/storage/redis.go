package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/creditscope/creditscope/pkg/settings"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the connection settings of a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// Prefix namespaces every key, e.g. "creditscope:".
	Prefix string

	// MaxChanges caps the stored change history.
	MaxChanges int

	DialTimeout time.Duration
}

// DefaultRedisConfig returns a configuration for a local server.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:        "localhost:6379",
		Prefix:      "creditscope:",
		MaxChanges:  500,
		DialTimeout: 5 * time.Second,
	}
}

// RedisStore keeps the same records as DB in Redis. Each record is a JSON
// string, the change history is a capped list with the newest entry first.
type RedisStore struct {
	rdb *redis.Client
	cfg RedisConfig
	now func() time.Time
}

var _ Backend = (*RedisStore)(nil)

// OpenRedis connects and pings the server.
func OpenRedis(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr, err)
	}
	return NewRedisStore(rdb, cfg), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(rdb *redis.Client, cfg RedisConfig) *RedisStore {
	if cfg.MaxChanges <= 0 {
		cfg.MaxChanges = DefaultRedisConfig().MaxChanges
	}
	return &RedisStore{rdb: rdb, cfg: cfg, now: time.Now}
}

func (r *RedisStore) key(name string) string {
	return r.cfg.Prefix + name
}

func (r *RedisStore) Close() error {
	return r.rdb.Close()
}

func (r *RedisStore) get(ctx context.Context, name string, v any) error {
	raw, err := r.rdb.Get(ctx, r.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return settings.ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding %s record: %w", name, err)
	}
	return nil
}

func (r *RedisStore) LoadSettings(ctx context.Context) (settings.Settings, error) {
	var s settings.Settings
	err := r.get(ctx, settingsKey, &s)
	return s, err
}

func (r *RedisStore) SaveSettings(ctx context.Context, s settings.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings record: %w", err)
	}
	return r.rdb.Set(ctx, r.key(settingsKey), raw, 0).Err()
}

func (r *RedisStore) LoadLocal(ctx context.Context) (settings.LocalData, error) {
	var d settings.LocalData
	err := r.get(ctx, localKey, &d)
	return d, err
}

func (r *RedisStore) SaveLocal(ctx context.Context, d settings.LocalData) error {
	_, err := r.ReplaceLocal(ctx, d)
	return err
}

// ReplaceLocal diffs against the stored result and writes the new record
// together with the changes in one transaction.
func (r *RedisStore) ReplaceLocal(ctx context.Context, d settings.LocalData) ([]Change, error) {
	prev, err := r.LoadLocal(ctx)
	if err != nil && !errors.Is(err, settings.ErrNotFound) {
		return nil, err
	}
	changes := DiffModules(prev.Modules, d.Modules, r.now().UTC())

	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding local record: %w", err)
	}
	// LPUSH reverses its arguments; push back to front to keep diff order.
	encoded := make([]any, 0, len(changes))
	for i := len(changes) - 1; i >= 0; i-- {
		b, err := json.Marshal(changes[i])
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, b)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key(localKey), raw, 0)
		if len(encoded) > 0 {
			pipe.LPush(ctx, r.key(changesKey), encoded...)
			pipe.LTrim(ctx, r.key(changesKey), 0, int64(r.cfg.MaxChanges-1))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

// RecentChanges returns the most recent changes, newest first.
func (r *RedisStore) RecentChanges(ctx context.Context, limit int) ([]Change, error) {
	raws, err := r.rdb.LRange(ctx, r.key(changesKey), 0, int64(changeLimit(limit)-1)).Result()
	if err != nil {
		return nil, err
	}
	changes := make([]Change, 0, len(raws))
	for _, raw := range raws {
		var c Change
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("decoding change: %w", err)
		}
		changes = append(changes, c)
	}
	return changes, nil
}
