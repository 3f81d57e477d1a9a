package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"

	"github.com/udisondev/idkfx/internal/loadout"
)

// DefaultKeyPrefix namespaces every key the repository writes.
const DefaultKeyPrefix = "loadout:"

const namesKey = "names"

// RedisConfig contains configuration for the Redis loadout repository.
type RedisConfig struct {
	Client    Client
	KeyPrefix string
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.New("redis config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.New("redis client cannot be nil")
	}
	return nil
}

// LoadoutRepository implements loadout.Repository on Redis. Each loadout
// is one JSON value under <prefix>data:<name>; a set under <prefix>names
// indexes them.
type LoadoutRepository struct {
	client Client
	prefix string
}

var _ loadout.Repository = (*LoadoutRepository)(nil)

// NewLoadoutRepository creates a Redis-backed repository.
func NewLoadoutRepository(cfg *RedisConfig) (*LoadoutRepository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &LoadoutRepository{client: cfg.Client, prefix: prefix}, nil
}

// Key returns the key holding the named loadout.
func (r *LoadoutRepository) Key(name string) string {
	return r.prefix + "data:" + name
}

func (r *LoadoutRepository) namesKey() string {
	return r.prefix + namesKey
}

func (r *LoadoutRepository) Load(ctx context.Context, name string) (*loadout.Loadout, error) {
	result, err := r.client.Get(ctx, r.Key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", loadout.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("getting loadout %s: %w", name, err)
	}

	var l loadout.Loadout
	if err := json.Unmarshal([]byte(result), &l); err != nil {
		return nil, fmt.Errorf("unmarshaling loadout %s: %w", name, err)
	}
	return &l, nil
}

// Save writes the document and its index entry in one MULTI/EXEC.
func (r *LoadoutRepository) Save(ctx context.Context, l *loadout.Loadout) error {
	if err := l.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshaling loadout %s: %w", l.Name, err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.Key(l.Name), data, 0)
		pipe.SAdd(ctx, r.namesKey(), l.Name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving loadout %s: %w", l.Name, err)
	}
	return nil
}

func (r *LoadoutRepository) Delete(ctx context.Context, name string) error {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, r.Key(name))
		pipe.SRem(ctx, r.namesKey(), name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting loadout %s: %w", name, err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("%w: %s", loadout.ErrNotFound, name)
	}
	return nil
}

func (r *LoadoutRepository) List(ctx context.Context) ([]string, error) {
	names, err := r.client.SMembers(ctx, r.namesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("listing loadouts: %w", err)
	}
	slices.Sort(names)
	return names, nil
}
