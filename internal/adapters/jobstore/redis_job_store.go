package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"flyer-route-service/internal/domain"
	"flyer-route-service/internal/ports"
)

const keyPrefix = "flyer:job:"

// RedisJobStore shares finished jobs between server instances. Values are
// JSON-encoded jobs; ttl of zero keeps them until evicted.
type RedisJobStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisJobStore(client *redis.Client, ttl time.Duration) *RedisJobStore {
	return &RedisJobStore{client: client, ttl: ttl}
}

func (s *RedisJobStore) makeKey(id string) string {
	return keyPrefix + id
}

func (s *RedisJobStore) Get(ctx context.Context, id string) (*domain.Job, error) {
	data, err := s.client.Get(ctx, s.makeKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("redis job store: get %q: %w", id, ports.ErrJobNotFound)
		}
		return nil, fmt.Errorf("redis job store: get %q: %w", id, err)
	}

	var job domain.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("redis job store: decode %q: %w", id, err)
	}
	return &job, nil
}

func (s *RedisJobStore) Put(ctx context.Context, job *domain.Job) error {
	if job == nil || job.ID == "" {
		return fmt.Errorf("redis job store: put: job id is empty")
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("redis job store: encode %q: %w", job.ID, err)
	}
	if err := s.client.Set(ctx, s.makeKey(job.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis job store: set %q: %w", job.ID, err)
	}
	return nil
}

func (s *RedisJobStore) Evict(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.makeKey(id)).Result()
	if err != nil {
		return fmt.Errorf("redis job store: evict %q: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("redis job store: evict %q: %w", id, ports.ErrJobNotFound)
	}
	return nil
}
