package ports

import (
	"context"
	"errors"

	"flyer-route-service/internal/domain"
)

var ErrJobNotFound = errors.New("job not found")

// Port: result cache keyed by job id.
type JobStore interface {
	Get(ctx context.Context, id string) (*domain.Job, error)
	Put(ctx context.Context, job *domain.Job) error
	// Evict removes a job. Evicting an unknown id returns ErrJobNotFound.
	Evict(ctx context.Context, id string) error
}
