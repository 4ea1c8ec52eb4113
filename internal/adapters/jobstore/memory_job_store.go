package jobstore

import (
	"context"
	"fmt"
	"sync"

	"flyer-route-service/internal/domain"
	"flyer-route-service/internal/ports"
)

// MemoryJobStore keeps finished jobs for the life of the process.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
}

func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]*domain.Job)}
}

func (s *MemoryJobStore) Get(ctx context.Context, id string) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("memory job store: get %q: %w", id, ports.ErrJobNotFound)
	}
	return job, nil
}

func (s *MemoryJobStore) Put(ctx context.Context, job *domain.Job) error {
	if job == nil || job.ID == "" {
		return fmt.Errorf("memory job store: put: job id is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
	return nil
}

func (s *MemoryJobStore) Evict(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return fmt.Errorf("memory job store: evict %q: %w", id, ports.ErrJobNotFound)
	}
	delete(s.jobs, id)
	return nil
}
