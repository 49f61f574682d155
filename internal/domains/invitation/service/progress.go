package service

import (
	"context"
	"fmt"
	"time"

	"invitation-backend/internal/domains/invitation"
	"invitation-backend/pkg/cache"
)

const progressKeyPrefix = "invitation:generation:"

// ProgressStore records the generation pipeline's real stage and percent
// so the progress screen polls actual state instead of animating a guess.
type ProgressStore interface {
	Set(ctx context.Context, jobID string, status invitation.GenerationStatus) error
	Get(ctx context.Context, jobID string) (invitation.GenerationStatus, bool, error)
}

// CacheProgressStore keeps progress in the shared cache layer, reachable
// from both the API and the worker process.
type CacheProgressStore struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewCacheProgressStore(c cache.Cache, ttl time.Duration) *CacheProgressStore {
	return &CacheProgressStore{cache: c, ttl: ttl}
}

func (s *CacheProgressStore) Set(ctx context.Context, jobID string, status invitation.GenerationStatus) error {
	if err := s.cache.Set(ctx, progressKeyPrefix+jobID, status, s.ttl); err != nil {
		return fmt.Errorf("store progress %s: %w", jobID, err)
	}
	return nil
}

func (s *CacheProgressStore) Get(ctx context.Context, jobID string) (invitation.GenerationStatus, bool, error) {
	var status invitation.GenerationStatus
	found, err := s.cache.Get(ctx, progressKeyPrefix+jobID, &status)
	if err != nil {
		return invitation.GenerationStatus{}, false, fmt.Errorf("load progress %s: %w", jobID, err)
	}
	return status, found, nil
}
