package service

import (
	"context"
	"sync"

	"github.com/clubkosh/clubkosh/internal/club/domain"
)

type service struct {
	repo domain.Repository

	mu     sync.RWMutex
	cached *domain.Club
}

func NewService(repo domain.Repository) domain.Service {
	return &service{repo: repo}
}

// Default returns the seeded club. The row never changes after startup so the
// first successful lookup is cached.
func (s *service) Default(ctx context.Context) (*domain.Club, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	club, err := s.repo.GetDefault(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached = club
	s.mu.Unlock()
	return club, nil
}
