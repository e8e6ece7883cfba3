package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/xaenox/datalake-chat/internal/models"
)

type MemoryStorage struct {
	mu           sync.RWMutex
	interactions []*models.Interaction
	capacity     int
}

// NewMemoryStorage keeps at most capacity interactions; 0 means unbounded
func NewMemoryStorage(capacity int) *MemoryStorage {
	return &MemoryStorage{
		capacity: capacity,
	}
}

func (s *MemoryStorage) SaveInteraction(ctx context.Context, interaction *models.Interaction) error {
	if interaction == nil || interaction.ID == "" {
		return errors.New("interaction id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *interaction
	s.interactions = append(s.interactions, &stored)
	if s.capacity > 0 && len(s.interactions) > s.capacity {
		s.interactions = s.interactions[len(s.interactions)-s.capacity:]
	}
	return nil
}

func (s *MemoryStorage) ListInteractions(ctx context.Context, limit int) ([]*models.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.interactions)
	if limit > 0 && limit < n {
		n = limit
	}

	result := make([]*models.Interaction, 0, n)
	for i := len(s.interactions) - 1; i >= 0 && len(result) < n; i-- {
		copied := *s.interactions[i]
		result = append(result, &copied)
	}
	return result, nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
