package storage

import (
	"context"

	"github.com/xaenox/datalake-chat/internal/models"
)

// Storage records interactions so they can be listed later
type Storage interface {
	SaveInteraction(ctx context.Context, interaction *models.Interaction) error
	// ListInteractions returns the most recent interactions, newest first
	ListInteractions(ctx context.Context, limit int) ([]*models.Interaction, error)
	Close() error
}
