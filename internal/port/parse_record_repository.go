package port

import (
	"context"

	"github.com/google/uuid"

	"pretenz/internal/domain"
)

// ParseRecordRepository persists finished parse results.
type ParseRecordRepository interface {
	Create(ctx context.Context, record *domain.ParseRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ParseRecord, error)
	List(ctx context.Context, limit, offset int) ([]domain.ParseRecord, error)
}
