package repository

import (
	"context"

	"gorm.io/gorm"

	"claimhub/internal/model"
)

// ClaimEventRepository defines notification event persistence operations.
type ClaimEventRepository interface {
	Create(ctx context.Context, event *model.ClaimEvent) error
	CreateBatch(ctx context.Context, events []model.ClaimEvent) error
}

type claimEventRepository struct {
	db *gorm.DB
}

// NewClaimEventRepository creates a new claim event repository.
func NewClaimEventRepository(db *gorm.DB) ClaimEventRepository {
	return &claimEventRepository{db: db}
}

// Create creates a new claim event entry.
func (r *claimEventRepository) Create(ctx context.Context, event *model.ClaimEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// CreateBatch creates multiple claim event entries in a single transaction.
func (r *claimEventRepository) CreateBatch(ctx context.Context, events []model.ClaimEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(events, 100).Error
}
