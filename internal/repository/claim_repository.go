package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"claimhub/internal/model"
)

// ClaimRepository defines claim persistence operations. It performs no
// business validation; legality of a status change is the workflow's job.
type ClaimRepository interface {
	Create(ctx context.Context, claim *model.Claim) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Claim, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Claim, error)
	ListByStatus(ctx context.Context, status model.ClaimStatus) ([]model.Claim, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Claim, error)
	ListApprovedForMonth(ctx context.Context, year int, month time.Month) ([]model.Claim, error)
	SumHoursForOwnerMonth(ctx context.Context, ownerID uuid.UUID, year int, month time.Month, excludeStatuses []model.ClaimStatus) (int, error)
	CountByOwnerMonth(ctx context.Context, ownerID uuid.UUID, year int, month time.Month, excludeID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.ClaimStatus, actor uuid.UUID, at time.Time) (int64, error)
	CountByStatus(ctx context.Context, status model.ClaimStatus) (int64, error)
	Count(ctx context.Context) (int64, error)
	ExistsForOwner(ctx context.Context, ownerID uuid.UUID) (bool, error)
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ClaimRepository) error) error
}

type claimRepository struct {
	db *gorm.DB
}

// NewClaimRepository creates a new claim repository.
func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db: db}
}

// Create creates a new claim record.
func (r *claimRepository) Create(ctx context.Context, claim *model.Claim) error {
	return r.db.WithContext(ctx).Create(claim).Error
}

// FindByID finds a claim by ID.
func (r *claimRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Claim, error) {
	var claim model.Claim
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&claim).Error; err != nil {
		return nil, err
	}
	return &claim, nil
}

// FindByIDForUpdate finds a claim by ID with row-level lock for update.
func (r *claimRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Claim, error) {
	var claim model.Claim
	if err := r.db.WithContext(ctx).Set("gorm:query_option", "FOR UPDATE").
		Where("id = ?", id).First(&claim).Error; err != nil {
		return nil, err
	}
	return &claim, nil
}

// ListByStatus lists claims in a given status ordered by claim date ascending,
// so the review queue surfaces the oldest claims first.
func (r *claimRepository) ListByStatus(ctx context.Context, status model.ClaimStatus) ([]model.Claim, error) {
	var claims []model.Claim
	if err := r.db.WithContext(ctx).Where("status = ?", status).
		Order("claim_date ASC").Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

// ListByOwner lists all claims for an owner, most recent first.
func (r *claimRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Claim, error) {
	var claims []model.Claim
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).
		Order("claim_date DESC").Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

// ListApprovedForMonth lists approved claims whose claim date falls in the
// given calendar month (for reporting).
func (r *claimRepository) ListApprovedForMonth(ctx context.Context, year int, month time.Month) ([]model.Claim, error) {
	start, end := monthBounds(year, month)
	var claims []model.Claim
	if err := r.db.WithContext(ctx).
		Where("status = ? AND claim_date >= ? AND claim_date < ?", model.ClaimStatusApproved, start, end).
		Order("claim_date ASC").Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

// SumHoursForOwnerMonth aggregates hours worked across the owner's claims in
// the calendar month, skipping the given statuses. Callers exclude rejected
// only: pending claims reserve monthly capacity.
func (r *claimRepository) SumHoursForOwnerMonth(ctx context.Context, ownerID uuid.UUID, year int, month time.Month, excludeStatuses []model.ClaimStatus) (int, error) {
	start, end := monthBounds(year, month)
	query := r.db.WithContext(ctx).Model(&model.Claim{}).
		Where("owner_id = ? AND claim_date >= ? AND claim_date < ?", ownerID, start, end)
	if len(excludeStatuses) > 0 {
		query = query.Where("status NOT IN ?", excludeStatuses)
	}

	var total int64
	if err := query.Select("COALESCE(SUM(hours_worked), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

// CountByOwnerMonth counts the owner's claims in the calendar month
// regardless of status, excluding the claim under review when set.
func (r *claimRepository) CountByOwnerMonth(ctx context.Context, ownerID uuid.UUID, year int, month time.Month, excludeID uuid.UUID) (int64, error) {
	start, end := monthBounds(year, month)
	query := r.db.WithContext(ctx).Model(&model.Claim{}).
		Where("owner_id = ? AND claim_date >= ? AND claim_date < ?", ownerID, start, end)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateStatus transitions a claim's status with a compare-and-swap on the
// expected current status. Returns the number of rows updated: zero means the
// claim is absent or lost the race to a concurrent transition.
func (r *claimRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.ClaimStatus, actor uuid.UUID, at time.Time) (int64, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": at,
	}
	if to == model.ClaimStatusApproved {
		updates["approved_at"] = at
		updates["approved_by"] = actor
	}

	result := r.db.WithContext(ctx).Model(&model.Claim{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountByStatus counts claims in a given status.
func (r *claimRepository) CountByStatus(ctx context.Context, status model.ClaimStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Claim{}).
		Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Count counts all claims.
func (r *claimRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Claim{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsForOwner reports whether the owner has any claims at all.
func (r *claimRepository) ExistsForOwner(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Claim{}).
		Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// WithTransaction executes a function within a database transaction.
func (r *claimRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ClaimRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &claimRepository{db: tx}
		return fn(ctx, txRepo)
	})
}

// monthBounds returns the [start, end) interval of a calendar month in UTC.
func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
