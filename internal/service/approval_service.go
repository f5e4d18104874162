package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"claimhub/internal/cache"
	"claimhub/internal/errors"
	"claimhub/internal/model"
	"claimhub/internal/repository"
)

// ApprovalService transitions claims between lifecycle states. Only pending
// claims may transition; approved and rejected are terminal for both
// operations (the reject path is deliberately as strict as approve).
type ApprovalService interface {
	Approve(ctx context.Context, actor Actor, claimID uuid.UUID) (*model.Claim, error)
	Reject(ctx context.Context, actor Actor, claimID uuid.UUID) (*model.Claim, error)
}

type approvalService struct {
	claimRepo repository.ClaimRepository
	validator *ClaimValidator
	notifier  *ClaimNotifier
	cache     *cache.Client
}

// NewApprovalService creates a new approval service.
func NewApprovalService(
	claimRepo repository.ClaimRepository,
	validator *ClaimValidator,
	notifier *ClaimNotifier,
	cache *cache.Client,
) ApprovalService {
	return &approvalService{
		claimRepo: claimRepo,
		validator: validator,
		notifier:  notifier,
		cache:     cache,
	}
}

// Approve moves a pending claim to approved. Before the transition it re-runs
// the automated checks (per-claim hours cap and duplicate-claim count)
// against current store state: a claim valid at submission can still fail
// here if concurrent submissions grew the monthly count. The status write is
// a compare-and-swap so two simultaneous reviewer actions cannot both win.
func (s *approvalService) Approve(ctx context.Context, actor Actor, claimID uuid.UUID) (*model.Claim, error) {
	if actor.Role != model.RoleCoordinator {
		return nil, errors.ErrForbidden
	}

	claim, err := s.claimRepo.FindByID(ctx, claimID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrClaimNotFound
		}
		return nil, fmt.Errorf("load claim: %w", err)
	}
	if claim.Status != model.ClaimStatusPending {
		return nil, errors.ErrInvalidTransition
	}

	// Automated validation at approval time, independent of submission-time
	// validation.
	if err := s.validator.ValidateHours(claim.HoursWorked); err != nil {
		return nil, err
	}
	otherClaims, err := s.claimRepo.CountByOwnerMonth(ctx, claim.OwnerID,
		claim.ClaimDate.Year(), claim.ClaimDate.Month(), claim.ID)
	if err != nil {
		return nil, fmt.Errorf("count monthly claims: %w", err)
	}
	if err := s.validator.ValidateClaimCount(otherClaims); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rows, err := s.claimRepo.UpdateStatus(ctx, claim.ID,
		model.ClaimStatusPending, model.ClaimStatusApproved, actor.ID, now)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	if rows == 0 {
		return nil, errors.ErrConflict
	}

	claim.Status = model.ClaimStatusApproved
	claim.ApprovedAt = &now
	actorID := actor.ID
	claim.ApprovedBy = &actorID

	s.notifier.Notify(ctx, model.ClaimEvent{
		ClaimID:   claim.ID,
		OwnerID:   claim.OwnerID,
		EventType: model.ClaimEventApproved,
		Amount:    claim.Amount,
		Message:   fmt.Sprintf("claim approved for %s", claim.Amount.StringFixed(2)),
	})

	return claim, nil
}

// Reject moves a pending claim to rejected. Rejection frees the hours the
// claim reserved against the owner's monthly cap.
func (s *approvalService) Reject(ctx context.Context, actor Actor, claimID uuid.UUID) (*model.Claim, error) {
	if actor.Role != model.RoleCoordinator {
		return nil, errors.ErrForbidden
	}

	claim, err := s.claimRepo.FindByID(ctx, claimID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrClaimNotFound
		}
		return nil, fmt.Errorf("load claim: %w", err)
	}
	if claim.Status != model.ClaimStatusPending {
		return nil, errors.ErrInvalidTransition
	}

	now := time.Now().UTC()
	rows, err := s.claimRepo.UpdateStatus(ctx, claim.ID,
		model.ClaimStatusPending, model.ClaimStatusRejected, actor.ID, now)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	if rows == 0 {
		return nil, errors.ErrConflict
	}

	claim.Status = model.ClaimStatusRejected
	_ = s.cache.Delete(ctx, monthlyHoursCacheKey(claim.OwnerID,
		claim.ClaimDate.Year(), claim.ClaimDate.Month()))

	return claim, nil
}
