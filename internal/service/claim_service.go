package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"claimhub/internal/cache"
	"claimhub/internal/errors"
	"claimhub/internal/model"
	"claimhub/internal/repository"
	"claimhub/internal/storage"
)

const (
	monthlyHoursCacheTTL = 1 * time.Minute
	attachmentURLExpiry  = 15 * time.Minute
)

// Actor identifies the authenticated user performing an operation. Services
// assert the role precondition themselves; the router's role groups are a
// first line, not the authority.
type Actor struct {
	ID   uuid.UUID
	Role model.Role
}

// AttachmentUpload carries receipt metadata plus the byte stream.
type AttachmentUpload struct {
	AttachmentMeta
	Body io.Reader
}

// SubmitClaimInput is a lecturer's submission payload. It deliberately has no
// rate field: the rate is always read from the owner's profile.
type SubmitClaimInput struct {
	Contract    string
	Category    string
	HoursWorked int
	Attachment  *AttachmentUpload
}

// ClaimPreview mirrors the live calculation shown while a lecturer fills in
// the submission form.
type ClaimPreview struct {
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	Amount         decimal.Decimal `json:"amount"`
	MonthlyHours   int             `json:"monthly_hours"`
	RemainingHours int             `json:"remaining_hours"`
	WouldExceed    bool            `json:"would_exceed"`
}

// ClaimService handles claim submission and tracking.
type ClaimService interface {
	Submit(ctx context.Context, actor Actor, input SubmitClaimInput) (*model.Claim, error)
	GetClaim(ctx context.Context, actor Actor, id uuid.UUID) (*model.Claim, error)
	ListPending(ctx context.Context) ([]model.Claim, error)
	ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Claim, error)
	CalculatePreview(ctx context.Context, ownerID uuid.UUID, hours int) (*ClaimPreview, error)
	AttachmentURL(ctx context.Context, actor Actor, id uuid.UUID) (string, error)
}

type claimService struct {
	userRepo    repository.UserRepository
	claimRepo   repository.ClaimRepository
	validator   *ClaimValidator
	attachments storage.AttachmentStore
	notifier    *ClaimNotifier
	cache       *cache.Client
	// Mutex map for per-owner-month locking
	monthMutexes sync.Map
}

// NewClaimService creates a new claim service.
func NewClaimService(
	userRepo repository.UserRepository,
	claimRepo repository.ClaimRepository,
	validator *ClaimValidator,
	attachments storage.AttachmentStore,
	notifier *ClaimNotifier,
	cache *cache.Client,
) ClaimService {
	return &claimService{
		userRepo:    userRepo,
		claimRepo:   claimRepo,
		validator:   validator,
		attachments: attachments,
		notifier:    notifier,
		cache:       cache,
	}
}

// monthMutex returns the mutex serializing submissions for one owner-month.
func (s *claimService) monthMutex(ownerID uuid.UUID, year int, month time.Month) *sync.Mutex {
	key := ownerID.String() + ":" + strconv.Itoa(year) + "-" + strconv.Itoa(int(month))
	value, _ := s.monthMutexes.LoadOrStore(key, &sync.Mutex{})
	return value.(*sync.Mutex)
}

func monthlyHoursCacheKey(ownerID uuid.UUID, year int, month time.Month) string {
	return fmt.Sprintf("monthly_hours:%s:%04d-%02d", ownerID.String(), year, int(month))
}

// Submit validates and persists a new pending claim for the acting lecturer.
// The monthly-hours check and the claim insert run inside one transaction,
// under a per-owner-month mutex, so two concurrent submissions near the cap
// cannot jointly exceed it.
func (s *claimService) Submit(ctx context.Context, actor Actor, input SubmitClaimInput) (*model.Claim, error) {
	if actor.Role != model.RoleLecturer {
		return nil, errors.ErrForbidden
	}

	owner, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("load owner: %w", err)
	}

	var att *AttachmentMeta
	if input.Attachment != nil {
		att = &input.Attachment.AttachmentMeta
	}

	now := time.Now().UTC()
	claim := &model.Claim{
		OwnerID:     owner.ID,
		Contract:    input.Contract,
		Category:    input.Category,
		ClaimDate:   now,
		HoursWorked: input.HoursWorked,
		HourlyRate:  owner.HourlyRate,
		Amount:      owner.HourlyRate.Mul(decimal.NewFromInt(int64(input.HoursWorked))),
		Status:      model.ClaimStatusPending,
	}

	mutex := s.monthMutex(owner.ID, now.Year(), now.Month())
	mutex.Lock()
	defer mutex.Unlock()

	err = s.claimRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.ClaimRepository) error {
		monthlyHours, err := repo.SumHoursForOwnerMonth(ctx, owner.ID, now.Year(), now.Month(),
			[]model.ClaimStatus{model.ClaimStatusRejected})
		if err != nil {
			return fmt.Errorf("aggregate monthly hours: %w", err)
		}
		// Rules run in a fixed order, failing on the first violation: per-claim
		// hours, required fields, the monthly cap, attachment constraints.
		if err := s.validator.ValidateSubmission(input.Contract, input.Category, input.HoursWorked, monthlyHours, att); err != nil {
			return err
		}

		// The claim is written only after its receipt is safely stored; a
		// storage failure aborts the whole submission.
		if input.Attachment != nil {
			key, err := s.attachments.Store(ctx, input.Attachment.Name, input.Attachment.ContentType, input.Attachment.Body)
			if err != nil {
				return err
			}
			claim.AttachmentName = input.Attachment.Name
			claim.AttachmentKey = key
			claim.AttachmentType = input.Attachment.ContentType
			claim.AttachmentSize = input.Attachment.Size
		}

		if err := repo.Create(ctx, claim); err != nil {
			return fmt.Errorf("create claim: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, monthlyHoursCacheKey(owner.ID, now.Year(), now.Month()))

	s.notifier.Notify(ctx, model.ClaimEvent{
		ClaimID:   claim.ID,
		OwnerID:   owner.ID,
		EventType: model.ClaimEventSubmitted,
		Amount:    claim.Amount,
		Message:   fmt.Sprintf("claim submitted by %s for %s", owner.FullName(), claim.Amount.StringFixed(2)),
	})

	return claim, nil
}

// GetClaim loads a claim. Lecturers see only their own claims; coordinators
// and HR see any.
func (s *claimService) GetClaim(ctx context.Context, actor Actor, id uuid.UUID) (*model.Claim, error) {
	claim, err := s.claimRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrClaimNotFound
		}
		return nil, err
	}
	if actor.Role == model.RoleLecturer && claim.OwnerID != actor.ID {
		// Do not reveal other owners' claims
		return nil, errors.ErrClaimNotFound
	}
	return claim, nil
}

// ListPending returns the review queue, oldest claim date first.
func (s *claimService) ListPending(ctx context.Context) ([]model.Claim, error) {
	return s.claimRepo.ListByStatus(ctx, model.ClaimStatusPending)
}

// ListForOwner returns an owner's claims, most recent first.
func (s *claimService) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Claim, error) {
	return s.claimRepo.ListByOwner(ctx, ownerID)
}

// CalculatePreview computes the amount at the owner's current rate together
// with month-to-date hours and the remaining allowance. The monthly total is
// cached briefly and invalidated on submission and rejection.
func (s *claimService) CalculatePreview(ctx context.Context, ownerID uuid.UUID, hours int) (*ClaimPreview, error) {
	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	monthlyHours, err := s.monthlyHours(ctx, ownerID, now.Year(), now.Month())
	if err != nil {
		return nil, err
	}

	monthlyCap := s.validator.MonthlyHoursCap()
	remaining := monthlyCap - monthlyHours
	if remaining < 0 {
		remaining = 0
	}

	return &ClaimPreview{
		HourlyRate:     owner.HourlyRate,
		Amount:         owner.HourlyRate.Mul(decimal.NewFromInt(int64(hours))),
		MonthlyHours:   monthlyHours,
		RemainingHours: remaining,
		WouldExceed:    monthlyHours+hours > monthlyCap,
	}, nil
}

// AttachmentURL returns a time-limited download URL for a claim's receipt.
func (s *claimService) AttachmentURL(ctx context.Context, actor Actor, id uuid.UUID) (string, error) {
	claim, err := s.GetClaim(ctx, actor, id)
	if err != nil {
		return "", err
	}
	if !claim.HasAttachment() {
		return "", errors.ErrNoAttachment
	}
	return s.attachments.PresignGet(ctx, claim.AttachmentKey, attachmentURLExpiry)
}

// monthlyHours returns the owner's non-rejected hour total for the month,
// served from cache when fresh.
func (s *claimService) monthlyHours(ctx context.Context, ownerID uuid.UUID, year int, month time.Month) (int, error) {
	key := monthlyHoursCacheKey(ownerID, year, month)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached int
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	total, err := s.claimRepo.SumHoursForOwnerMonth(ctx, ownerID, year, month,
		[]model.ClaimStatus{model.ClaimStatusRejected})
	if err != nil {
		return 0, fmt.Errorf("aggregate monthly hours: %w", err)
	}

	if payload, err := json.Marshal(total); err == nil {
		_ = s.cache.Set(ctx, key, payload, monthlyHoursCacheTTL)
	}
	return total, nil
}
