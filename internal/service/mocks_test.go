package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"claimhub/internal/model"
	"claimhub/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

// MockClaimRepository is a mock implementation of ClaimRepository.
type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) Create(ctx context.Context, claim *model.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *MockClaimRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Claim), args.Error(1)
}

func (m *MockClaimRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Claim), args.Error(1)
}

func (m *MockClaimRepository) ListByStatus(ctx context.Context, status model.ClaimStatus) ([]model.Claim, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Claim), args.Error(1)
}

func (m *MockClaimRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Claim, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Claim), args.Error(1)
}

func (m *MockClaimRepository) ListApprovedForMonth(ctx context.Context, year int, month time.Month) ([]model.Claim, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Claim), args.Error(1)
}

func (m *MockClaimRepository) SumHoursForOwnerMonth(ctx context.Context, ownerID uuid.UUID, year int, month time.Month, excludeStatuses []model.ClaimStatus) (int, error) {
	args := m.Called(ctx, ownerID, year, month, excludeStatuses)
	return args.Int(0), args.Error(1)
}

func (m *MockClaimRepository) CountByOwnerMonth(ctx context.Context, ownerID uuid.UUID, year int, month time.Month, excludeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID, year, month, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClaimRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.ClaimStatus, actor uuid.UUID, at time.Time) (int64, error) {
	args := m.Called(ctx, id, from, to, actor, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClaimRepository) CountByStatus(ctx context.Context, status model.ClaimStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClaimRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClaimRepository) ExistsForOwner(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID)
	return args.Bool(0), args.Error(1)
}

// WithTransaction runs the callback against the mock itself so transactional
// paths can be exercised without a database.
func (m *MockClaimRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.ClaimRepository) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m)
}

// MockClaimEventRepository is a mock implementation of ClaimEventRepository.
type MockClaimEventRepository struct {
	mock.Mock
}

func (m *MockClaimEventRepository) Create(ctx context.Context, event *model.ClaimEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockClaimEventRepository) CreateBatch(ctx context.Context, events []model.ClaimEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// MockAttachmentStore is a mock implementation of storage.AttachmentStore.
type MockAttachmentStore struct {
	mock.Mock
}

func (m *MockAttachmentStore) Store(ctx context.Context, suggestedName, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, suggestedName, contentType, body)
	return args.String(0), args.Error(1)
}

func (m *MockAttachmentStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

// newTestNotifier builds a notifier whose event repository tolerates any
// asynchronous writes.
func newTestNotifier() *ClaimNotifier {
	eventRepo := new(MockClaimEventRepository)
	eventRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	eventRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil).Maybe()
	return NewClaimNotifier(eventRepo)
}
