package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"claimhub/internal/errors"
	"claimhub/internal/model"
)

func newTestClaimService(userRepo *MockUserRepository, claimRepo *MockClaimRepository, attachments *MockAttachmentStore) ClaimService {
	return NewClaimService(userRepo, claimRepo, NewClaimValidator(testLimits()), attachments, newTestNotifier(), nil)
}

func testLecturer(rate int64) *model.User {
	return &model.User{
		ID:         uuid.New(),
		Email:      "lecturer@university.example",
		FirstName:  "Lerato",
		LastName:   "Mokoena",
		Role:       model.RoleLecturer,
		HourlyRate: decimal.NewFromInt(rate),
		Active:     true,
	}
}

func TestClaimService_Submit(t *testing.T) {
	tests := []struct {
		name         string
		input        SubmitClaimInput
		monthlyHours int
		wantRule     string
	}{
		{
			name:         "successful submission",
			input:        SubmitClaimInput{Contract: "CS-101", Category: "labor", HoursWorked: 8},
			monthlyHours: 0,
		},
		{
			name:         "five hours onto 175 reaches the cap exactly",
			input:        SubmitClaimInput{Contract: "CS-101", Category: "labor", HoursWorked: 5},
			monthlyHours: 175,
		},
		{
			name:         "one hour onto 180 exceeds the cap",
			input:        SubmitClaimInput{Contract: "CS-101", Category: "labor", HoursWorked: 1},
			monthlyHours: 180,
			wantRule:     errors.RuleMonthlyCap,
		},
		{
			name: "monthly cap reported before receipt problems",
			input: SubmitClaimInput{
				Contract:    "CS-101",
				Category:    "labor",
				HoursWorked: 5,
				Attachment: &AttachmentUpload{
					AttachmentMeta: AttachmentMeta{Name: "receipt.exe", ContentType: "application/octet-stream", Size: 1024},
					Body:           strings.NewReader("x"),
				},
			},
			monthlyHours: 180,
			wantRule:     errors.RuleMonthlyCap,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner := testLecturer(350)
			userRepo := new(MockUserRepository)
			claimRepo := new(MockClaimRepository)
			attachments := new(MockAttachmentStore)

			userRepo.On("FindByID", mock.Anything, owner.ID).Return(owner, nil)
			claimRepo.On("WithTransaction", mock.Anything).Return(nil)
			claimRepo.On("SumHoursForOwnerMonth", mock.Anything, owner.ID, mock.Anything, mock.Anything,
				[]model.ClaimStatus{model.ClaimStatusRejected}).Return(tt.monthlyHours, nil)
			if tt.wantRule == "" {
				claimRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Claim")).Return(nil)
			}

			svc := newTestClaimService(userRepo, claimRepo, attachments)
			claim, err := svc.Submit(context.Background(), Actor{ID: owner.ID, Role: model.RoleLecturer}, tt.input)

			if tt.wantRule != "" {
				assertRule(t, err, tt.wantRule)
				assert.Nil(t, claim)
				claimRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				attachments.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, model.ClaimStatusPending, claim.Status)
				assert.Equal(t, owner.ID, claim.OwnerID)
				assert.True(t, claim.HourlyRate.Equal(owner.HourlyRate))
				expected := owner.HourlyRate.Mul(decimal.NewFromInt(int64(tt.input.HoursWorked)))
				assert.True(t, claim.Amount.Equal(expected))
			}

			claimRepo.AssertExpectations(t)
		})
	}
}

func TestClaimService_Submit_HoursRuleFiresFirst(t *testing.T) {
	owner := testLecturer(350)
	userRepo := new(MockUserRepository)
	claimRepo := new(MockClaimRepository)

	userRepo.On("FindByID", mock.Anything, owner.ID).Return(owner, nil)
	claimRepo.On("WithTransaction", mock.Anything).Return(nil)
	claimRepo.On("SumHoursForOwnerMonth", mock.Anything, owner.ID, mock.Anything, mock.Anything, mock.Anything).Return(180, nil)

	svc := newTestClaimService(userRepo, claimRepo, new(MockAttachmentStore))
	_, err := svc.Submit(context.Background(), Actor{ID: owner.ID, Role: model.RoleLecturer},
		SubmitClaimInput{Contract: "", Category: "travel", HoursWorked: 13})

	assertRule(t, err, errors.RuleHoursPerClaim)
	claimRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestClaimService_Submit_RoleRequired(t *testing.T) {
	svc := newTestClaimService(new(MockUserRepository), new(MockClaimRepository), new(MockAttachmentStore))

	_, err := svc.Submit(context.Background(), Actor{ID: uuid.New(), Role: model.RoleCoordinator},
		SubmitClaimInput{Contract: "CS-101", Category: "labor", HoursWorked: 5})

	assert.ErrorIs(t, err, errors.ErrForbidden)
}

func TestClaimService_Submit_Attachments(t *testing.T) {
	t.Run("oversized receipt is rejected before upload", func(t *testing.T) {
		owner := testLecturer(350)
		userRepo := new(MockUserRepository)
		claimRepo := new(MockClaimRepository)
		attachments := new(MockAttachmentStore)

		userRepo.On("FindByID", mock.Anything, owner.ID).Return(owner, nil)
		claimRepo.On("WithTransaction", mock.Anything).Return(nil)
		claimRepo.On("SumHoursForOwnerMonth", mock.Anything, owner.ID, mock.Anything, mock.Anything, mock.Anything).Return(0, nil)

		svc := newTestClaimService(userRepo, claimRepo, attachments)
		_, err := svc.Submit(context.Background(), Actor{ID: owner.ID, Role: model.RoleLecturer},
			SubmitClaimInput{
				Contract:    "CS-101",
				Category:    "labor",
				HoursWorked: 5,
				Attachment: &AttachmentUpload{
					AttachmentMeta: AttachmentMeta{Name: "receipt.pdf", ContentType: "application/pdf", Size: 6 * 1024 * 1024},
					Body:           strings.NewReader("x"),
				},
			})

		assertRule(t, err, errors.RuleFileTooLarge)
		attachments.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		claimRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("storage failure aborts the submission", func(t *testing.T) {
		owner := testLecturer(350)
		userRepo := new(MockUserRepository)
		claimRepo := new(MockClaimRepository)
		attachments := new(MockAttachmentStore)

		userRepo.On("FindByID", mock.Anything, owner.ID).Return(owner, nil)
		claimRepo.On("WithTransaction", mock.Anything).Return(nil)
		claimRepo.On("SumHoursForOwnerMonth", mock.Anything, owner.ID, mock.Anything, mock.Anything, mock.Anything).Return(0, nil)
		attachments.On("Store", mock.Anything, "receipt.pdf", "application/pdf", mock.Anything).
			Return("", errors.NewStorageError("put", fmt.Errorf("bucket unavailable")))

		svc := newTestClaimService(userRepo, claimRepo, attachments)
		_, err := svc.Submit(context.Background(), Actor{ID: owner.ID, Role: model.RoleLecturer},
			SubmitClaimInput{
				Contract:    "CS-101",
				Category:    "labor",
				HoursWorked: 5,
				Attachment: &AttachmentUpload{
					AttachmentMeta: AttachmentMeta{Name: "receipt.pdf", ContentType: "application/pdf", Size: 1024},
					Body:           strings.NewReader("x"),
				},
			})

		var storErr *errors.StorageError
		assert.ErrorAs(t, err, &storErr)
		claimRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("valid receipt is stored with the claim", func(t *testing.T) {
		owner := testLecturer(350)
		userRepo := new(MockUserRepository)
		claimRepo := new(MockClaimRepository)
		attachments := new(MockAttachmentStore)

		userRepo.On("FindByID", mock.Anything, owner.ID).Return(owner, nil)
		claimRepo.On("WithTransaction", mock.Anything).Return(nil)
		claimRepo.On("SumHoursForOwnerMonth", mock.Anything, owner.ID, mock.Anything, mock.Anything, mock.Anything).Return(0, nil)
		claimRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Claim")).Return(nil)
		attachments.On("Store", mock.Anything, "receipt.pdf", "application/pdf", mock.Anything).
			Return("receipts/abc.pdf", nil)

		svc := newTestClaimService(userRepo, claimRepo, attachments)
		claim, err := svc.Submit(context.Background(), Actor{ID: owner.ID, Role: model.RoleLecturer},
			SubmitClaimInput{
				Contract:    "CS-101",
				Category:    "labor",
				HoursWorked: 5,
				Attachment: &AttachmentUpload{
					AttachmentMeta: AttachmentMeta{Name: "receipt.pdf", ContentType: "application/pdf", Size: 1 << 20},
					Body:           strings.NewReader("x"),
				},
			})

		assert.NoError(t, err)
		assert.Equal(t, "receipts/abc.pdf", claim.AttachmentKey)
		assert.Equal(t, "receipt.pdf", claim.AttachmentName)
		assert.Equal(t, int64(1<<20), claim.AttachmentSize)
		attachments.AssertExpectations(t)
	})
}

func TestClaimService_GetClaim_OwnershipCheck(t *testing.T) {
	ownerID := uuid.New()
	claim := &model.Claim{ID: uuid.New(), OwnerID: ownerID, Status: model.ClaimStatusPending}

	claimRepo := new(MockClaimRepository)
	claimRepo.On("FindByID", mock.Anything, claim.ID).Return(claim, nil)

	svc := newTestClaimService(new(MockUserRepository), claimRepo, new(MockAttachmentStore))

	t.Run("owner sees their claim", func(t *testing.T) {
		got, err := svc.GetClaim(context.Background(), Actor{ID: ownerID, Role: model.RoleLecturer}, claim.ID)
		assert.NoError(t, err)
		assert.Equal(t, claim.ID, got.ID)
	})

	t.Run("another lecturer does not", func(t *testing.T) {
		_, err := svc.GetClaim(context.Background(), Actor{ID: uuid.New(), Role: model.RoleLecturer}, claim.ID)
		assert.ErrorIs(t, err, errors.ErrClaimNotFound)
	})

	t.Run("coordinator sees any claim", func(t *testing.T) {
		got, err := svc.GetClaim(context.Background(), Actor{ID: uuid.New(), Role: model.RoleCoordinator}, claim.ID)
		assert.NoError(t, err)
		assert.Equal(t, claim.ID, got.ID)
	})
}

func TestClaimService_GetClaim_NotFound(t *testing.T) {
	claimRepo := new(MockClaimRepository)
	id := uuid.New()
	claimRepo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	svc := newTestClaimService(new(MockUserRepository), claimRepo, new(MockAttachmentStore))
	_, err := svc.GetClaim(context.Background(), Actor{ID: uuid.New(), Role: model.RoleCoordinator}, id)

	assert.ErrorIs(t, err, errors.ErrClaimNotFound)
}

func TestClaimService_CalculatePreview(t *testing.T) {
	owner := testLecturer(400)

	tests := []struct {
		name          string
		monthlyHours  int
		hours         int
		wantRemaining int
		wantExceed    bool
	}{
		{name: "plenty of allowance", monthlyHours: 10, hours: 8, wantRemaining: 170},
		{name: "five hours fit onto 175", monthlyHours: 175, hours: 5, wantRemaining: 5},
		{name: "six hours onto 175 would exceed", monthlyHours: 175, hours: 6, wantRemaining: 5, wantExceed: true},
		{name: "exhausted month reports zero remaining", monthlyHours: 180, hours: 1, wantRemaining: 0, wantExceed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			claimRepo := new(MockClaimRepository)

			userRepo.On("FindByID", mock.Anything, owner.ID).Return(owner, nil)
			claimRepo.On("SumHoursForOwnerMonth", mock.Anything, owner.ID, mock.Anything, mock.Anything,
				[]model.ClaimStatus{model.ClaimStatusRejected}).Return(tt.monthlyHours, nil)

			svc := newTestClaimService(userRepo, claimRepo, new(MockAttachmentStore))
			preview, err := svc.CalculatePreview(context.Background(), owner.ID, tt.hours)

			assert.NoError(t, err)
			assert.True(t, preview.HourlyRate.Equal(owner.HourlyRate))
			expected := owner.HourlyRate.Mul(decimal.NewFromInt(int64(tt.hours)))
			assert.True(t, preview.Amount.Equal(expected))
			assert.Equal(t, tt.monthlyHours, preview.MonthlyHours)
			assert.Equal(t, tt.wantRemaining, preview.RemainingHours)
			assert.Equal(t, tt.wantExceed, preview.WouldExceed)
		})
	}
}

func TestClaimService_AttachmentURL(t *testing.T) {
	ownerID := uuid.New()

	t.Run("presigns the stored receipt", func(t *testing.T) {
		claim := &model.Claim{ID: uuid.New(), OwnerID: ownerID, AttachmentKey: "receipts/abc.pdf"}
		claimRepo := new(MockClaimRepository)
		attachments := new(MockAttachmentStore)
		claimRepo.On("FindByID", mock.Anything, claim.ID).Return(claim, nil)
		attachments.On("PresignGet", mock.Anything, "receipts/abc.pdf", attachmentURLExpiry).
			Return("https://bucket/receipts/abc.pdf?sig", nil)

		svc := newTestClaimService(new(MockUserRepository), claimRepo, attachments)
		url, err := svc.AttachmentURL(context.Background(), Actor{ID: ownerID, Role: model.RoleLecturer}, claim.ID)

		assert.NoError(t, err)
		assert.Equal(t, "https://bucket/receipts/abc.pdf?sig", url)
	})

	t.Run("claim without receipt", func(t *testing.T) {
		claim := &model.Claim{ID: uuid.New(), OwnerID: ownerID}
		claimRepo := new(MockClaimRepository)
		claimRepo.On("FindByID", mock.Anything, claim.ID).Return(claim, nil)

		svc := newTestClaimService(new(MockUserRepository), claimRepo, new(MockAttachmentStore))
		_, err := svc.AttachmentURL(context.Background(), Actor{ID: ownerID, Role: model.RoleLecturer}, claim.ID)

		assert.ErrorIs(t, err, errors.ErrNoAttachment)
	})
}
