package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"claimhub/internal/config"
	"claimhub/internal/errors"
)

func testLimits() config.ClaimLimits {
	return config.ClaimLimits{
		MaxHoursPerClaim:   12,
		MonthlyHoursCap:    180,
		MaxClaimsPerMonth:  5,
		MaxAttachmentBytes: 5 * 1024 * 1024,
		AllowedExtensions:  []string{".pdf", ".docx", ".xlsx"},
		AllowedCategories:  []string{"labor", "equipment", "materials"},
	}
}

func assertRule(t *testing.T, err error, rule string) {
	t.Helper()
	var valErr *errors.ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, rule, valErr.Rule)
}

func TestClaimValidator_ValidateHours(t *testing.T) {
	v := NewClaimValidator(testLimits())

	tests := []struct {
		name     string
		hours    int
		wantRule string
	}{
		{name: "one hour is valid", hours: 1},
		{name: "cap boundary is valid", hours: 12},
		{name: "thirteen hours always fails", hours: 13, wantRule: errors.RuleHoursPerClaim},
		{name: "zero hours fails", hours: 0, wantRule: errors.RuleHoursPerClaim},
		{name: "negative hours fails", hours: -3, wantRule: errors.RuleHoursPerClaim},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateHours(tt.hours)
			if tt.wantRule == "" {
				assert.NoError(t, err)
			} else {
				assertRule(t, err, tt.wantRule)
			}
		})
	}
}

func TestClaimValidator_ValidateFields(t *testing.T) {
	v := NewClaimValidator(testLimits())

	tests := []struct {
		name     string
		contract string
		category string
		wantRule string
	}{
		{name: "valid fields", contract: "CS-101", category: "labor"},
		{name: "category allow-list is case insensitive", contract: "CS-101", category: "Labor"},
		{name: "empty contract", contract: "  ", category: "labor", wantRule: errors.RuleMissingField},
		{name: "empty category", contract: "CS-101", category: "", wantRule: errors.RuleMissingField},
		{name: "unknown category", contract: "CS-101", category: "travel", wantRule: errors.RuleMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateFields(tt.contract, tt.category)
			if tt.wantRule == "" {
				assert.NoError(t, err)
			} else {
				assertRule(t, err, tt.wantRule)
			}
		})
	}
}

func TestClaimValidator_ValidateMonthlyHours(t *testing.T) {
	v := NewClaimValidator(testLimits())

	t.Run("reaching the cap exactly is valid", func(t *testing.T) {
		assert.NoError(t, v.ValidateMonthlyHours(175, 5))
	})

	t.Run("exceeding the cap fails with remaining allowance", func(t *testing.T) {
		err := v.ValidateMonthlyHours(180, 1)
		assertRule(t, err, errors.RuleMonthlyCap)

		var valErr *errors.ValidationError
		assert.ErrorAs(t, err, &valErr)
		assert.Equal(t, 180, valErr.Details["monthly_hours"])
		assert.Equal(t, 0, valErr.Details["remaining_hours"])
	})

	t.Run("partial allowance is reported", func(t *testing.T) {
		err := v.ValidateMonthlyHours(175, 6)
		assertRule(t, err, errors.RuleMonthlyCap)

		var valErr *errors.ValidationError
		assert.ErrorAs(t, err, &valErr)
		assert.Equal(t, 5, valErr.Details["remaining_hours"])
	})
}

func TestClaimValidator_ValidateAttachment(t *testing.T) {
	v := NewClaimValidator(testLimits())

	tests := []struct {
		name     string
		att      *AttachmentMeta
		wantRule string
	}{
		{name: "no attachment is always valid", att: nil},
		{name: "one MiB pdf is valid", att: &AttachmentMeta{Name: "receipt.pdf", Size: 1 << 20}},
		{name: "size boundary is valid", att: &AttachmentMeta{Name: "receipt.docx", Size: 5 * 1024 * 1024}},
		{name: "six MiB fails", att: &AttachmentMeta{Name: "receipt.pdf", Size: 6 * 1024 * 1024}, wantRule: errors.RuleFileTooLarge},
		{name: "exe fails regardless of size", att: &AttachmentMeta{Name: "receipt.exe", Size: 100}, wantRule: errors.RuleFileType},
		{name: "uppercase extension is accepted", att: &AttachmentMeta{Name: "RECEIPT.PDF", Size: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateAttachment(tt.att)
			if tt.wantRule == "" {
				assert.NoError(t, err)
			} else {
				assertRule(t, err, tt.wantRule)
			}
		})
	}
}

func TestClaimValidator_ValidateClaimCount(t *testing.T) {
	v := NewClaimValidator(testLimits())

	assert.NoError(t, v.ValidateClaimCount(0))
	assert.NoError(t, v.ValidateClaimCount(5))
	assertRule(t, v.ValidateClaimCount(6), errors.RuleClaimCount)
}

func TestClaimValidator_ValidateSubmission_ShortCircuitOrder(t *testing.T) {
	v := NewClaimValidator(testLimits())

	// Hours rule fires first even when later rules would also fail.
	err := v.ValidateSubmission("", "", 13, 200, &AttachmentMeta{Name: "x.exe", Size: 10 << 20})
	assertRule(t, err, errors.RuleHoursPerClaim)

	// Then fields, before the monthly cap.
	err = v.ValidateSubmission("", "labor", 5, 200, nil)
	assertRule(t, err, errors.RuleMissingField)

	// Then the monthly cap, before the attachment rules.
	err = v.ValidateSubmission("CS-101", "labor", 5, 178, &AttachmentMeta{Name: "x.exe", Size: 10})
	assertRule(t, err, errors.RuleMonthlyCap)

	// Attachment rules last.
	err = v.ValidateSubmission("CS-101", "labor", 5, 0, &AttachmentMeta{Name: "x.exe", Size: 10})
	assertRule(t, err, errors.RuleFileType)

	assert.NoError(t, v.ValidateSubmission("CS-101", "labor", 5, 0, &AttachmentMeta{Name: "x.pdf", Size: 10}))
}
