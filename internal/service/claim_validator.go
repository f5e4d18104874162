package service

import (
	"fmt"
	"path/filepath"
	"strings"

	"claimhub/internal/config"
	"claimhub/internal/errors"
)

// AttachmentMeta describes an uploaded receipt before its bytes are accepted.
type AttachmentMeta struct {
	Name        string
	ContentType string
	Size        int64
}

// ClaimValidator runs the pure business rule checks a candidate claim must
// pass. It holds only the configured limits and never touches state; callers
// supply the aggregates (monthly hours, claim counts) the rules compare
// against, so every rule is testable with synthetic histories.
type ClaimValidator struct {
	limits config.ClaimLimits
}

// NewClaimValidator creates a validator with the given limits.
func NewClaimValidator(limits config.ClaimLimits) *ClaimValidator {
	return &ClaimValidator{limits: limits}
}

// ValidateHours checks the per-claim hours cap.
func (v *ClaimValidator) ValidateHours(hours int) error {
	if hours <= 0 || hours > v.limits.MaxHoursPerClaim {
		return errors.NewValidationError(errors.RuleHoursPerClaim,
			fmt.Sprintf("hours worked must be between 1 and %d", v.limits.MaxHoursPerClaim),
			map[string]interface{}{
				"hours_worked": hours,
				"max_hours":    v.limits.MaxHoursPerClaim,
			})
	}
	return nil
}

// ValidateFields checks that contract and category are present and that the
// category is on the configured allow-list.
func (v *ClaimValidator) ValidateFields(contract, category string) error {
	if strings.TrimSpace(contract) == "" {
		return errors.NewValidationError(errors.RuleMissingField,
			"contract is required",
			map[string]interface{}{"field": "contract"})
	}
	if strings.TrimSpace(category) == "" {
		return errors.NewValidationError(errors.RuleMissingField,
			"category is required",
			map[string]interface{}{"field": "category"})
	}
	for _, allowed := range v.limits.AllowedCategories {
		if strings.EqualFold(category, allowed) {
			return nil
		}
	}
	return errors.NewValidationError(errors.RuleMissingField,
		fmt.Sprintf("category must be one of: %s", strings.Join(v.limits.AllowedCategories, ", ")),
		map[string]interface{}{
			"field":    "category",
			"category": category,
		})
}

// ValidateMonthlyHours checks the monthly hours ceiling given the owner's
// current non-rejected total for the claim's calendar month. Details carry
// the current total and remaining allowance for a precise caller message.
func (v *ClaimValidator) ValidateMonthlyHours(monthlyHours, hours int) error {
	if monthlyHours+hours > v.limits.MonthlyHoursCap {
		remaining := v.limits.MonthlyHoursCap - monthlyHours
		if remaining < 0 {
			remaining = 0
		}
		return errors.NewValidationError(errors.RuleMonthlyCap,
			fmt.Sprintf("maximum monthly hours (%d) exceeded: %d hours already claimed this month", v.limits.MonthlyHoursCap, monthlyHours),
			map[string]interface{}{
				"monthly_hours":   monthlyHours,
				"remaining_hours": remaining,
				"monthly_cap":     v.limits.MonthlyHoursCap,
			})
	}
	return nil
}

// ValidateAttachment checks receipt size and extension. A nil attachment is
// always valid.
func (v *ClaimValidator) ValidateAttachment(att *AttachmentMeta) error {
	if att == nil {
		return nil
	}
	if att.Size > v.limits.MaxAttachmentBytes {
		return errors.NewValidationError(errors.RuleFileTooLarge,
			fmt.Sprintf("file size must not exceed %d bytes", v.limits.MaxAttachmentBytes),
			map[string]interface{}{
				"size":      att.Size,
				"max_bytes": v.limits.MaxAttachmentBytes,
			})
	}
	ext := strings.ToLower(filepath.Ext(att.Name))
	for _, allowed := range v.limits.AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return errors.NewValidationError(errors.RuleFileType,
		fmt.Sprintf("only %s files are allowed", strings.Join(v.limits.AllowedExtensions, ", ")),
		map[string]interface{}{"extension": ext})
}

// ValidateClaimCount checks the reviewer-side duplicate rule: the number of
// the owner's other claims in the same month, regardless of status, must not
// exceed the monthly claim allowance.
func (v *ClaimValidator) ValidateClaimCount(otherClaims int64) error {
	if otherClaims > int64(v.limits.MaxClaimsPerMonth) {
		return errors.NewValidationError(errors.RuleClaimCount,
			fmt.Sprintf("maximum claims per contract for this month (%d) reached", v.limits.MaxClaimsPerMonth),
			map[string]interface{}{
				"claim_count": otherClaims,
				"max_claims":  v.limits.MaxClaimsPerMonth,
			})
	}
	return nil
}

// ValidateSubmission runs the submission-time rules in order, short-circuiting
// on the first failure: per-claim hours, required fields, monthly cap,
// attachment constraints.
func (v *ClaimValidator) ValidateSubmission(contract, category string, hours, monthlyHours int, att *AttachmentMeta) error {
	if err := v.ValidateHours(hours); err != nil {
		return err
	}
	if err := v.ValidateFields(contract, category); err != nil {
		return err
	}
	if err := v.ValidateMonthlyHours(monthlyHours, hours); err != nil {
		return err
	}
	return v.ValidateAttachment(att)
}

// MonthlyHoursCap exposes the configured ceiling for preview calculations.
func (v *ClaimValidator) MonthlyHoursCap() int {
	return v.limits.MonthlyHoursCap
}
