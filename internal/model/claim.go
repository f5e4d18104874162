package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ClaimStatus represents the lifecycle state of a claim.
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
)

// Claim represents a lecturer's request for payment for hours worked
// against a contract. Amount is always HoursWorked times HourlyRate, with
// the rate copied from the owner's profile at submission time. Approved and
// rejected are terminal states; there is no re-open.
type Claim struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	OwnerID     uuid.UUID       `json:"owner_id" gorm:"type:char(36);not null;index"`
	Contract    string          `json:"contract" gorm:"size:255;not null"`
	Category    string          `json:"category" gorm:"size:100;not null"`
	ClaimDate   time.Time       `json:"claim_date" gorm:"not null;index"`
	HoursWorked int             `json:"hours_worked" gorm:"not null"`
	HourlyRate  decimal.Decimal `json:"hourly_rate" gorm:"type:decimal(20,2);not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Status      ClaimStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`

	// Receipt metadata; empty when no attachment was supplied.
	AttachmentName string `json:"attachment_name,omitempty" gorm:"size:255"`
	AttachmentKey  string `json:"attachment_key,omitempty" gorm:"size:512"`
	AttachmentType string `json:"attachment_type,omitempty" gorm:"size:100"`
	AttachmentSize int64  `json:"attachment_size,omitempty"`

	ApprovedAt *time.Time     `json:"approved_at,omitempty"`
	ApprovedBy *uuid.UUID     `json:"approved_by,omitempty" gorm:"type:char(36)"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Owner User `json:"-" gorm:"foreignKey:OwnerID"`
}

// HasAttachment reports whether a receipt was stored with the claim.
func (c *Claim) HasAttachment() bool {
	return c.AttachmentKey != ""
}

// BeforeCreate sets UUID before creating the record.
func (c *Claim) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
