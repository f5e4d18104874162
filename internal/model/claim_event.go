package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ClaimEventType distinguishes notification events emitted by the workflow.
type ClaimEventType string

const (
	ClaimEventSubmitted ClaimEventType = "submitted"
	ClaimEventApproved  ClaimEventType = "approved"
)

// ClaimEvent is an append-only notification record consumed by downstream
// reporting. Delivery is best effort; a failed write never rolls back the
// claim state change it describes.
type ClaimEvent struct {
	ID        uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	ClaimID   uuid.UUID       `json:"claim_id" gorm:"type:char(36);not null;index"`
	OwnerID   uuid.UUID       `json:"owner_id" gorm:"type:char(36);not null;index"`
	EventType ClaimEventType  `json:"event_type" gorm:"type:varchar(20);not null;index"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Message   string          `json:"message,omitempty" gorm:"type:text"`
	CreatedAt time.Time       `json:"created_at"`

	// Relations
	Claim Claim `json:"-" gorm:"foreignKey:ClaimID"`
}

// BeforeCreate sets UUID before creating the record.
func (e *ClaimEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
