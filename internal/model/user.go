package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Role identifies what a user may do in the claim workflow.
type Role string

const (
	RoleLecturer    Role = "lecturer"
	RoleCoordinator Role = "coordinator"
	RoleHR          Role = "hr"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleLecturer, RoleCoordinator, RoleHR:
		return true
	}
	return false
}

// User represents a lecturer, coordinator, or HR staff member.
// HourlyRate is the authoritative pay rate a lecturer's claims are priced at;
// it is always read from this record at submission time, never from a request.
type User struct {
	ID           uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Email        string          `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string          `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FirstName    string          `json:"first_name" gorm:"size:100;not null"`
	LastName     string          `json:"last_name" gorm:"size:100;not null"`
	Role         Role            `json:"role" gorm:"type:varchar(20);not null;index"`
	Department   string          `json:"department" gorm:"size:255"`
	HourlyRate   decimal.Decimal `json:"hourly_rate" gorm:"type:decimal(20,2);not null;default:0"`
	Active       bool            `json:"active" gorm:"default:true;index"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relations
	Claims []Claim `json:"claims,omitempty" gorm:"foreignKey:OwnerID"`
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
