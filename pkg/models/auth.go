package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseOrgModel is the base model for all organization-scoped entities
type BaseOrgModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;index;not null;constraint:OnDelete:RESTRICT" json:"organization_id"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      *gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty" swaggerignore:"true"`
}

// BaseModel is the base model for system-wide entities
type BaseModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt *gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty" swaggerignore:"true"`
}

// BeforeCreate hook to generate UUID if not set
func (b *BaseOrgModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook to generate UUID if not set
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Organization represents a seller company/account. It is the boundary that
// scopes catalog entries, option-name mapping rules and uploaded orders.
type Organization struct {
	BaseModel
	Name               string `gorm:"not null" json:"name" validate:"required"`
	BusinessNumber     string `gorm:"column:business_number" json:"business_number"`
	RepresentativeName string `gorm:"column:representative_name" json:"representative_name"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
	Address            string `json:"address"`
	BankName           string `gorm:"column:bank_name" json:"bank_name"`
	BankAccountNumber  string `gorm:"column:bank_account_number" json:"bank_account_number"`
	BankAccountHolder  string `gorm:"column:bank_account_holder" json:"bank_account_holder"`
	Status             string `gorm:"default:'active'" json:"status"`
	MaxUsers           int    `gorm:"default:5" json:"max_users"`
}

// User represents a system or organization user
type User struct {
	BaseModel
	OrganizationID *uuid.UUID `gorm:"type:uuid;index;constraint:OnDelete:SET NULL" json:"organization_id,omitempty"` // null for system admins
	Email          string     `gorm:"unique;not null" json:"email" validate:"required,email"`
	Password       string     `gorm:"not null" json:"-"`
	Name           string     `gorm:"not null" json:"name" validate:"required"`
	Phone          string     `json:"phone"`
	Role           string     `gorm:"not null" json:"role" validate:"required"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt    *time.Time `json:"last_login_at"`
}
