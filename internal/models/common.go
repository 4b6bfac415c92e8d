// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields. IDs are generated in BeforeCreate so the
// same models migrate onto the in-memory test databases.
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Enums
type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypePartner  UserType = "partner"
	UserTypeAdmin    UserType = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type ContactType string

const (
	ContactTypeEmail ContactType = "email"
	ContactTypePhone ContactType = "phone"
)

func (c ContactType) Valid() bool {
	return c == ContactTypeEmail || c == ContactTypePhone
}

// Carrier is the shipping carrier selected at basket confirmation.
type Carrier string

const (
	CarrierPost    Carrier = "post"
	CarrierCourier Carrier = "courier"
	CarrierPickup  Carrier = "pickup"
)

func (c Carrier) Valid() bool {
	switch c {
	case CarrierPost, CarrierCourier, CarrierPickup:
		return true
	}
	return false
}
