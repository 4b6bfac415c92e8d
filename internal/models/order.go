// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

// Basket is a customer's mutable order draft. One per customer, created when
// the account is provisioned, drained (not deleted) on each confirmation.
type Basket struct {
	BaseModel
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`

	Lines []BasketLine `json:"lines,omitempty" gorm:"foreignKey:BasketID"`
}

type BasketLine struct {
	BaseModel
	BasketID  uuid.UUID `json:"basket_id" gorm:"type:uuid;not null;uniqueIndex:idx_basket_lines_listing"`
	ListingID uuid.UUID `json:"listing_id" gorm:"type:uuid;not null;uniqueIndex:idx_basket_lines_listing"`
	Quantity  int       `json:"quantity" gorm:"not null"`

	Listing Listing `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
}

// ConfirmedOrder is the immutable snapshot created when a basket is
// finalized with shipping details.
type ConfirmedOrder struct {
	BaseModel
	UserID  uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Address string    `json:"address" gorm:"size:255;not null"`
	City    string    `json:"city" gorm:"size:100;not null"`
	Index   string    `json:"index" gorm:"size:20;not null"`
	Phone   string    `json:"phone" gorm:"size:30;not null"`
	Carrier Carrier   `json:"carrier" gorm:"type:varchar(20);not null"`

	User  User        `json:"-" gorm:"foreignKey:UserID"`
	Lines []OrderLine `json:"lines,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderLine carries value copies of the listing's price fields taken at
// confirmation time; later listing changes never reach a confirmed order.
type OrderLine struct {
	BaseModel
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ListingID uuid.UUID `json:"listing_id" gorm:"type:uuid;not null;index"`
	ShopID    uuid.UUID `json:"shop_id" gorm:"type:uuid;not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Price     int       `json:"price" gorm:"not null"`
	PriceRRC  int       `json:"price_rrc" gorm:"not null"`

	Listing Listing `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
}
