// internal/models/catalog.go
package models

import (
	"github.com/google/uuid"
)

type Shop struct {
	BaseModel
	Name     string    `json:"name" gorm:"uniqueIndex;size:100;not null"`
	URL      string    `json:"url" gorm:"size:255"`
	Filename string    `json:"filename,omitempty" gorm:"size:255"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`

	// Relationships
	User       User       `json:"-" gorm:"foreignKey:UserID"`
	Categories []Category `json:"categories,omitempty" gorm:"many2many:shop_categories"`
	Listings   []Listing  `json:"listings,omitempty" gorm:"foreignKey:ShopID"`
}

// Category keys on the externally supplied feed id.
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name string `json:"name" gorm:"uniqueIndex;size:100;not null"`

	Shops []Shop `json:"-" gorm:"many2many:shop_categories"`
}

type Product struct {
	BaseModel
	Name       string `json:"name" gorm:"uniqueIndex;size:150;not null"`
	CategoryID uint   `json:"category_id" gorm:"not null;index"`

	Category Category  `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Listings []Listing `json:"listings,omitempty" gorm:"foreignKey:ProductID"`
}

// Listing is a shop's offering of a product. ExternalID is the import id
// supplied by the partner's feed; (shop_id, external_id) identifies the row
// across re-imports.
type Listing struct {
	BaseModel
	ExternalID uint      `json:"external_id" gorm:"not null;uniqueIndex:idx_listings_shop_external"`
	ShopID     uuid.UUID `json:"shop_id" gorm:"type:uuid;not null;uniqueIndex:idx_listings_shop_external"`
	ProductID  uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity   int       `json:"quantity" gorm:"not null;default:0"`
	Model      string    `json:"model" gorm:"size:128"`
	Price      int       `json:"price" gorm:"not null"`
	PriceRRC   int       `json:"price_rrc" gorm:"not null"`

	Shop       Shop               `json:"shop,omitempty" gorm:"foreignKey:ShopID"`
	Product    Product            `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Parameters []ListingParameter `json:"parameters,omitempty" gorm:"foreignKey:ListingID"`
}

type Parameter struct {
	BaseModel
	Name string `json:"name" gorm:"uniqueIndex;size:150;not null"`
}

type ListingParameter struct {
	BaseModel
	ListingID   uuid.UUID `json:"listing_id" gorm:"type:uuid;not null;uniqueIndex:idx_listing_parameters_pair"`
	ParameterID uuid.UUID `json:"parameter_id" gorm:"type:uuid;not null;uniqueIndex:idx_listing_parameters_pair"`
	Value       string    `json:"value" gorm:"size:255;not null"`

	Parameter Parameter `json:"parameter,omitempty" gorm:"foreignKey:ParameterID"`
}

// PartnerState gates whether the partner's listings are browsable.
type PartnerState struct {
	BaseModel
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	Active bool      `json:"active" gorm:"not null;default:true"`
}
