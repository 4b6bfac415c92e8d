// internal/services/testutil_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/procurehub/orders-backend/internal/database"
	"github.com/procurehub/orders-backend/internal/models"
	"github.com/procurehub/orders-backend/internal/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Each connection to :memory: is a separate database; pin the pool to
	// one connection so the schema is shared.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// createUser creates an account with its order-side provisioning, the way
// registration does: customers get a basket, partners a visibility state.
func createUser(t *testing.T, db *gorm.DB, username string, userType models.UserType) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		UserType: userType,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("TestPass123!"))
	require.NoError(t, db.Create(user).Error)

	switch userType {
	case models.UserTypeCustomer:
		require.NoError(t, db.Create(&models.Basket{UserID: user.ID}).Error)
	case models.UserTypePartner:
		require.NoError(t, db.Create(&models.PartnerState{UserID: user.ID, Active: true}).Error)
	}
	return user
}

func defaultParams() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
}

func findListing(t *testing.T, db *gorm.DB, externalID uint) *models.Listing {
	t.Helper()

	var listing models.Listing
	require.NoError(t, db.Where("external_id = ?", externalID).First(&listing).Error)
	return &listing
}

const testFeed = `shop: TechDepot
categories:
  - id: 224
    name: Smartphones
  - id: 15
    name: Accessories
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: Smartphone Apple iPhone XS Max 512GB (gold)
    price: 110000
    price_rrc: 116990
    quantity: 14
    parameters:
      "Screen Size (inches)": "6.5"
      "Color": "gold"
  - id: 4216313
    category: 15
    model: apple/silicone-case
    name: Silicone Case iPhone XS Max
    price: 1500
    price_rrc: 1990
    quantity: 50
    parameters:
      "Color": "black"
`

const testFeedSecondShop = `shop: MobileHub
categories:
  - id: 224
    name: Smartphones
goods:
  - id: 510221
    category: 224
    model: samsung/galaxy/s10
    name: Smartphone Samsung Galaxy S10 128GB
    price: 55000
    price_rrc: 59990
    quantity: 8
    parameters:
      "Color": "white"
`
