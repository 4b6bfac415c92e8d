// internal/services/notification_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/procurehub/orders-backend/internal/config"
	"github.com/procurehub/orders-backend/internal/models"
)

type NotificationServiceTestSuite struct {
	suite.Suite
	db            *gorm.DB
	notifications *NotificationService
}

func (suite *NotificationServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	// SMTP stays unconfigured: delivery is skipped, queue mechanics still run.
	suite.notifications = NewNotificationService(suite.db, &config.Config{
		Import: config.ImportConfig{QueueSize: 4},
	})
}

func (suite *NotificationServiceTestSuite) TestStartStopDrainsQueue() {
	suite.notifications.Start()

	for i := 0; i < 10; i++ {
		suite.notifications.enqueue(notificationEvent{
			Recipient: "someone@example.com",
			Subject:   "test",
		})
	}

	// Stop must drain and return; a hang here fails the test by timeout.
	suite.notifications.Stop()
	suite.notifications.Stop() // idempotent
}

func (suite *NotificationServiceTestSuite) TestEnqueueNeverBlocksWhenFull() {
	// Worker not started, so nothing drains the queue.
	for i := 0; i < 20; i++ {
		suite.notifications.enqueue(notificationEvent{Recipient: "someone@example.com"})
	}
	suite.Len(suite.notifications.events, 4)
}

func (suite *NotificationServiceTestSuite) TestPartnersForOrder() {
	importer := NewImportService(suite.db, NewCatalogService(suite.db), nil)
	baskets := NewBasketService(suite.db, nil)

	partner1 := createUser(suite.T(), suite.db, "partner1", models.UserTypePartner)
	partner2 := createUser(suite.T(), suite.db, "partner2", models.UserTypePartner)
	customer := createUser(suite.T(), suite.db, "customer1", models.UserTypeCustomer)

	ctx := context.Background()
	_, err := importer.ImportFeed(ctx, partner1.ID, []byte(testFeed))
	suite.Require().NoError(err)
	_, err = importer.ImportFeed(ctx, partner2.ID, []byte(testFeedSecondShop))
	suite.Require().NoError(err)

	phone := findListing(suite.T(), suite.db, 4216292)
	caseListing := findListing(suite.T(), suite.db, 4216313)
	samsung := findListing(suite.T(), suite.db, 510221)
	for _, listing := range []*models.Listing{phone, caseListing, samsung} {
		_, err := baskets.AddOrUpdateLine(ctx, customer.ID,
			&AddLineRequest{ListingID: listing.ID, Quantity: 1})
		suite.Require().NoError(err)
	}

	order, err := baskets.Confirm(ctx, customer.ID, &ShippingDetails{
		Address: "1 Main Street",
		City:    "Springfield",
		Index:   "123456",
		Mail:    models.CarrierPickup,
		Phone:   "+15550100",
	})
	suite.Require().NoError(err)

	// Two lines from partner1's shop, one from partner2's: each partner
	// appears exactly once.
	partners := suite.notifications.partnersForOrder(order)
	suite.Require().Len(partners, 2)

	usernames := map[string]bool{}
	for _, p := range partners {
		usernames[p.Username] = true
	}
	suite.True(usernames["partner1"])
	suite.True(usernames["partner2"])
}

func TestNotificationServiceSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
