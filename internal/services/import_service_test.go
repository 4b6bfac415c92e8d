// internal/services/import_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/procurehub/orders-backend/internal/apperrors"
	"github.com/procurehub/orders-backend/internal/models"
)

type ImportServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	catalog  *CatalogService
	importer *ImportService
	partner  *models.User
}

func (suite *ImportServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.catalog = NewCatalogService(suite.db)
	suite.importer = NewImportService(suite.db, suite.catalog, nil)
	suite.partner = createUser(suite.T(), suite.db, "partner1", models.UserTypePartner)
}

func (suite *ImportServiceTestSuite) countListings() int64 {
	var count int64
	suite.Require().NoError(suite.db.Model(&models.Listing{}).Count(&count).Error)
	return count
}

func (suite *ImportServiceTestSuite) TestImportCreatesCatalog() {
	result, err := suite.importer.ImportFeed(context.Background(), suite.partner.ID, []byte(testFeed))
	suite.Require().NoError(err)

	suite.Equal("TechDepot", result.Shop)
	suite.Equal(2, result.Categories)
	suite.Equal(2, result.Goods)

	var shop models.Shop
	suite.Require().NoError(suite.db.Where("name = ?", "TechDepot").First(&shop).Error)
	suite.Equal(suite.partner.ID, shop.UserID)

	suite.EqualValues(2, suite.countListings())

	listing := findListing(suite.T(), suite.db, 4216292)
	suite.Equal(110000, listing.Price)
	suite.Equal(116990, listing.PriceRRC)
	suite.Equal(14, listing.Quantity)
	suite.Equal("apple/iphone/xs-max", listing.Model)

	var params int64
	suite.Require().NoError(suite.db.Model(&models.ListingParameter{}).
		Where("listing_id = ?", listing.ID).Count(&params).Error)
	suite.EqualValues(2, params)
}

func (suite *ImportServiceTestSuite) TestReimportIsIdempotent() {
	_, err := suite.importer.ImportFeed(context.Background(), suite.partner.ID, []byte(testFeed))
	suite.Require().NoError(err)
	_, err = suite.importer.ImportFeed(context.Background(), suite.partner.ID, []byte(testFeed))
	suite.Require().NoError(err)

	suite.EqualValues(2, suite.countListings())

	var products, shops int64
	suite.Require().NoError(suite.db.Model(&models.Product{}).Count(&products).Error)
	suite.Require().NoError(suite.db.Model(&models.Shop{}).Count(&shops).Error)
	suite.EqualValues(2, products)
	suite.EqualValues(1, shops)
}

func (suite *ImportServiceTestSuite) TestReimportOverwritesListing() {
	_, err := suite.importer.ImportFeed(context.Background(), suite.partner.ID, []byte(testFeed))
	suite.Require().NoError(err)

	updated := `shop: TechDepot
categories:
  - id: 224
    name: Smartphones
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: Smartphone Apple iPhone XS Max 512GB (gold)
    price: 99000
    price_rrc: 105000
    quantity: 3
`
	_, err = suite.importer.ImportFeed(context.Background(), suite.partner.ID, []byte(updated))
	suite.Require().NoError(err)

	suite.EqualValues(2, suite.countListings())

	listing := findListing(suite.T(), suite.db, 4216292)
	suite.Equal(99000, listing.Price)
	suite.Equal(105000, listing.PriceRRC)
	suite.Equal(3, listing.Quantity)
}

func (suite *ImportServiceTestSuite) TestImportForeignShopForbidden() {
	_, err := suite.importer.ImportFeed(context.Background(), suite.partner.ID, []byte(testFeed))
	suite.Require().NoError(err)

	intruder := createUser(suite.T(), suite.db, "partner2", models.UserTypePartner)
	_, err = suite.importer.ImportFeed(context.Background(), intruder.ID, []byte(testFeed))
	suite.Require().Error(err)
	suite.Equal(apperrors.KindForbidden, apperrors.KindOf(err))

	var shop models.Shop
	suite.Require().NoError(suite.db.Where("name = ?", "TechDepot").First(&shop).Error)
	suite.Equal(suite.partner.ID, shop.UserID)
}

func (suite *ImportServiceTestSuite) TestCategoryNameConflictRollsBack() {
	_, err := suite.importer.ImportFeed(context.Background(), suite.partner.ID, []byte(testFeed))
	suite.Require().NoError(err)

	// "Smartphones" is already registered under id 224; the whole document
	// must roll back, including the new Laptops category.
	conflicting := `shop: TechDepot
categories:
  - id: 300
    name: Laptops
  - id: 999
    name: Smartphones
goods: []
`
	_, err = suite.importer.ImportFeed(context.Background(), suite.partner.ID, []byte(conflicting))
	suite.Require().Error(err)
	suite.Equal(apperrors.KindConflict, apperrors.KindOf(err))

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Category{}).Where("id IN ?", []uint{300, 999}).Count(&count).Error)
	suite.EqualValues(0, count)
}

func (suite *ImportServiceTestSuite) TestImportUnknownCategoryRejected() {
	// No categories section and nothing in the store: the good's category
	// cannot resolve, so nothing may be written.
	doc := `shop: TechDepot
goods:
  - id: 77
    category: 999
    name: Orphan Product
    price: 100
    price_rrc: 120
    quantity: 1
`
	_, err := suite.importer.ImportFeed(context.Background(), suite.partner.ID, []byte(doc))
	suite.Require().Error(err)
	suite.Equal(apperrors.KindValidation, apperrors.KindOf(err))

	var products int64
	suite.Require().NoError(suite.db.Model(&models.Product{}).Count(&products).Error)
	suite.EqualValues(0, products)
	suite.EqualValues(0, suite.countListings())

	// Browsing still works after the rejected import.
	_, total, err := suite.catalog.ListVisibleProducts(context.Background(), defaultParams())
	suite.Require().NoError(err)
	suite.EqualValues(0, total)
}

func (suite *ImportServiceTestSuite) TestImportResolvesCategoryFromStore() {
	_, err := suite.importer.ImportFeed(context.Background(), suite.partner.ID, []byte(testFeed))
	suite.Require().NoError(err)

	// A later merge document may lean on categories from earlier imports.
	doc := `shop: TechDepot
goods:
  - id: 5100
    category: 224
    name: Smartphone Apple iPhone XR 64GB
    price: 60000
    price_rrc: 64990
    quantity: 6
`
	result, err := suite.importer.ImportFeed(context.Background(), suite.partner.ID, []byte(doc))
	suite.Require().NoError(err)
	suite.Equal(1, result.Goods)

	listing := findListing(suite.T(), suite.db, 5100)
	suite.Equal(60000, listing.Price)
}

func (suite *ImportServiceTestSuite) TestMalformedDocument() {
	for _, doc := range []string{
		"shop: [unclosed",
		"categories:\n  - id: 1\n    name: Phones\n",
		"shop: TechDepot\nno_such_key: true\n",
	} {
		_, err := suite.importer.ImportFeed(context.Background(), suite.partner.ID, []byte(doc))
		suite.Require().Error(err, doc)
		suite.Equal(apperrors.KindValidation, apperrors.KindOf(err), doc)
	}
	suite.EqualValues(0, suite.countListings())
}

func (suite *ImportServiceTestSuite) TestDeleteFeedRemovesListings() {
	_, err := suite.importer.ImportFeed(context.Background(), suite.partner.ID, []byte(testFeed))
	suite.Require().NoError(err)

	deletion := `shop: TechDepot
goods:
  - id: 4216313
    category: 15
    name: Silicone Case iPhone XS Max
`
	result, err := suite.importer.DeleteFeed(context.Background(), suite.partner.ID, []byte(deletion))
	suite.Require().NoError(err)
	suite.Equal(1, result.Deleted)

	suite.EqualValues(1, suite.countListings())

	// The product record survives; only the shop's offering is gone.
	var product models.Product
	suite.Require().NoError(suite.db.Where("name = ?", "Silicone Case iPhone XS Max").First(&product).Error)

	// The (shop, external_id) slot is free again for the next import.
	_, err = suite.importer.ImportFeed(context.Background(), suite.partner.ID, []byte(testFeed))
	suite.Require().NoError(err)
	suite.EqualValues(2, suite.countListings())
}

func (suite *ImportServiceTestSuite) TestDeleteFeedMissingListingAborts() {
	_, err := suite.importer.ImportFeed(context.Background(), suite.partner.ID, []byte(testFeed))
	suite.Require().NoError(err)

	deletion := `shop: TechDepot
goods:
  - id: 4216313
    category: 15
    name: Silicone Case iPhone XS Max
  - id: 999999
    category: 15
    name: No Such Product
`
	_, err = suite.importer.DeleteFeed(context.Background(), suite.partner.ID, []byte(deletion))
	suite.Require().Error(err)
	suite.Equal(apperrors.KindNotFound, apperrors.KindOf(err))

	// One bad reference leaves everything in place.
	suite.EqualValues(2, suite.countListings())
}

func (suite *ImportServiceTestSuite) TestDeleteFeedUnknownShop() {
	deletion := `shop: NoSuchShop
goods:
  - id: 1
    category: 15
    name: Anything
`
	_, err := suite.importer.DeleteFeed(context.Background(), suite.partner.ID, []byte(deletion))
	suite.Require().Error(err)
	suite.Equal(apperrors.KindNotFound, apperrors.KindOf(err))
}

func (suite *ImportServiceTestSuite) TestDeleteFeedForeignShop() {
	_, err := suite.importer.ImportFeed(context.Background(), suite.partner.ID, []byte(testFeed))
	suite.Require().NoError(err)

	intruder := createUser(suite.T(), suite.db, "partner2", models.UserTypePartner)
	deletion := `shop: TechDepot
goods:
  - id: 4216313
    category: 15
    name: Silicone Case iPhone XS Max
`
	_, err = suite.importer.DeleteFeed(context.Background(), intruder.ID, []byte(deletion))
	suite.Require().Error(err)
	suite.Equal(apperrors.KindNotFound, apperrors.KindOf(err))
	suite.EqualValues(2, suite.countListings())
}

func TestImportServiceSuite(t *testing.T) {
	suite.Run(t, new(ImportServiceTestSuite))
}
