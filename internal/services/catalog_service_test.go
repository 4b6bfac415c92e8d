// internal/services/catalog_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/procurehub/orders-backend/internal/apperrors"
	"github.com/procurehub/orders-backend/internal/models"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	catalog  *CatalogService
	partners *PartnerService
	importer *ImportService
	partner  *models.User
}

func (suite *CatalogServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.catalog = NewCatalogService(suite.db)
	suite.partners = NewPartnerService(suite.db)
	suite.importer = NewImportService(suite.db, suite.catalog, nil)
	suite.partner = createUser(suite.T(), suite.db, "partner1", models.UserTypePartner)

	_, err := suite.importer.ImportFeed(context.Background(), suite.partner.ID, []byte(testFeed))
	suite.Require().NoError(err)
}

func (suite *CatalogServiceTestSuite) TestListVisibleProducts() {
	products, total, err := suite.catalog.ListVisibleProducts(context.Background(), defaultParams())
	suite.Require().NoError(err)

	suite.EqualValues(2, total)
	suite.Len(products, 2)
	for _, p := range products {
		suite.NotEmpty(p.Category.Name)
		suite.Require().Len(p.Listings, 1)
		suite.Equal("TechDepot", p.Listings[0].Shop.Name)
	}
}

func (suite *CatalogServiceTestSuite) TestSearchFilter() {
	params := defaultParams()
	params.Search = "silicone"

	products, total, err := suite.catalog.ListVisibleProducts(context.Background(), params)
	suite.Require().NoError(err)
	suite.EqualValues(1, total)
	suite.Require().Len(products, 1)
	suite.Equal("Silicone Case iPhone XS Max", products[0].Name)
}

func (suite *CatalogServiceTestSuite) TestCategoryFilter() {
	params := defaultParams()
	params.Category = "Accessories"

	products, total, err := suite.catalog.ListVisibleProducts(context.Background(), params)
	suite.Require().NoError(err)
	suite.EqualValues(1, total)
	suite.Require().Len(products, 1)
	suite.Equal("Silicone Case iPhone XS Max", products[0].Name)
}

func (suite *CatalogServiceTestSuite) TestGetVisibleProduct() {
	listing := findListing(suite.T(), suite.db, 4216292)

	product, err := suite.catalog.GetVisibleProduct(context.Background(), listing.ProductID)
	suite.Require().NoError(err)

	suite.Equal("Smartphone Apple iPhone XS Max 512GB (gold)", product.Name)
	suite.Equal("Smartphones", product.Category.Name)
	suite.Require().Len(product.Listings, 1)
	suite.Len(product.Listings[0].Parameters, 2)
}

func (suite *CatalogServiceTestSuite) TestGetVisibleProductUnknownID() {
	_, err := suite.catalog.GetVisibleProduct(context.Background(), uuid.New())
	suite.Require().Error(err)
	suite.Equal(apperrors.KindNotFound, apperrors.KindOf(err))
}

func (suite *CatalogServiceTestSuite) TestInactivePartnerHidesProducts() {
	suite.Require().NoError(suite.partners.SetState(context.Background(), suite.partner.ID, false))

	_, total, err := suite.catalog.ListVisibleProducts(context.Background(), defaultParams())
	suite.Require().NoError(err)
	suite.EqualValues(0, total)

	listing := findListing(suite.T(), suite.db, 4216292)
	_, err = suite.catalog.GetVisibleProduct(context.Background(), listing.ProductID)
	suite.Require().Error(err)
	suite.Equal(apperrors.KindNotFound, apperrors.KindOf(err))

	// Flipping the gate back restores visibility without a re-import.
	suite.Require().NoError(suite.partners.SetState(context.Background(), suite.partner.ID, true))

	_, total, err = suite.catalog.ListVisibleProducts(context.Background(), defaultParams())
	suite.Require().NoError(err)
	suite.EqualValues(2, total)
}

func (suite *CatalogServiceTestSuite) TestGateFiltersPerPartnerListings() {
	other := createUser(suite.T(), suite.db, "partner2", models.UserTypePartner)
	_, err := suite.importer.ImportFeed(context.Background(), other.ID, []byte(testFeedSecondShop))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.partners.SetState(context.Background(), suite.partner.ID, false))

	products, total, err := suite.catalog.ListVisibleProducts(context.Background(), defaultParams())
	suite.Require().NoError(err)
	suite.EqualValues(1, total)
	suite.Require().Len(products, 1)
	suite.Equal("Smartphone Samsung Galaxy S10 128GB", products[0].Name)
	suite.Require().Len(products[0].Listings, 1)
	suite.Equal("MobileHub", products[0].Listings[0].Shop.Name)
}

func (suite *CatalogServiceTestSuite) TestDeleteListing() {
	listing := findListing(suite.T(), suite.db, 4216292)

	// Only the owning partner may delete; others see nothing to delete.
	intruder := createUser(suite.T(), suite.db, "partner2", models.UserTypePartner)
	err := suite.catalog.DeleteListing(suite.db, listing.ID, intruder.ID)
	suite.Require().Error(err)
	suite.Equal(apperrors.KindNotFound, apperrors.KindOf(err))

	suite.Require().NoError(suite.catalog.DeleteListing(suite.db, listing.ID, suite.partner.ID))

	var listings, params int64
	suite.Require().NoError(suite.db.Model(&models.Listing{}).Count(&listings).Error)
	suite.Require().NoError(suite.db.Model(&models.ListingParameter{}).
		Where("listing_id = ?", listing.ID).Count(&params).Error)
	suite.EqualValues(1, listings)
	suite.EqualValues(0, params)

	err = suite.catalog.DeleteListing(suite.db, listing.ID, suite.partner.ID)
	suite.Require().Error(err)
	suite.Equal(apperrors.KindNotFound, apperrors.KindOf(err))
}

func (suite *CatalogServiceTestSuite) TestPagination() {
	params := defaultParams()
	params.Limit = 1
	params.Sort = "name"
	params.Order = "asc"

	products, total, err := suite.catalog.ListVisibleProducts(context.Background(), params)
	suite.Require().NoError(err)
	suite.EqualValues(2, total)
	suite.Require().Len(products, 1)
	suite.Equal("Silicone Case iPhone XS Max", products[0].Name)

	params.Page = 2
	products, _, err = suite.catalog.ListVisibleProducts(context.Background(), params)
	suite.Require().NoError(err)
	suite.Require().Len(products, 1)
	suite.Equal("Smartphone Apple iPhone XS Max 512GB (gold)", products[0].Name)
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}
