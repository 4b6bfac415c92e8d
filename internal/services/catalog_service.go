// internal/services/catalog_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procurehub/orders-backend/internal/apperrors"
	"github.com/procurehub/orders-backend/internal/models"
	"github.com/procurehub/orders-backend/internal/utils"
)

// CatalogService is the catalog store: shops, categories, products, listings
// and their parameters. Upsert methods take the *gorm.DB they should run on
// so the importer can compose them into one transaction.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// UpsertShop creates the shop or fetches it by name. The name is the natural
// key; an existing shop owned by a different partner is a conflict.
func (s *CatalogService) UpsertShop(db *gorm.DB, name, url string, ownerID uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	err := db.Where("name = ?", name).First(&shop).Error
	if err == nil {
		if shop.UserID != ownerID {
			return nil, apperrors.Newf(apperrors.KindForbidden, "shop %q belongs to another partner", name)
		}
		if url != "" && shop.URL != url {
			if err := db.Model(&shop).Update("url", url).Error; err != nil {
				return nil, wrapDBError(err)
			}
		}
		return &shop, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapDBError(err)
	}

	shop = models.Shop{Name: name, URL: url, UserID: ownerID}
	if err := db.Create(&shop).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &shop, nil
}

// UpsertCategory creates the category under its externally supplied id. A
// name already registered under a different id is a conflict.
func (s *CatalogService) UpsertCategory(db *gorm.DB, id uint, name string) (*models.Category, error) {
	var byName models.Category
	err := db.Where("name = ?", name).First(&byName).Error
	if err == nil {
		if byName.ID != id {
			return nil, apperrors.Newf(apperrors.KindConflict, "category name %q already registered under id %d", name, byName.ID)
		}
		return &byName, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapDBError(err)
	}

	var byID models.Category
	err = db.Where("id = ?", id).First(&byID).Error
	if err == nil {
		// Same id, different name: the feed renames the category.
		if err := db.Model(&byID).Update("name", name).Error; err != nil {
			return nil, wrapDBError(err)
		}
		byID.Name = name
		return &byID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapDBError(err)
	}

	category := models.Category{ID: id, Name: name}
	if err := db.Create(&category).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &category, nil
}

// LinkShopCategory records that the shop offers goods in the category.
func (s *CatalogService) LinkShopCategory(db *gorm.DB, shop *models.Shop, category *models.Category) error {
	if err := db.Model(shop).Association("Categories").Append(category); err != nil {
		return wrapDBError(err)
	}
	return nil
}

// UpsertProduct fetches or creates a product by name.
func (s *CatalogService) UpsertProduct(db *gorm.DB, name string, categoryID uint) (*models.Product, error) {
	var product models.Product
	err := db.Where("name = ?", name).First(&product).Error
	if err == nil {
		return &product, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapDBError(err)
	}

	product = models.Product{Name: name, CategoryID: categoryID}
	if err := db.Create(&product).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &product, nil
}

// UpsertListing creates the listing for (shop, externalID) or overwrites its
// mutable fields in place. Re-running with the same id never duplicates.
func (s *CatalogService) UpsertListing(db *gorm.DB, externalID uint, productID, shopID uuid.UUID, quantity int, model string, price, priceRRC int) (*models.Listing, error) {
	var listing models.Listing
	err := db.Where("shop_id = ? AND external_id = ?", shopID, externalID).First(&listing).Error
	if err == nil {
		updates := map[string]interface{}{
			"product_id": productID,
			"quantity":   quantity,
			"model":      model,
			"price":      price,
			"price_rrc":  priceRRC,
		}
		if err := db.Model(&listing).Updates(updates).Error; err != nil {
			return nil, wrapDBError(err)
		}
		listing.ProductID = productID
		listing.Quantity = quantity
		listing.Model = model
		listing.Price = price
		listing.PriceRRC = priceRRC
		return &listing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapDBError(err)
	}

	listing = models.Listing{
		ExternalID: externalID,
		ShopID:     shopID,
		ProductID:  productID,
		Quantity:   quantity,
		Model:      model,
		Price:      price,
		PriceRRC:   priceRRC,
	}
	if err := db.Create(&listing).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &listing, nil
}

// SetListingParameter fetches or creates the parameter by name and upserts
// the (listing, parameter) value pair.
func (s *CatalogService) SetListingParameter(db *gorm.DB, listingID uuid.UUID, name, value string) error {
	var parameter models.Parameter
	err := db.Where("name = ?", name).First(&parameter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		parameter = models.Parameter{Name: name}
		err = db.Create(&parameter).Error
	}
	if err != nil {
		return wrapDBError(err)
	}

	var pair models.ListingParameter
	err = db.Where("listing_id = ? AND parameter_id = ?", listingID, parameter.ID).First(&pair).Error
	if err == nil {
		if pair.Value == value {
			return nil
		}
		if err := db.Model(&pair).Update("value", value).Error; err != nil {
			return wrapDBError(err)
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return wrapDBError(err)
	}

	pair = models.ListingParameter{ListingID: listingID, ParameterID: parameter.ID, Value: value}
	if err := db.Create(&pair).Error; err != nil {
		return wrapDBError(err)
	}
	return nil
}

// DeleteListing removes a listing and its parameter associations. The
// listing must belong to one of the partner's shops.
func (s *CatalogService) DeleteListing(db *gorm.DB, listingID uuid.UUID, partnerID uuid.UUID) error {
	var listing models.Listing
	if err := db.Preload("Shop").First(&listing, "id = ?", listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("listing not found")
		}
		return wrapDBError(err)
	}

	if listing.Shop.UserID != partnerID {
		return apperrors.NotFound("listing not found")
	}

	// Hard delete: order lines hold value snapshots, and a soft-deleted row
	// would block the (shop, external_id) slot on the next import.
	if err := db.Unscoped().Where("listing_id = ?", listing.ID).Delete(&models.ListingParameter{}).Error; err != nil {
		return wrapDBError(err)
	}
	if err := db.Unscoped().Delete(&listing).Error; err != nil {
		return wrapDBError(err)
	}
	return nil
}

// visibleProductIDs selects product ids that have at least one listing whose
// shop's partner is active.
func (s *CatalogService) visibleProductIDs(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Listing{}).
		Select("listings.product_id").
		Joins("JOIN shops ON shops.id = listings.shop_id AND shops.deleted_at IS NULL").
		Joins("JOIN partner_states ON partner_states.user_id = shops.user_id AND partner_states.deleted_at IS NULL").
		Where("partner_states.active = ?", true)
}

// ListVisibleProducts returns products that have at least one listing whose
// shop's partner is active. An inactive partner's listings are excluded, not
// deleted; flipping the gate back restores them without re-import.
func (s *CatalogService) ListVisibleProducts(ctx context.Context, params utils.PaginationParams) ([]models.Product, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("products.id IN (?)", s.visibleProductIDs(ctx))

	if params.Search != "" {
		query = query.Where("LOWER(products.name) LIKE ?", "%"+strings.ToLower(params.Search)+"%")
	}
	if params.Category != "" {
		query = query.Where("products.category_id IN (?)",
			s.db.Model(&models.Category{}).Select("id").Where("name = ?", params.Category))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "name"})
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, wrapDBError(err)
	}

	for i := range products {
		if err := s.loadVisibleDetails(ctx, &products[i]); err != nil {
			return nil, 0, err
		}
	}

	return products, total, nil
}

// GetVisibleProduct returns one product with its visible listings, or
// NotFound when every listing is gated off.
func (s *CatalogService) GetVisibleProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("products.id = ?", id).
		Where("products.id IN (?)", s.visibleProductIDs(ctx)).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product not found")
		}
		return nil, wrapDBError(err)
	}

	if err := s.loadVisibleDetails(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *CatalogService) loadVisibleDetails(ctx context.Context, product *models.Product) error {
	if err := s.db.WithContext(ctx).First(&product.Category, "id = ?", product.CategoryID).Error; err != nil {
		return wrapDBError(err)
	}

	var listings []models.Listing
	err := s.db.WithContext(ctx).
		Joins("JOIN shops ON shops.id = listings.shop_id AND shops.deleted_at IS NULL").
		Joins("JOIN partner_states ON partner_states.user_id = shops.user_id AND partner_states.deleted_at IS NULL").
		Where("listings.product_id = ? AND partner_states.active = ?", product.ID, true).
		Preload("Shop").
		Preload("Parameters.Parameter").
		Find(&listings).Error
	if err != nil {
		return wrapDBError(err)
	}
	product.Listings = listings
	return nil
}
