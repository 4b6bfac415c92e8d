// internal/services/import_service.go
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/procurehub/orders-backend/internal/apperrors"
	"github.com/procurehub/orders-backend/internal/feed"
	"github.com/procurehub/orders-backend/internal/models"
)

// ImportService applies a parsed feed document to the catalog store as one
// logical operation. Merge mode upserts; delete mode removes listings
// all-or-nothing.
type ImportService struct {
	db             *gorm.DB
	catalogService *CatalogService
	storageService *StorageService
}

type ImportResult struct {
	Shop       string `json:"shop"`
	Categories int    `json:"categories"`
	Goods      int    `json:"goods"`
	Deleted    int    `json:"deleted,omitempty"`
}

func NewImportService(db *gorm.DB, catalogService *CatalogService, storageService *StorageService) *ImportService {
	return &ImportService{
		db:             db,
		catalogService: catalogService,
		storageService: storageService,
	}
}

// ImportFeed parses raw and merge-imports it for the partner. The whole
// document runs in one transaction; re-running the same document leaves the
// store unchanged.
func (s *ImportService) ImportFeed(ctx context.Context, partnerID uuid.UUID, raw []byte) (*ImportResult, error) {
	doc, err := feed.Parse(raw)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Shop: doc.Shop}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		shop, err := s.catalogService.UpsertShop(tx, doc.Shop, "", partnerID)
		if err != nil {
			return err
		}

		categories := make(map[uint]*models.Category, len(doc.Categories))
		for _, c := range doc.Categories {
			category, err := s.catalogService.UpsertCategory(tx, c.ID, c.Name)
			if err != nil {
				return err
			}
			if err := s.catalogService.LinkShopCategory(tx, shop, category); err != nil {
				return err
			}
			categories[category.ID] = category
		}
		result.Categories = len(categories)

		for _, g := range doc.Goods {
			// The category must exist before anything is written for the
			// good: either this document declared it or an earlier import
			// did. Otherwise the product row would dangle.
			if _, ok := categories[g.Category]; !ok {
				var category models.Category
				if err := tx.First(&category, "id = ?", g.Category).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return apperrors.Newf(apperrors.KindValidation,
							"good %d references unknown category %d", g.ID, g.Category)
					}
					return wrapDBError(err)
				}
				categories[category.ID] = &category
			}

			product, err := s.catalogService.UpsertProduct(tx, g.Name, g.Category)
			if err != nil {
				return err
			}

			listing, err := s.catalogService.UpsertListing(tx, g.ID, product.ID, shop.ID, g.Quantity, g.Model, g.Price, g.PriceRRC)
			if err != nil {
				return err
			}

			for name, value := range g.Parameters {
				if err := s.catalogService.SetListingParameter(tx, listing.ID, name, value); err != nil {
					return err
				}
			}
			result.Goods++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// The raw document is archived outside the transaction; archival
	// failure must not fail an already-applied import.
	s.archiveFeed(doc.Shop, raw)

	return result, nil
}

// DeleteFeed removes every listing the document names. A single missing
// listing aborts the whole operation with NotFound before any delete runs.
func (s *ImportService) DeleteFeed(ctx context.Context, partnerID uuid.UUID, raw []byte) (*ImportResult, error) {
	doc, err := feed.Parse(raw)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Shop: doc.Shop}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var shop models.Shop
		if err := tx.Where("name = ? AND user_id = ?", doc.Shop, partnerID).First(&shop).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Newf(apperrors.KindNotFound, "shop %q not found", doc.Shop)
			}
			return wrapDBError(err)
		}

		// Resolve every listing before deleting any so a missing
		// reference leaves the catalog untouched.
		listings := make([]models.Listing, 0, len(doc.Goods))
		for _, g := range doc.Goods {
			var listing models.Listing
			err := tx.Joins("JOIN products ON products.id = listings.product_id AND products.deleted_at IS NULL").
				Where("listings.shop_id = ? AND listings.external_id = ?", shop.ID, g.ID).
				Where("products.name = ? AND products.category_id = ?", g.Name, g.Category).
				First(&listing).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.Newf(apperrors.KindNotFound, "listing %d (%q) not found in shop %q", g.ID, g.Name, doc.Shop)
				}
				return wrapDBError(err)
			}
			listings = append(listings, listing)
		}

		for _, listing := range listings {
			if err := s.catalogService.DeleteListing(tx, listing.ID, partnerID); err != nil {
				return err
			}
			result.Deleted++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *ImportService) archiveFeed(shopName string, raw []byte) {
	if s.storageService == nil {
		return
	}
	go func() {
		key, err := s.storageService.ArchiveFeed(shopName, raw)
		if err != nil {
			logrus.WithError(err).WithField("shop", shopName).Warn("Failed to archive feed document")
			return
		}
		if err := s.db.Model(&models.Shop{}).Where("name = ?", shopName).Update("filename", key).Error; err != nil {
			logrus.WithError(err).WithField("shop", shopName).Warn("Failed to record feed archive key")
		}
	}()
}
