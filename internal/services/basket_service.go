// internal/services/basket_service.go
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/procurehub/orders-backend/internal/apperrors"
	"github.com/procurehub/orders-backend/internal/models"
	"github.com/procurehub/orders-backend/internal/utils"
)

// BasketService manages a customer's open basket and its transition into an
// immutable confirmed order.
type BasketService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type AddLineRequest struct {
	ListingID uuid.UUID `json:"listing_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type RemoveLineRequest struct {
	LineID uuid.UUID `json:"line_id" validate:"required"`
}

// ShippingDetails is the payload of POST /basket/confirm. The `mail` key
// carries the carrier selection.
type ShippingDetails struct {
	Address string         `json:"address" validate:"required"`
	City    string         `json:"city" validate:"required"`
	Index   string         `json:"index" validate:"required"`
	Mail    models.Carrier `json:"mail" validate:"required"`
	Phone   string         `json:"phone" validate:"required"`
}

func NewBasketService(db *gorm.DB, notificationService *NotificationService) *BasketService {
	return &BasketService{
		db:                  db,
		notificationService: notificationService,
	}
}

func (s *BasketService) getBasket(db *gorm.DB, customerID uuid.UUID) (*models.Basket, error) {
	var basket models.Basket
	if err := db.Where("user_id = ?", customerID).First(&basket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("basket not found")
		}
		return nil, wrapDBError(err)
	}
	return &basket, nil
}

// GetBasket returns the customer's basket with lines and listing details.
func (s *BasketService) GetBasket(ctx context.Context, customerID uuid.UUID) (*models.Basket, error) {
	var basket models.Basket
	err := s.db.WithContext(ctx).
		Preload("Lines.Listing.Product").
		Preload("Lines.Listing.Shop").
		Where("user_id = ?", customerID).
		First(&basket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("basket not found")
		}
		return nil, wrapDBError(err)
	}
	return &basket, nil
}

// AddOrUpdateLine inserts a basket line for the listing or overwrites the
// existing line's quantity. Quantities do not accumulate. Stock is not
// checked here; whether to block on insufficient listing quantity is the
// caller's policy.
func (s *BasketService) AddOrUpdateLine(ctx context.Context, customerID uuid.UUID, req *AddLineRequest) (*models.BasketLine, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "invalid basket line", err)
	}

	db := s.db.WithContext(ctx)

	basket, err := s.getBasket(db, customerID)
	if err != nil {
		return nil, err
	}

	var listing models.Listing
	if err := db.First(&listing, "id = ?", req.ListingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("listing not found")
		}
		return nil, wrapDBError(err)
	}

	var line models.BasketLine
	err = db.Where("basket_id = ? AND listing_id = ?", basket.ID, listing.ID).First(&line).Error
	if err == nil {
		if err := db.Model(&line).Update("quantity", req.Quantity).Error; err != nil {
			return nil, wrapDBError(err)
		}
		line.Quantity = req.Quantity
		return &line, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapDBError(err)
	}

	line = models.BasketLine{BasketID: basket.ID, ListingID: listing.ID, Quantity: req.Quantity}
	if err := db.Create(&line).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &line, nil
}

// RemoveLine deletes a line from the customer's own basket.
func (s *BasketService) RemoveLine(ctx context.Context, customerID uuid.UUID, lineID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	basket, err := s.getBasket(db, customerID)
	if err != nil {
		return err
	}

	var line models.BasketLine
	if err := db.First(&line, "id = ?", lineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("basket line not found")
		}
		return wrapDBError(err)
	}

	if line.BasketID != basket.ID {
		return apperrors.Forbidden("can delete only your own basket lines")
	}

	if err := db.Delete(&line).Error; err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Confirm atomically converts the basket's lines into a confirmed order with
// the given shipping details and drains the basket. Listing price and
// quantity are copied by value; later listing changes never alter the order.
// Of two concurrent confirms on one basket, the loser re-reads an empty line
// set under the row lock and gets EmptyBasket.
func (s *BasketService) Confirm(ctx context.Context, customerID uuid.UUID, details *ShippingDetails) (*models.ConfirmedOrder, error) {
	if err := utils.ValidateStruct(details); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "all required shipping arguments not provided", err)
	}
	if !details.Mail.Valid() {
		return nil, apperrors.Newf(apperrors.KindValidation, "unknown carrier %q", details.Mail)
	}

	var order *models.ConfirmedOrder

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var basket models.Basket
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", customerID).
			First(&basket).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("basket not found")
			}
			return wrapDBError(err)
		}

		var lines []models.BasketLine
		err = tx.Preload("Listing.Product").
			Preload("Listing.Shop").
			Where("basket_id = ?", basket.ID).
			Find(&lines).Error
		if err != nil {
			return wrapDBError(err)
		}
		if len(lines) == 0 {
			return apperrors.EmptyBasket("there are no orders in the basket")
		}

		order = &models.ConfirmedOrder{
			UserID:  customerID,
			Address: details.Address,
			City:    details.City,
			Index:   details.Index,
			Phone:   details.Phone,
			Carrier: details.Mail,
		}
		if err := tx.Create(order).Error; err != nil {
			return wrapDBError(err)
		}

		orderLines := make([]models.OrderLine, 0, len(lines))
		for _, line := range lines {
			orderLines = append(orderLines, models.OrderLine{
				OrderID:   order.ID,
				ListingID: line.ListingID,
				ShopID:    line.Listing.ShopID,
				Quantity:  line.Quantity,
				Price:     line.Listing.Price,
				PriceRRC:  line.Listing.PriceRRC,
			})
		}
		if err := tx.Omit(clause.Associations).Create(&orderLines).Error; err != nil {
			return wrapDBError(err)
		}
		// Attach listing details for the response only; the stored line
		// keeps value copies.
		for i := range orderLines {
			orderLines[i].Listing = lines[i].Listing
		}
		order.Lines = orderLines

		if err := tx.Where("basket_id = ?", basket.ID).Delete(&models.BasketLine{}).Error; err != nil {
			return wrapDBError(err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		s.notificationService.NotifyOrderConfirmed(order)
	}

	return order, nil
}

// ListConfirmedOrders returns the customer's confirmed orders, newest first.
func (s *BasketService) ListConfirmedOrders(ctx context.Context, customerID uuid.UUID, params utils.PaginationParams) ([]models.ConfirmedOrder, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.ConfirmedOrder{}).Where("user_id = ?", customerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err)
	}

	var orders []models.ConfirmedOrder
	err := query.
		Preload("Lines.Listing.Product").
		Preload("Lines.Listing.Shop").
		Order("created_at DESC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, wrapDBError(err)
	}

	return orders, total, nil
}

// GetConfirmedOrder returns one of the customer's confirmed orders.
func (s *BasketService) GetConfirmedOrder(ctx context.Context, customerID uuid.UUID, orderID uuid.UUID) (*models.ConfirmedOrder, error) {
	var order models.ConfirmedOrder
	err := s.db.WithContext(ctx).
		Preload("Lines.Listing.Product").
		Preload("Lines.Listing.Shop").
		First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, wrapDBError(err)
	}

	if order.UserID != customerID {
		return nil, apperrors.NotFound("order not found")
	}
	return &order, nil
}
