// internal/services/partner_service.go
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procurehub/orders-backend/internal/apperrors"
	"github.com/procurehub/orders-backend/internal/models"
	"github.com/procurehub/orders-backend/internal/utils"
)

// PartnerService owns the visibility gate and the partner-side order views.
type PartnerService struct {
	db *gorm.DB
}

// PartnerOrderLine is the partner-view DTO: one confirmed-order line for a
// listing in one of the partner's shops, with customer and shipping context.
type PartnerOrderLine struct {
	OrderID   uuid.UUID      `json:"order_id"`
	CreatedAt string         `json:"created_at"`
	Customer  string         `json:"customer"`
	Email     string         `json:"email"`
	Address   string         `json:"address"`
	City      string         `json:"city"`
	Index     string         `json:"index"`
	Phone     string         `json:"phone"`
	Carrier   models.Carrier `json:"carrier"`
	Product   string         `json:"product"`
	Model     string         `json:"model"`
	Quantity  int            `json:"quantity"`
	Price     int            `json:"price"`
	Total     int            `json:"total"`
}

func NewPartnerService(db *gorm.DB) *PartnerService {
	return &PartnerService{db: db}
}

// GetState reports the partner's visibility gate. Partners default to active
// at provisioning time.
func (s *PartnerService) GetState(ctx context.Context, partnerID uuid.UUID) (bool, error) {
	var state models.PartnerState
	if err := s.db.WithContext(ctx).Where("user_id = ?", partnerID).First(&state).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.NotFound("partner state not found")
		}
		return false, wrapDBError(err)
	}
	return state.Active, nil
}

// SetState toggles whether the partner's listings are browsable. Listings
// themselves are untouched.
func (s *PartnerService) SetState(ctx context.Context, partnerID uuid.UUID, active bool) error {
	result := s.db.WithContext(ctx).Model(&models.PartnerState{}).
		Where("user_id = ?", partnerID).
		Update("active", active)
	if result.Error != nil {
		return wrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("partner state not found")
	}
	return nil
}

// ListPartnerOrders returns every confirmed-order line whose listing belongs
// to one of the partner's shops, newest order first.
func (s *PartnerService) ListPartnerOrders(ctx context.Context, partnerID uuid.UUID, params utils.PaginationParams) ([]PartnerOrderLine, int64, error) {
	query := s.partnerLineQuery(ctx, partnerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err)
	}

	var lines []models.OrderLine
	err := query.
		Preload("Listing.Product").
		Order("order_lines.created_at DESC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&lines).Error
	if err != nil {
		return nil, 0, wrapDBError(err)
	}

	views, err := s.buildLineViews(ctx, lines)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// GetPartnerOrder returns the partner-view lines of one confirmed order.
// Lines for other partners' shops are not included.
func (s *PartnerService) GetPartnerOrder(ctx context.Context, partnerID uuid.UUID, orderID uuid.UUID) ([]PartnerOrderLine, error) {
	var lines []models.OrderLine
	err := s.partnerLineQuery(ctx, partnerID).
		Where("order_lines.order_id = ?", orderID).
		Preload("Listing.Product").
		Find(&lines).Error
	if err != nil {
		return nil, wrapDBError(err)
	}
	if len(lines) == 0 {
		return nil, apperrors.NotFound("order not found")
	}
	return s.buildLineViews(ctx, lines)
}

func (s *PartnerService) partnerLineQuery(ctx context.Context, partnerID uuid.UUID) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.OrderLine{}).
		Joins("JOIN shops ON shops.id = order_lines.shop_id AND shops.deleted_at IS NULL").
		Where("shops.user_id = ?", partnerID)
}

func (s *PartnerService) buildLineViews(ctx context.Context, lines []models.OrderLine) ([]PartnerOrderLine, error) {
	views := make([]PartnerOrderLine, 0, len(lines))
	for _, line := range lines {
		var order models.ConfirmedOrder
		if err := s.db.WithContext(ctx).Preload("User").First(&order, "id = ?", line.OrderID).Error; err != nil {
			return nil, wrapDBError(err)
		}

		views = append(views, PartnerOrderLine{
			OrderID:   order.ID,
			CreatedAt: order.CreatedAt.Format("2006-01-02 15:04:05"),
			Customer:  order.User.Username,
			Email:     order.User.Email,
			Address:   order.Address,
			City:      order.City,
			Index:     order.Index,
			Phone:     order.Phone,
			Carrier:   order.Carrier,
			Product:   line.Listing.Product.Name,
			Model:     line.Listing.Model,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Total:     line.Price * line.Quantity,
		})
	}
	return views, nil
}
