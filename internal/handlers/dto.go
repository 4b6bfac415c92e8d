// internal/handlers/dto.go
package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/procurehub/orders-backend/internal/models"
)

// Response DTOs are explicit per view. The customer-facing product and order
// shapes and the partner-facing order shape are separate types rather than
// one model serialized differently per endpoint.

type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ShopResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	URL  string    `json:"url,omitempty"`
}

type ListingResponse struct {
	ID         uuid.UUID         `json:"id"`
	ExternalID uint              `json:"external_id"`
	Shop       ShopResponse      `json:"shop"`
	Quantity   int               `json:"quantity"`
	Model      string            `json:"model,omitempty"`
	Price      int               `json:"price"`
	PriceRRC   int               `json:"price_rrc"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

type ProductResponse struct {
	ID       uuid.UUID         `json:"id"`
	Name     string            `json:"name"`
	Category CategoryResponse  `json:"category"`
	Listings []ListingResponse `json:"listings"`
}

type BasketLineResponse struct {
	ID       uuid.UUID `json:"id"`
	Listing  uuid.UUID `json:"listing_id"`
	Product  string    `json:"product"`
	Shop     string    `json:"shop"`
	Quantity int       `json:"quantity"`
	Price    int       `json:"price"`
	Total    int       `json:"total"`
}

type BasketResponse struct {
	ID    uuid.UUID            `json:"id"`
	Lines []BasketLineResponse `json:"lines"`
	Total int                  `json:"total"`
}

type OrderLineResponse struct {
	ID       uuid.UUID `json:"id"`
	Listing  uuid.UUID `json:"listing_id"`
	Product  string    `json:"product"`
	Shop     string    `json:"shop"`
	Quantity int       `json:"quantity"`
	Price    int       `json:"price"`
	Total    int       `json:"total"`
}

// OrderResponse is the customer view of a confirmed order.
type OrderResponse struct {
	ID        uuid.UUID           `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	Address   string              `json:"address"`
	City      string              `json:"city"`
	Index     string              `json:"index"`
	Phone     string              `json:"phone"`
	Carrier   models.Carrier      `json:"carrier"`
	Lines     []OrderLineResponse `json:"lines"`
	Total     int                 `json:"total"`
}

func toProductResponse(product *models.Product) ProductResponse {
	resp := ProductResponse{
		ID:   product.ID,
		Name: product.Name,
		Category: CategoryResponse{
			ID:   product.Category.ID,
			Name: product.Category.Name,
		},
		Listings: make([]ListingResponse, 0, len(product.Listings)),
	}

	for _, listing := range product.Listings {
		params := make(map[string]string, len(listing.Parameters))
		for _, p := range listing.Parameters {
			params[p.Parameter.Name] = p.Value
		}
		resp.Listings = append(resp.Listings, ListingResponse{
			ID:         listing.ID,
			ExternalID: listing.ExternalID,
			Shop: ShopResponse{
				ID:   listing.Shop.ID,
				Name: listing.Shop.Name,
				URL:  listing.Shop.URL,
			},
			Quantity:   listing.Quantity,
			Model:      listing.Model,
			Price:      listing.Price,
			PriceRRC:   listing.PriceRRC,
			Parameters: params,
		})
	}

	return resp
}

func toProductResponses(products []models.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, toProductResponse(&products[i]))
	}
	return responses
}

func toBasketResponse(basket *models.Basket) BasketResponse {
	resp := BasketResponse{
		ID:    basket.ID,
		Lines: make([]BasketLineResponse, 0, len(basket.Lines)),
	}

	for _, line := range basket.Lines {
		total := line.Quantity * line.Listing.Price
		resp.Lines = append(resp.Lines, BasketLineResponse{
			ID:       line.ID,
			Listing:  line.ListingID,
			Product:  line.Listing.Product.Name,
			Shop:     line.Listing.Shop.Name,
			Quantity: line.Quantity,
			Price:    line.Listing.Price,
			Total:    total,
		})
		resp.Total += total
	}

	return resp
}

func toOrderResponse(order *models.ConfirmedOrder) OrderResponse {
	resp := OrderResponse{
		ID:        order.ID,
		CreatedAt: order.CreatedAt,
		Address:   order.Address,
		City:      order.City,
		Index:     order.Index,
		Phone:     order.Phone,
		Carrier:   order.Carrier,
		Lines:     make([]OrderLineResponse, 0, len(order.Lines)),
	}

	for _, line := range order.Lines {
		total := line.Quantity * line.Price
		resp.Lines = append(resp.Lines, OrderLineResponse{
			ID:       line.ID,
			Listing:  line.ListingID,
			Product:  line.Listing.Product.Name,
			Shop:     line.Listing.Shop.Name,
			Quantity: line.Quantity,
			Price:    line.Price,
			Total:    total,
		})
		resp.Total += total
	}

	return resp
}

func toOrderResponses(orders []models.ConfirmedOrder) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, toOrderResponse(&orders[i]))
	}
	return responses
}
