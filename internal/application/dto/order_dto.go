package dto

import (
	"time"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PlaceOrderRequest entrada para registrar una venta. Cada ítem tiene la forma "productId,quantity".
type PlaceOrderRequest struct {
	ClientID int64    `json:"client_id"`
	Items    []string `json:"items"`
}

// OrderItemResponse línea de una orden.
type OrderItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse salida de una orden con sus ítems.
type OrderResponse struct {
	ID         int64               `json:"id"`
	ClientID   int64               `json:"client_id"`
	Status     string              `json:"status"`
	TotalValue decimal.Decimal     `json:"total_value"`
	CreatedAt  time.Time           `json:"created_at"`
	Items      []OrderItemResponse `json:"items,omitempty"`
}

// OrderListResponse lista paginada de órdenes (más recientes primero).
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ToOrderResponse mapea la orden y sus ítems cargados.
func ToOrderResponse(o *entity.Order) OrderResponse {
	out := OrderResponse{
		ID:         o.ID,
		ClientID:   o.ClientID,
		Status:     o.Status,
		TotalValue: o.TotalValue,
		CreatedAt:  o.CreatedAt,
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal(),
		})
	}
	return out
}
