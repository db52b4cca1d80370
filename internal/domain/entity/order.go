package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pedido.
const (
	OrderStatusPaid     = "paid"
	OrderStatusPending  = "pending"
	OrderStatusCanceled = "canceled"
)

// Order cabecera de pedido. Es dueña de sus OrderItem (borrar el pedido borra los ítems).
type Order struct {
	ID         int64
	ClientID   int64
	Status     string
	TotalValue decimal.Decimal // Σ quantity * unit_price de los ítems
	CreatedAt  time.Time
	Items      []*OrderItem // colección; no forma parte de Fields
}

func (o *Order) Kind() Kind     { return KindOrder }
func (o *Order) PK() int64      { return o.ID }
func (o *Order) SetPK(id int64) { o.ID = id }
func (o *Order) Clone() Entity {
	cp := *o
	cp.Items = nil
	for _, it := range o.Items {
		cp.Items = append(cp.Items, it.Clone().(*OrderItem))
	}
	return &cp
}

func (o *Order) Fields() map[string]any {
	return map[string]any{
		"id":          o.ID,
		"client_id":   o.ClientID,
		"status":      o.Status,
		"total_value": o.TotalValue,
		"created_at":  o.CreatedAt,
	}
}

// ValidOrderStatus indica si el estado es uno de los enumerados.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPaid, OrderStatusPending, OrderStatusCanceled:
		return true
	}
	return false
}
