package entity

import "github.com/shopspring/decimal"

// OrderItem línea de pedido. UnitPrice es el precio del producto en el momento de la venta
// y no se recalcula aunque el precio del producto cambie después.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

func (i *OrderItem) Kind() Kind     { return KindOrderItem }
func (i *OrderItem) PK() int64      { return i.ID }
func (i *OrderItem) SetPK(id int64) { i.ID = id }
func (i *OrderItem) Clone() Entity  { cp := *i; return &cp }

func (i *OrderItem) Fields() map[string]any {
	return map[string]any{
		"id":         i.ID,
		"order_id":   i.OrderID,
		"product_id": i.ProductID,
		"quantity":   i.Quantity,
		"unit_price": i.UnitPrice,
	}
}

// Subtotal quantity * unit_price en aritmética decimal exacta.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
