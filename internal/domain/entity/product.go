package entity

import "github.com/shopspring/decimal"

// Product producto vendible. Stock nunca negativo; solo se borra si ningún ítem de pedido lo referencia.
type Product struct {
	ID         int64
	Name       string
	Price      decimal.Decimal // precio de venta vigente
	Stock      int
	CategoryID *int64 // referencia débil a Category
}

func (p *Product) Kind() Kind     { return KindProduct }
func (p *Product) PK() int64      { return p.ID }
func (p *Product) SetPK(id int64) { p.ID = id }
func (p *Product) Clone() Entity {
	cp := *p
	cp.CategoryID = clonePtr(p.CategoryID)
	return &cp
}

func (p *Product) Fields() map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"price":       p.Price,
		"stock":       p.Stock,
		"category_id": p.CategoryID,
	}
}
