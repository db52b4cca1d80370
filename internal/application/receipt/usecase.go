// Package receipt genera el comprobante PDF de una orden.
package receipt

import (
	"context"
	"fmt"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/uow"
	"github.com/shopspring/decimal"
)

// Line línea del comprobante con el nombre del producto resuelto.
type Line struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// Document datos completos del comprobante.
type Document struct {
	Order  *entity.Order
	Client *entity.Client
	Lines  []Line
}

// Generator puerto de salida: renderiza el documento (implementado con Maroto en infraestructura).
type Generator interface {
	Generate(ctx context.Context, doc Document) ([]byte, error)
}

// UseCase arma el documento dentro de una unidad de trabajo de lectura y lo renderiza.
type UseCase struct {
	store     uow.Store
	generator Generator
}

// NewUseCase construye el caso de uso.
func NewUseCase(store uow.Store, generator Generator) *UseCase {
	return &UseCase{store: store, generator: generator}
}

// Download devuelve los bytes del PDF y el nombre de archivo sugerido.
func (uc *UseCase) Download(ctx context.Context, orderID int64) ([]byte, string, error) {
	var doc Document
	err := uow.Read(ctx, uc.store, func(u uow.UnitOfWork) error {
		o, ok, err := uow.Load[*entity.Order](ctx, u, entity.KindOrder, orderID, false)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFound("order %d does not exist", orderID)
		}
		c, _, err := uow.Load[*entity.Client](ctx, u, entity.KindClient, o.ClientID, false)
		if err != nil {
			return err
		}
		items, err := uow.QueryAs[*entity.OrderItem](ctx, u, entity.KindOrderItem, uow.Filter{"order_id": orderID})
		if err != nil {
			return err
		}
		o.Items = items
		doc = Document{Order: o, Client: c}
		for _, it := range items {
			name := fmt.Sprintf("Producto #%d", it.ProductID)
			if p, ok, err := uow.Load[*entity.Product](ctx, u, entity.KindProduct, it.ProductID, false); err != nil {
				return err
			} else if ok {
				name = p.Name
			}
			doc.Lines = append(doc.Lines, Line{
				ProductName: name,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
				Subtotal:    it.Subtotal(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.Generate(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generar pdf: %w", err)
	}
	return pdf, fmt.Sprintf("orden-%d.pdf", orderID), nil
}
