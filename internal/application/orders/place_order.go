// Package orders registra ventas: valida ítems, descuenta stock y crea la orden en una sola unidad de trabajo.
package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/uow"
	"github.com/jhoicas/backoffice-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// PlaceOrderInput solicitud de venta. Items en la forma "productId,quantity".
type PlaceOrderInput struct {
	ClientID int64
	Items    []string
}

// PlaceOrderUseCase crea una orden pagada y descuenta el stock de forma atómica.
type PlaceOrderUseCase struct {
	store uow.Store
	log   *logger.Logger
	now   func() time.Time
}

// NewPlaceOrderUseCase construye el caso de uso.
func NewPlaceOrderUseCase(store uow.Store, log *logger.Logger) *PlaceOrderUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &PlaceOrderUseCase{
		store: store,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// PlaceOrder procesa los ítems en el orden recibido. Cualquier fallo deshace la orden completa:
// ni stock descontado, ni filas creadas, ni auditoría.
func (uc *PlaceOrderUseCase) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*dto.OrderResponse, error) {
	if in.ClientID <= 0 {
		return nil, domain.Validation("client_id is required")
	}
	if len(in.Items) == 0 {
		return nil, domain.Validation("at least one item is required")
	}

	var order *entity.Order
	err := uow.Run(ctx, uc.store, func(u uow.UnitOfWork) error {
		_, ok, err := uow.Load[*entity.Client](ctx, u, entity.KindClient, in.ClientID, false)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFound("client %d does not exist", in.ClientID)
		}

		order = &entity.Order{
			ClientID:   in.ClientID,
			Status:     entity.OrderStatusPaid,
			TotalValue: decimal.Zero,
			CreatedAt:  uc.now(),
		}
		if err := u.Create(ctx, order); err != nil {
			return err
		}

		total := decimal.Zero
		for _, raw := range in.Items {
			li, err := ParseLineItem(raw)
			if err != nil {
				return err
			}
			p, ok, err := uow.Load[*entity.Product](ctx, u, entity.KindProduct, li.ProductID, true)
			if err != nil {
				return err
			}
			if !ok {
				return domain.NotFound("product %d does not exist", li.ProductID)
			}
			if p.Stock < li.Quantity {
				return domain.BusinessRule("insufficient stock for %s (available: %d)", p.Name, p.Stock)
			}

			total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(li.Quantity))))
			p.Stock -= li.Quantity
			if err := u.Update(ctx, p); err != nil {
				return err
			}

			item := &entity.OrderItem{
				OrderID:   order.ID,
				ProductID: p.ID,
				Quantity:  li.Quantity,
				UnitPrice: p.Price,
			}
			if err := u.Create(ctx, item); err != nil {
				return err
			}
			order.Items = append(order.Items, item)
		}

		order.TotalValue = total
		return u.Update(ctx, order)
	})
	if err != nil {
		ev := uc.log.Warn()
		if errors.Is(err, domain.ErrPersistence) {
			ev = uc.log.Error()
		}
		ev.Err(err).Int64("client_id", in.ClientID).Int("items", len(in.Items)).Msg("venta rechazada")
		return nil, err
	}

	uc.log.Info().
		Int64("order_id", order.ID).
		Int64("client_id", order.ClientID).
		Str("total_value", order.TotalValue.String()).
		Int("items", len(order.Items)).
		Msg("venta registrada")
	resp := dto.ToOrderResponse(order)
	return &resp, nil
}
