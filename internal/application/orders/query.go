package orders

import (
	"context"
	"sort"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/uow"
)

// QueryUseCase lectura de órdenes.
type QueryUseCase struct {
	store uow.Store
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(store uow.Store) *QueryUseCase {
	return &QueryUseCase{store: store}
}

// List devuelve las órdenes más recientes primero, sin ítems.
func (uc *QueryUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.OrderListResponse, error) {
	page.DefaultPage()
	var list []*entity.Order
	err := uow.Read(ctx, uc.store, func(u uow.UnitOfWork) error {
		var err error
		list, err = uow.QueryAs[*entity.Order](ctx, u, entity.KindOrder, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	from, to := page.Window(len(list))
	out := &dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, to-from),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(list)},
	}
	for _, o := range list[from:to] {
		out.Items = append(out.Items, dto.ToOrderResponse(o))
	}
	return out, nil
}

// Get devuelve la orden con sus ítems.
func (uc *QueryUseCase) Get(ctx context.Context, id int64) (*entity.Order, error) {
	var order *entity.Order
	err := uow.Read(ctx, uc.store, func(u uow.UnitOfWork) error {
		o, ok, err := uow.Load[*entity.Order](ctx, u, entity.KindOrder, id, false)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFound("order %d does not exist", id)
		}
		items, err := uow.QueryAs[*entity.OrderItem](ctx, u, entity.KindOrderItem, uow.Filter{"order_id": id})
		if err != nil {
			return err
		}
		o.Items = items
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
