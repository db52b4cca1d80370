package guard

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/uow"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// DeleteUseCase borra una entidad tras consultar al guardián, todo en una unidad de trabajo.
type DeleteUseCase struct {
	store uow.Store
	guard *Guard
	log   *logger.Logger
}

// NewDeleteUseCase construye el caso de uso.
func NewDeleteUseCase(store uow.Store, guard *Guard, log *logger.Logger) *DeleteUseCase {
	if guard == nil {
		guard = New()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DeleteUseCase{store: store, guard: guard, log: log}
}

// Delete borra la entidad kind/id. Un rechazo del guardián devuelve ErrBusinessRule con el motivo
// y no modifica nada. Borrar una orden borra antes cada uno de sus ítems; borrar una categoría
// desvincula antes sus productos.
func (uc *DeleteUseCase) Delete(ctx context.Context, kind entity.Kind, id int64) (*dto.DeleteResponse, error) {
	if !kind.Watched() {
		return nil, domain.Validation("tipo de entidad no soportado: %q", kind)
	}
	deleted := 0
	err := uow.Run(ctx, uc.store, func(u uow.UnitOfWork) error {
		e, err := u.GetForUpdate(ctx, kind, id)
		if err != nil {
			return err
		}
		if e == nil {
			return domain.NotFound("%s %d does not exist", kind, id)
		}

		d, err := uc.guard.CanDelete(ctx, u, e)
		if err != nil {
			return err
		}
		if !d.Allowed {
			return domain.BusinessRule("%s", d.Reason)
		}

		switch kind {
		case entity.KindOrder:
			items, err := u.Query(ctx, entity.KindOrderItem, uow.Filter{"order_id": id})
			if err != nil {
				return err
			}
			for _, it := range items {
				if err := u.Delete(ctx, it); err != nil {
					return err
				}
				deleted++
			}
		case entity.KindCategory:
			products, err := uow.QueryAs[*entity.Product](ctx, u, entity.KindProduct, uow.Filter{"category_id": id})
			if err != nil {
				return err
			}
			for _, p := range products {
				p.CategoryID = nil
				if err := u.Update(ctx, p); err != nil {
					return err
				}
			}
		}

		if err := u.Delete(ctx, e); err != nil {
			return err
		}
		deleted++
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("entity", string(kind)).Int64("id", id).Msg("borrado rechazado")
		return nil, err
	}
	uc.log.Info().Str("entity", string(kind)).Int64("id", id).Int("rows", deleted).Msg("entidad eliminada")
	return &dto.DeleteResponse{Entity: string(kind), ID: id, Deleted: deleted}, nil
}
