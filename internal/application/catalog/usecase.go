// Package catalog mantiene clientes, productos, categorías, proveedores y archivos.
// Toda escritura pasa por la unidad de trabajo, por lo que queda auditada.
package catalog

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/uow"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// UseCase casos de uso de catálogo.
type UseCase struct {
	store uow.Store
	log   *logger.Logger
	now   func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(store uow.Store, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{store: store, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (uc *UseCase) create(ctx context.Context, e entity.Entity, check func(u uow.UnitOfWork) error) error {
	err := uow.Run(ctx, uc.store, func(u uow.UnitOfWork) error {
		if check != nil {
			if err := check(u); err != nil {
				return err
			}
		}
		return u.Create(ctx, e)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("entity", string(e.Kind())).Int64("id", e.PK()).Msg("entidad creada")
	return nil
}

// update carga la entidad con bloqueo, aplica mutate y la guarda.
func update[T entity.Entity](ctx context.Context, uc *UseCase, kind entity.Kind, id int64, mutate func(u uow.UnitOfWork, e T) error) (T, error) {
	var out T
	err := uow.Run(ctx, uc.store, func(u uow.UnitOfWork) error {
		e, ok, err := uow.Load[T](ctx, u, kind, id, true)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFound("%s %d does not exist", kind, id)
		}
		if err := mutate(u, e); err != nil {
			return err
		}
		if err := u.Update(ctx, e); err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return out, err
	}
	uc.log.Info().Str("entity", string(kind)).Int64("id", id).Msg("entidad actualizada")
	return out, nil
}

// list devuelve todas las entidades del tipo, más recientes primero.
func list[T entity.Entity](ctx context.Context, uc *UseCase, kind entity.Kind, f uow.Filter) ([]T, error) {
	var out []T
	err := uow.Read(ctx, uc.store, func(u uow.UnitOfWork) error {
		var err error
		out, err = uow.QueryAs[T](ctx, u, kind, f)
		return err
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PK() > out[j].PK() })
	return out, nil
}

func exists(ctx context.Context, u uow.UnitOfWork, kind entity.Kind, id int64) error {
	e, err := u.Get(ctx, kind, id)
	if err != nil {
		return err
	}
	if e == nil {
		return domain.NotFound("%s %d does not exist", kind, id)
	}
	return nil
}

func requiredName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.Validation("el nombre es obligatorio")
	}
	return name, nil
}

// optional convierte "" (o solo espacios) en nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
