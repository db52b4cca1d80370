// Package uow define la unidad de trabajo del libro mayor: contratos del almacén,
// seguimiento explícito de cambios y el punto de enganche previo al commit que usa la auditoría.
package uow

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// Meta datos de contexto de la petición que se adjuntan a cada registro de auditoría. Ambos opcionales.
type Meta struct {
	UserID *int64
	IP     *string
}

type metaKey struct{}

// WithMeta guarda Meta en el contexto (se fija por petición, p. ej. en un middleware HTTP).
func WithMeta(ctx context.Context, m Meta) context.Context {
	return context.WithValue(ctx, metaKey{}, m)
}

// MetaFrom devuelve la Meta del contexto o una vacía.
func MetaFrom(ctx context.Context) Meta {
	m, _ := ctx.Value(metaKey{}).(Meta)
	return m
}

// Filter igualdad por columna: {"client_id": int64(3)}.
type Filter map[string]any

// UnitOfWork agrupa lecturas y escrituras que se confirman o se descartan juntas.
// Get/GetForUpdate devuelven (nil, nil) si la entidad no existe.
type UnitOfWork interface {
	Meta() Meta
	Get(ctx context.Context, kind entity.Kind, id int64) (entity.Entity, error)
	// GetForUpdate bloquea la fila hasta el fin de la unidad de trabajo.
	GetForUpdate(ctx context.Context, kind entity.Kind, id int64) (entity.Entity, error)
	Query(ctx context.Context, kind entity.Kind, f Filter) ([]entity.Entity, error)
	Count(ctx context.Context, kind entity.Kind, f Filter) (int, error)
	// Create persiste la entidad y le asigna identidad.
	Create(ctx context.Context, e entity.Entity) error
	Update(ctx context.Context, e entity.Entity) error
	Delete(ctx context.Context, e entity.Entity) error
	// Commit ejecuta los hooks previos al commit y confirma todo (negocio + auditoría) o nada.
	Commit(ctx context.Context) error
	// Rollback descarta todo; es un no-op tras Commit.
	Rollback(ctx context.Context) error
}

// Store abre unidades de trabajo.
type Store interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

// Run abre una unidad de trabajo, ejecuta fn y hace Commit, o Rollback si fn falla o entra en pánico.
func Run(ctx context.Context, s Store, fn func(u UnitOfWork) error) (err error) {
	u, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			_ = u.Rollback(ctx)
			panic(r)
		}
	}()
	if err := fn(u); err != nil {
		if rbErr := u.Rollback(ctx); rbErr != nil {
			return errors.Join(err, domain.Persistence(rbErr, "rollback"))
		}
		return err
	}
	return u.Commit(ctx)
}

// Read abre una unidad de trabajo de solo lectura: ejecuta fn y siempre hace Rollback.
func Read(ctx context.Context, s Store, fn func(u UnitOfWork) error) error {
	u, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = u.Rollback(ctx) }()
	return fn(u)
}

// Load obtiene una entidad tipada. ok es false si no existe.
func Load[T entity.Entity](ctx context.Context, u UnitOfWork, kind entity.Kind, id int64, forUpdate bool) (T, bool, error) {
	var zero T
	var (
		e   entity.Entity
		err error
	)
	if forUpdate {
		e, err = u.GetForUpdate(ctx, kind, id)
	} else {
		e, err = u.Get(ctx, kind, id)
	}
	if err != nil || e == nil {
		return zero, false, err
	}
	t, ok := e.(T)
	if !ok {
		return zero, false, fmt.Errorf("uow: %s %d tiene tipo %T", kind, id, e)
	}
	return t, true, nil
}

// QueryAs ejecuta Query y convierte el resultado al tipo concreto.
func QueryAs[T entity.Entity](ctx context.Context, u UnitOfWork, kind entity.Kind, f Filter) ([]T, error) {
	list, err := u.Query(ctx, kind, f)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(list))
	for _, e := range list {
		t, ok := e.(T)
		if !ok {
			return nil, fmt.Errorf("uow: %s tiene tipo %T", kind, e)
		}
		out = append(out, t)
	}
	return out, nil
}
