// Package guard decide si una entidad puede borrarse y ejecuta el borrado con sus cascadas explícitas.
package guard

import (
	"context"
	"fmt"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/uow"
)

// Decision resultado de la consulta al guardián.
type Decision struct {
	Allowed bool
	Reason  string
}

// Guard reglas de borrado por tipo de entidad.
type Guard struct{}

// New construye el guardián.
func New() *Guard { return &Guard{} }

// CanDelete consulta dependencias sin modificar nada.
// Cliente: sin órdenes. Producto: sin ítems de orden. Resto: siempre permitido.
func (g *Guard) CanDelete(ctx context.Context, u uow.UnitOfWork, e entity.Entity) (Decision, error) {
	switch e.Kind() {
	case entity.KindClient:
		n, err := u.Count(ctx, entity.KindOrder, uow.Filter{"client_id": e.PK()})
		if err != nil {
			return Decision{}, err
		}
		if n > 0 {
			return Decision{Reason: fmt.Sprintf("cannot delete: client has %d order(s)", n)}, nil
		}
	case entity.KindProduct:
		n, err := u.Count(ctx, entity.KindOrderItem, uow.Filter{"product_id": e.PK()})
		if err != nil {
			return Decision{}, err
		}
		if n > 0 {
			return Decision{Reason: fmt.Sprintf("cannot delete: product is in %d order item(s)", n)}, nil
		}
	}
	return Decision{Allowed: true}, nil
}
