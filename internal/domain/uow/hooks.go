package uow

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// Hook observa el ciclo de vida de la unidad de trabajo.
type Hook interface {
	// BeforeFlush se invoca justo antes del DELETE físico, mientras los campos siguen accesibles.
	BeforeFlush(ctx context.Context, c *Change) error
	// BeforeCommit recibe los cambios pendientes y devuelve registros de auditoría que el almacén
	// persiste en la misma transacción. Un error aborta el commit completo.
	BeforeCommit(ctx context.Context, meta Meta, changes []Change) ([]*entity.AuditLog, error)
}

// CommitObserver recibe los registros de auditoría ya confirmados. No puede deshacer el commit.
type CommitObserver interface {
	AfterCommit(ctx context.Context, logs []*entity.AuditLog)
}

// Pipeline hooks y observadores compartidos por las implementaciones de Store.
type Pipeline struct {
	Hooks     []Hook
	Observers []CommitObserver
}

// BeforeFlush ejecuta los hooks en orden.
func (p Pipeline) BeforeFlush(ctx context.Context, c *Change) error {
	if c == nil {
		return nil
	}
	for _, h := range p.Hooks {
		if err := h.BeforeFlush(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// BeforeCommit acumula los registros de todos los hooks.
func (p Pipeline) BeforeCommit(ctx context.Context, meta Meta, changes []Change) ([]*entity.AuditLog, error) {
	var logs []*entity.AuditLog
	for _, h := range p.Hooks {
		out, err := h.BeforeCommit(ctx, meta, changes)
		if err != nil {
			return nil, err
		}
		logs = append(logs, out...)
	}
	return logs, nil
}

// AfterCommit notifica a los observadores.
func (p Pipeline) AfterCommit(ctx context.Context, logs []*entity.AuditLog) {
	if len(logs) == 0 {
		return
	}
	for _, o := range p.Observers {
		o.AfterCommit(ctx, logs)
	}
}
