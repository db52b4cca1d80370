// Package audit construye y consulta el historial de cambios del libro mayor.
package audit

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/uow"
)

var _ uow.Hook = (*Recorder)(nil)

// Recorder hook de la unidad de trabajo que convierte los cambios pendientes en registros de auditoría.
type Recorder struct {
	now func() time.Time
}

// NewRecorder construye el recorder con el reloj del sistema (UTC).
func NewRecorder() *Recorder {
	return &Recorder{now: func() time.Time { return time.Now().UTC() }}
}

// BeforeFlush toma el snapshot completo de una entidad vigilada antes de su borrado físico.
func (r *Recorder) BeforeFlush(_ context.Context, c *uow.Change) error {
	if c.Op != uow.OpDelete || !c.Entity.Kind().Watched() {
		return nil
	}
	c.Snapshot = entity.Snapshot(c.Entity)
	return nil
}

// BeforeCommit genera un registro por cada alta, modificación efectiva o baja de una entidad vigilada.
func (r *Recorder) BeforeCommit(_ context.Context, meta uow.Meta, changes []uow.Change) ([]*entity.AuditLog, error) {
	now := r.now()
	var logs []*entity.AuditLog
	for _, c := range changes {
		kind := c.Entity.Kind()
		if !kind.Watched() {
			continue
		}
		var payload map[string]any
		switch c.Op {
		case uow.OpInsert:
			payload = map[string]any{"after": entity.Snapshot(c.Entity)}
		case uow.OpUpdate:
			if c.Entity.PK() == 0 {
				continue
			}
			diff := Diff(c.Original, c.Entity.Fields())
			if len(diff) == 0 {
				continue
			}
			payload = diff
		case uow.OpDelete:
			snap := c.Snapshot
			if snap == nil {
				snap = entity.Snapshot(c.Entity)
			}
			payload = map[string]any{"before": snap}
		default:
			continue
		}
		if _, err := json.Marshal(payload); err != nil {
			return nil, domain.Persistence(err, "audit: no se pudo serializar %s %d", kind, c.Entity.PK())
		}
		logs = append(logs, &entity.AuditLog{
			Action:    c.Op.String(),
			Entity:    string(kind),
			EntityPK:  strconv.FormatInt(c.Entity.PK(), 10),
			UserID:    meta.UserID,
			IP:        meta.IP,
			CreatedAt: now,
			Changes:   payload,
		})
	}
	return logs, nil
}

// Diff devuelve {campo: [antes, después]} para los campos cuyo valor cambió respecto a la línea base.
// Sin línea base no hay diff posible.
func Diff(original map[string]any, current map[string]any) map[string]any {
	if original == nil {
		return nil
	}
	out := make(map[string]any)
	for k, v := range current {
		before := original[k]
		if entity.SameValue(before, v) {
			continue
		}
		out[k] = []any{entity.Normalize(before), entity.Normalize(v)}
	}
	return out
}
