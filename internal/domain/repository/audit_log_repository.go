package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// AuditLogFilter criterios de consulta del historial. Campos vacíos no filtran.
type AuditLogFilter struct {
	Entity   string
	EntityPK string
	UserID   *int64
	Limit    int
	Offset   int
}

// AuditLogRepository lectura del historial de auditoría (más recientes primero).
// La escritura ocurre solo dentro del commit de una unidad de trabajo.
type AuditLogRepository interface {
	List(ctx context.Context, f AuditLogFilter) ([]*entity.AuditLog, error)
}
