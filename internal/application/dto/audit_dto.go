package dto

import (
	"time"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// AuditLogFilter filtros de consulta del historial (query string).
type AuditLogFilter struct {
	Entity   string `query:"entity"`
	EntityPK string `query:"entity_pk"`
	UserID   *int64 `query:"user_id"`
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
}

// AuditLogResponse registro de auditoría.
type AuditLogResponse struct {
	ID        int64          `json:"id"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityPK  string         `json:"entity_pk"`
	UserID    *int64         `json:"user_id"`
	IP        *string        `json:"ip"`
	CreatedAt time.Time      `json:"created_at"`
	Changes   map[string]any `json:"changes"`
}

// AuditLogListResponse página del historial.
type AuditLogListResponse struct {
	Items  []AuditLogResponse `json:"items"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// ToAuditLogResponse mapea entidad a DTO.
func ToAuditLogResponse(l *entity.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:        l.ID,
		Action:    l.Action,
		Entity:    l.Entity,
		EntityPK:  l.EntityPK,
		UserID:    l.UserID,
		IP:        l.IP,
		CreatedAt: l.CreatedAt,
		Changes:   l.Changes,
	}
}
