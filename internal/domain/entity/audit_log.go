package entity

import "time"

// Acciones de auditoría.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// AuditLog registro de una mutación sobre una entidad vigilada.
// Changes: INSERT -> {"after": snapshot}; UPDATE -> {campo: [antes, después]}; DELETE -> {"before": snapshot}.
type AuditLog struct {
	ID        int64
	Action    string
	Entity    string
	EntityPK  string
	UserID    *int64
	IP        *string
	CreatedAt time.Time
	Changes   map[string]any
}

func (a *AuditLog) Kind() Kind     { return KindAuditLog }
func (a *AuditLog) PK() int64      { return a.ID }
func (a *AuditLog) SetPK(id int64) { a.ID = id }
func (a *AuditLog) Clone() Entity {
	cp := *a
	cp.UserID = clonePtr(a.UserID)
	cp.IP = clonePtr(a.IP)
	return &cp
}

func (a *AuditLog) Fields() map[string]any {
	return map[string]any{
		"id":         a.ID,
		"action":     a.Action,
		"entity":     a.Entity,
		"entity_pk":  a.EntityPK,
		"user_id":    a.UserID,
		"ip":         a.IP,
		"created_at": a.CreatedAt,
		"changes":    a.Changes,
	}
}
