package postgres

import (
	"bytes"
	"context"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo lectura del historial de auditoría.
type AuditLogRepo struct {
	db Querier
}

// NewAuditLogRepository construye el adaptador.
func NewAuditLogRepository(db Querier) *AuditLogRepo {
	return &AuditLogRepo{db: db}
}

// List devuelve registros más recientes primero.
func (r *AuditLogRepo) List(ctx context.Context, f repository.AuditLogFilter) ([]*entity.AuditLog, error) {
	q := builder.
		Select("id", "action", "entity", "entity_pk", "user_id", "ip", "created_at", "changes").
		From("audit_logs").
		OrderBy("created_at DESC", "id DESC")
	if f.Entity != "" {
		q = q.Where(sq.Eq{"entity": f.Entity})
	}
	if f.EntityPK != "" {
		q = q.Where(sq.Eq{"entity_pk": f.EntityPK})
	}
	if f.UserID != nil {
		q = q.Where(sq.Eq{"user_id": *f.UserID})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, mapError(err, "build select audit_logs")
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "select audit_logs")
	}
	defer rows.Close()
	list := make([]*entity.AuditLog, 0)
	for rows.Next() {
		var (
			l   entity.AuditLog
			raw []byte
		)
		if err := rows.Scan(&l.ID, &l.Action, &l.Entity, &l.EntityPK, &l.UserID, &l.IP, &l.CreatedAt, &raw); err != nil {
			return nil, mapError(err, "scan audit_logs")
		}
		if len(raw) > 0 {
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.UseNumber()
			if err := dec.Decode(&l.Changes); err != nil {
				return nil, mapError(err, "decode audit_logs.changes")
			}
		}
		list = append(list, &l)
	}
	return list, mapError(rows.Err(), "select audit_logs")
}
