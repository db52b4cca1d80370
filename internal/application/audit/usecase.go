package audit

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// UseCase consulta el historial de auditoría.
type UseCase struct {
	repo repository.AuditLogRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.AuditLogRepository) *UseCase {
	return &UseCase{repo: repo}
}

// List devuelve registros más recientes primero, filtrando por entidad, pk y usuario.
func (uc *UseCase) List(ctx context.Context, in dto.AuditLogFilter) (*dto.AuditLogListResponse, error) {
	f := repository.AuditLogFilter{
		EntityPK: in.EntityPK,
		UserID:   in.UserID,
		Limit:    in.Limit,
		Offset:   in.Offset,
	}
	if in.Entity != "" {
		kind, ok := entity.ParseKind(in.Entity)
		if !ok || kind == entity.KindAuditLog {
			return nil, domain.Validation("entidad desconocida: %q", in.Entity)
		}
		f.Entity = string(kind)
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	logs, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.AuditLogListResponse{Items: make([]dto.AuditLogResponse, 0, len(logs)), Limit: f.Limit, Offset: f.Offset}
	for _, l := range logs {
		out.Items = append(out.Items, dto.ToAuditLogResponse(l))
	}
	return out, nil
}
