package catalog

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/uow"
)

// CreateClient registra un cliente.
func (uc *UseCase) CreateClient(ctx context.Context, in dto.ClientRequest) (*dto.ClientResponse, error) {
	name, err := requiredName(in.Name)
	if err != nil {
		return nil, err
	}
	c := &entity.Client{Name: name, Email: optional(in.Email), CreatedAt: uc.now()}
	if err := uc.create(ctx, c, nil); err != nil {
		return nil, err
	}
	resp := dto.ToClientResponse(c)
	return &resp, nil
}

// UpdateClient reemplaza nombre y email.
func (uc *UseCase) UpdateClient(ctx context.Context, id int64, in dto.ClientRequest) (*dto.ClientResponse, error) {
	name, err := requiredName(in.Name)
	if err != nil {
		return nil, err
	}
	c, err := update(ctx, uc, entity.KindClient, id, func(_ uow.UnitOfWork, c *entity.Client) error {
		c.Name = name
		c.Email = optional(in.Email)
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := dto.ToClientResponse(c)
	return &resp, nil
}

// ListClients lista clientes paginados.
func (uc *UseCase) ListClients(ctx context.Context, page dto.PageRequest) (*dto.ClientListResponse, error) {
	page.DefaultPage()
	all, err := list[*entity.Client](ctx, uc, entity.KindClient, nil)
	if err != nil {
		return nil, err
	}
	from, to := page.Window(len(all))
	out := &dto.ClientListResponse{
		Items: make([]dto.ClientResponse, 0, to-from),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(all)},
	}
	for _, c := range all[from:to] {
		out.Items = append(out.Items, dto.ToClientResponse(c))
	}
	return out, nil
}
