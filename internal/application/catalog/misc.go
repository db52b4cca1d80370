package catalog

import (
	"context"
	"strings"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/uow"
)

// CreateCategory registra una categoría.
func (uc *UseCase) CreateCategory(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name, err := requiredName(in.Name)
	if err != nil {
		return nil, err
	}
	c := &entity.Category{Name: name}
	if err := uc.create(ctx, c, nil); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name}, nil
}

// UpdateCategory renombra una categoría.
func (uc *UseCase) UpdateCategory(ctx context.Context, id int64, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name, err := requiredName(in.Name)
	if err != nil {
		return nil, err
	}
	c, err := update(ctx, uc, entity.KindCategory, id, func(_ uow.UnitOfWork, c *entity.Category) error {
		c.Name = name
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name}, nil
}

// CreateVendor registra un proveedor.
func (uc *UseCase) CreateVendor(ctx context.Context, in dto.VendorRequest) (*dto.VendorResponse, error) {
	name, err := requiredName(in.Name)
	if err != nil {
		return nil, err
	}
	v := &entity.Vendor{Name: name, Document: optional(in.Document), Email: optional(in.Email)}
	if err := uc.create(ctx, v, nil); err != nil {
		return nil, err
	}
	resp := dto.ToVendorResponse(v)
	return &resp, nil
}

// UpdateVendor reemplaza los datos del proveedor.
func (uc *UseCase) UpdateVendor(ctx context.Context, id int64, in dto.VendorRequest) (*dto.VendorResponse, error) {
	name, err := requiredName(in.Name)
	if err != nil {
		return nil, err
	}
	v, err := update(ctx, uc, entity.KindVendor, id, func(_ uow.UnitOfWork, v *entity.Vendor) error {
		v.Name = name
		v.Document = optional(in.Document)
		v.Email = optional(in.Email)
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := dto.ToVendorResponse(v)
	return &resp, nil
}

// RegisterFile guarda los metadatos de un adjunto (el contenido vive fuera del libro mayor).
func (uc *UseCase) RegisterFile(ctx context.Context, in dto.FileRequest) (*dto.FileResponse, error) {
	name, err := requiredName(in.Name)
	if err != nil {
		return nil, err
	}
	if in.SizeBytes < 0 {
		return nil, domain.Validation("size_bytes no puede ser negativo")
	}
	ct := strings.TrimSpace(in.ContentType)
	if ct == "" {
		ct = "application/octet-stream"
	}
	f := &entity.File{Name: name, ContentType: ct, SizeBytes: in.SizeBytes, CreatedAt: uc.now()}
	if err := uc.create(ctx, f, nil); err != nil {
		return nil, err
	}
	resp := dto.ToFileResponse(f)
	return &resp, nil
}
