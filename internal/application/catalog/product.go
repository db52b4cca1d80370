package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/uow"
)

// Límites de la columna price NUMERIC(14, 4).
const priceScale = 4

var maxPrice = decimal.New(1, 10)

// checkPrice rechaza lo que la columna redondearía o no podría guardar.
func checkPrice(p decimal.Decimal) error {
	switch {
	case p.IsNegative():
		return domain.Validation("el precio no puede ser negativo")
	case !p.Equal(p.Truncate(priceScale)):
		return domain.Validation("el precio admite como máximo %d decimales", priceScale)
	case p.GreaterThanOrEqual(maxPrice):
		return domain.Validation("el precio debe ser menor que %s", maxPrice.String())
	}
	return nil
}

// CreateProduct registra un producto. La categoría, si se indica, debe existir.
func (uc *UseCase) CreateProduct(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name, err := requiredName(in.Name)
	if err != nil {
		return nil, err
	}
	if err := checkPrice(in.Price); err != nil {
		return nil, err
	}
	if in.Stock < 0 {
		return nil, domain.Validation("el stock no puede ser negativo")
	}
	p := &entity.Product{Name: name, Price: in.Price, Stock: in.Stock, CategoryID: in.CategoryID}
	err = uc.create(ctx, p, func(u uow.UnitOfWork) error {
		if p.CategoryID == nil {
			return nil
		}
		return exists(ctx, u, entity.KindCategory, *p.CategoryID)
	})
	if err != nil {
		return nil, err
	}
	resp := dto.ToProductResponse(p)
	return &resp, nil
}

// UpdateProduct modifica solo los campos presentes.
func (uc *UseCase) UpdateProduct(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := update(ctx, uc, entity.KindProduct, id, func(u uow.UnitOfWork, p *entity.Product) error {
		if in.Name != nil {
			name, err := requiredName(*in.Name)
			if err != nil {
				return err
			}
			p.Name = name
		}
		if in.Price != nil {
			if err := checkPrice(*in.Price); err != nil {
				return err
			}
			p.Price = *in.Price
		}
		if in.Stock != nil {
			if *in.Stock < 0 {
				return domain.Validation("el stock no puede ser negativo")
			}
			p.Stock = *in.Stock
		}
		switch {
		case in.ClearCategory:
			p.CategoryID = nil
		case in.CategoryID != nil:
			if err := exists(ctx, u, entity.KindCategory, *in.CategoryID); err != nil {
				return err
			}
			cid := *in.CategoryID
			p.CategoryID = &cid
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := dto.ToProductResponse(p)
	return &resp, nil
}

// ListProducts lista productos paginados; categoryID opcional.
func (uc *UseCase) ListProducts(ctx context.Context, categoryID *int64, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	var f uow.Filter
	if categoryID != nil {
		f = uow.Filter{"category_id": *categoryID}
	}
	all, err := list[*entity.Product](ctx, uc, entity.KindProduct, f)
	if err != nil {
		return nil, err
	}
	from, to := page.Window(len(all))
	out := &dto.ProductListResponse{
		Items: make([]dto.ProductResponse, 0, to-from),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(all)},
	}
	for _, p := range all[from:to] {
		out.Items = append(out.Items, dto.ToProductResponse(p))
	}
	return out, nil
}
