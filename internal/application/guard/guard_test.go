package guard_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/audit"
	"github.com/jhoicas/backoffice-api/internal/application/guard"
	"github.com/jhoicas/backoffice-api/internal/application/orders"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/uow"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/memory"
)

type fixture struct {
	store   *memory.Store
	client  *entity.Client
	product *entity.Product
	order   int64
}

// newFixture cliente con una orden de dos ítems (mismo producto en dos líneas).
func newFixture(t *testing.T) fixture {
	t.Helper()
	s := memory.NewStore(uow.Pipeline{Hooks: []uow.Hook{audit.NewRecorder()}})
	c := &entity.Client{Name: "Ana"}
	s.Put(c)
	p := &entity.Product{Name: "P", Price: decimal.RequireFromString("4.25"), Stock: 10}
	s.Put(p)
	resp, err := orders.NewPlaceOrderUseCase(s, nil).PlaceOrder(context.Background(), orders.PlaceOrderInput{
		ClientID: c.ID,
		Items:    []string{fmt.Sprintf("%d,1", p.ID), fmt.Sprintf("%d,2", p.ID)},
	})
	require.NoError(t, err)
	return fixture{store: s, client: c, product: p, order: resp.ID}
}

func TestCanDelete(t *testing.T) {
	f := newFixture(t)
	g := guard.New()
	ctx := context.Background()

	err := uow.Read(ctx, f.store, func(u uow.UnitOfWork) error {
		d, err := g.CanDelete(ctx, u, f.client)
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, "cannot delete: client has 1 order(s)", d.Reason)

		d, err = g.CanDelete(ctx, u, f.product)
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, "cannot delete: product is in 2 order item(s)", d.Reason)

		d, err = g.CanDelete(ctx, u, &entity.Order{ID: f.order})
		require.NoError(t, err)
		assert.True(t, d.Allowed)

		d, err = g.CanDelete(ctx, u, &entity.Client{ID: 999})
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		return nil
	})
	require.NoError(t, err)
}

func TestDelete_ClienteConOrdenesRechazado(t *testing.T) {
	f := newFixture(t)
	before := len(f.store.AuditLogs())
	uc := guard.NewDeleteUseCase(f.store, nil, nil)

	_, err := uc.Delete(context.Background(), entity.KindClient, f.client.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBusinessRule))
	assert.Equal(t, "cannot delete: client has 1 order(s)", domain.Message(err))
	assert.NotNil(t, f.store.Snapshot(entity.KindClient, f.client.ID))
	assert.Len(t, f.store.AuditLogs(), before)
}

func TestDelete_ProductoEnOrdenesRechazado(t *testing.T) {
	f := newFixture(t)
	before := len(f.store.AuditLogs())
	uc := guard.NewDeleteUseCase(f.store, nil, nil)

	_, err := uc.Delete(context.Background(), entity.KindProduct, f.product.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBusinessRule))
	assert.Equal(t, "cannot delete: product is in 2 order item(s)", domain.Message(err))
	got := f.store.Snapshot(entity.KindProduct, f.product.ID)
	require.NotNil(t, got)
	assert.Equal(t, 7, got.(*entity.Product).Stock)
	assert.Len(t, f.store.AuditLogs(), before)
}

// El snapshot "before" de un borrado sale de la fila guardada aunque se borre con una entidad que solo trae el id.
func TestDelete_SnapshotDesdeLaFilaGuardada(t *testing.T) {
	s := memory.NewStore(uow.Pipeline{Hooks: []uow.Hook{audit.NewRecorder()}})
	email := "ana@correo.co"
	c := &entity.Client{Name: "Ana", Email: &email}
	s.Put(c)

	ctx := context.Background()
	err := uow.Run(ctx, s, func(u uow.UnitOfWork) error {
		return u.Delete(ctx, &entity.Client{ID: c.ID})
	})
	require.NoError(t, err)
	assert.Nil(t, s.Snapshot(entity.KindClient, c.ID))

	logs := s.AuditLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, entity.ActionDelete, logs[0].Action)
	snap := logs[0].Changes["before"].(map[string]any)
	assert.Equal(t, c.ID, snap["id"])
	assert.Equal(t, "Ana", snap["name"])
	assert.Equal(t, "ana@correo.co", snap["email"])
}

func TestDelete_OrdenEnCascadaAuditada(t *testing.T) {
	f := newFixture(t)
	before := len(f.store.AuditLogs())
	uc := guard.NewDeleteUseCase(f.store, nil, nil)

	resp, err := uc.Delete(context.Background(), entity.KindOrder, f.order)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Deleted)
	assert.Nil(t, f.store.Snapshot(entity.KindOrder, f.order))

	logs := f.store.AuditLogs()[before:]
	require.Len(t, logs, 3)
	kinds := map[string]int{}
	for _, l := range logs {
		assert.Equal(t, entity.ActionDelete, l.Action)
		require.Contains(t, l.Changes, "before")
		snap := l.Changes["before"].(map[string]any)
		assert.NotEmpty(t, snap["id"])
		switch l.Entity {
		case "OrderItem":
			assert.Equal(t, f.product.ID, snap["product_id"])
			assert.Equal(t, f.order, snap["order_id"])
			assert.NotNil(t, snap["quantity"])
		case "Order":
			assert.Equal(t, f.client.ID, snap["client_id"])
			assert.Equal(t, "12.75", string(snap["total_value"].(json.Number)))
		}
		kinds[l.Entity]++
	}
	assert.Equal(t, map[string]int{"OrderItem": 2, "Order": 1}, kinds)

	// Sin órdenes, el cliente y el producto ya se pueden borrar.
	_, err = uc.Delete(context.Background(), entity.KindProduct, f.product.ID)
	require.NoError(t, err)
	_, err = uc.Delete(context.Background(), entity.KindClient, f.client.ID)
	require.NoError(t, err)
}

func TestDelete_CategoriaDesvinculaProductos(t *testing.T) {
	s := memory.NewStore(uow.Pipeline{Hooks: []uow.Hook{audit.NewRecorder()}})
	cat := &entity.Category{Name: "Bebidas"}
	s.Put(cat)
	p := &entity.Product{Name: "Agua", Price: decimal.NewFromInt(1), Stock: 1, CategoryID: &cat.ID}
	s.Put(p)

	_, err := guard.NewDeleteUseCase(s, nil, nil).Delete(context.Background(), entity.KindCategory, cat.ID)
	require.NoError(t, err)

	got := s.Snapshot(entity.KindProduct, p.ID).(*entity.Product)
	assert.Nil(t, got.CategoryID)

	logs := s.AuditLogs()
	require.Len(t, logs, 2)
	assert.Equal(t, "UPDATE", logs[0].Action)
	assert.Equal(t, []any{cat.ID, nil}, logs[0].Changes["category_id"])
	assert.Equal(t, "DELETE", logs[1].Action)
	assert.Equal(t, "Category", logs[1].Entity)
}

func TestDelete_Inexistente(t *testing.T) {
	s := memory.NewStore(uow.Pipeline{})
	_, err := guard.NewDeleteUseCase(s, nil, nil).Delete(context.Background(), entity.KindVendor, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
