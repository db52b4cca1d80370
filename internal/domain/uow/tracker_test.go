package uow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/uow"
)

func TestTracker_InsertarYActualizarEsUnSoloInsert(t *testing.T) {
	tr := uow.NewTracker()
	c := &entity.Category{ID: 1, Name: "A"}
	tr.Inserted(c)
	tr.Updated(&entity.Category{ID: 1, Name: "B"})

	changes := tr.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, uow.OpInsert, changes[0].Op)
	assert.Equal(t, "B", changes[0].Entity.(*entity.Category).Name)
}

func TestTracker_InsertarYBorrarNoDejaRastro(t *testing.T) {
	tr := uow.NewTracker()
	tr.Inserted(&entity.Category{ID: 1, Name: "A"})
	assert.Nil(t, tr.Deleted(&entity.Category{ID: 1, Name: "A"}))
	assert.Equal(t, 0, tr.Len())
}

func TestTracker_ActualizarYBorrarEsDelete(t *testing.T) {
	tr := uow.NewTracker()
	orig := &entity.Category{ID: 2, Name: "A"}
	tr.Loaded(orig)
	tr.Updated(&entity.Category{ID: 2, Name: "B"})
	c := tr.Deleted(&entity.Category{ID: 2, Name: "B"})
	require.NotNil(t, c)
	assert.Equal(t, uow.OpDelete, c.Op)

	changes := tr.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, "A", changes[0].Original["name"])
}

func TestTracker_BaselineSoloPrimeraCarga(t *testing.T) {
	tr := uow.NewTracker()
	tr.Loaded(&entity.Product{ID: 1, Stock: 5})
	tr.Loaded(&entity.Product{ID: 1, Stock: 3})
	tr.Updated(&entity.Product{ID: 1, Stock: 2})

	changes := tr.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, int64(5), changes[0].Original["stock"])
	assert.True(t, tr.HasBaseline(&entity.Product{ID: 1}))
	assert.False(t, tr.HasBaseline(&entity.Product{ID: 2}))
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, "INSERT", uow.OpInsert.String())
	assert.Equal(t, "UPDATE", uow.OpUpdate.String())
	assert.Equal(t, "DELETE", uow.OpDelete.String())
}

func TestMeta_Contexto(t *testing.T) {
	assert.Equal(t, uow.Meta{}, uow.MetaFrom(context.Background()))
	ip := "127.0.0.1"
	ctx := uow.WithMeta(context.Background(), uow.Meta{IP: &ip})
	assert.Equal(t, "127.0.0.1", *uow.MetaFrom(ctx).IP)
}

// ──────────────────────────────────────────────────────────────────────────────
// Run: commit, rollback y pánico
// ──────────────────────────────────────────────────────────────────────────────

type fakeUnit struct {
	uow.UnitOfWork
	committed, rolledBack bool
}

func (f *fakeUnit) Commit(context.Context) error   { f.committed = true; return nil }
func (f *fakeUnit) Rollback(context.Context) error { f.rolledBack = true; return nil }

type fakeStore struct{ unit *fakeUnit }

func (s *fakeStore) Begin(context.Context) (uow.UnitOfWork, error) {
	s.unit = &fakeUnit{}
	return s.unit, nil
}

func TestRun(t *testing.T) {
	s := &fakeStore{}
	require.NoError(t, uow.Run(context.Background(), s, func(uow.UnitOfWork) error { return nil }))
	assert.True(t, s.unit.committed)
	assert.False(t, s.unit.rolledBack)

	boom := errors.New("boom")
	err := uow.Run(context.Background(), s, func(uow.UnitOfWork) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, s.unit.committed)
	assert.True(t, s.unit.rolledBack)

	assert.Panics(t, func() {
		_ = uow.Run(context.Background(), s, func(uow.UnitOfWork) error { panic("x") })
	})
	assert.True(t, s.unit.rolledBack)
}

type recordingHook struct {
	flushed int
	err     error
}

func (h *recordingHook) BeforeFlush(context.Context, *uow.Change) error { h.flushed++; return h.err }
func (h *recordingHook) BeforeCommit(_ context.Context, _ uow.Meta, changes []uow.Change) ([]*entity.AuditLog, error) {
	if h.err != nil {
		return nil, h.err
	}
	return []*entity.AuditLog{{Action: "INSERT", Entity: "Category"}}, nil
}

type countingObserver struct{ n int }

func (o *countingObserver) AfterCommit(_ context.Context, logs []*entity.AuditLog) { o.n += len(logs) }

func TestPipeline(t *testing.T) {
	h1, h2 := &recordingHook{}, &recordingHook{}
	obs := &countingObserver{}
	p := uow.Pipeline{Hooks: []uow.Hook{h1, h2}, Observers: []uow.CommitObserver{obs}}

	require.NoError(t, p.BeforeFlush(context.Background(), &uow.Change{Op: uow.OpDelete}))
	require.NoError(t, p.BeforeFlush(context.Background(), nil))
	assert.Equal(t, 1, h1.flushed)
	assert.Equal(t, 1, h2.flushed)

	logs, err := p.BeforeCommit(context.Background(), uow.Meta{}, nil)
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	p.AfterCommit(context.Background(), logs)
	p.AfterCommit(context.Background(), nil)
	assert.Equal(t, 2, obs.n)

	h2.err = errors.New("falla")
	_, err = p.BeforeCommit(context.Background(), uow.Meta{}, nil)
	assert.Error(t, err)
}
