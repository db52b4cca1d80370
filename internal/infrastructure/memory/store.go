// Package memory implementa el libro mayor en memoria (desarrollo, demos y pruebas).
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/domain/uow"
)

var (
	_ uow.Store                     = (*Store)(nil)
	_ repository.AuditLogRepository = (*Store)(nil)
)

type table map[int64]entity.Entity

// Store libro mayor en memoria. Una sola unidad de trabajo activa a la vez: Begin toma el mutex
// y Commit/Rollback lo liberan, lo que equivale a un bloqueo pesimista de todo el almacén.
type Store struct {
	mu       sync.Mutex
	tables   map[entity.Kind]table
	seq      map[entity.Kind]int64
	audit    []*entity.AuditLog
	pipeline uow.Pipeline

	auditMu sync.RWMutex
}

// NewStore crea un almacén vacío con el pipeline de hooks dado.
func NewStore(p uow.Pipeline) *Store {
	return &Store{
		tables:   make(map[entity.Kind]table),
		seq:      make(map[entity.Kind]int64),
		pipeline: p,
	}
}

// Begin abre una unidad de trabajo sobre una copia del estado confirmado.
func (s *Store) Begin(ctx context.Context) (uow.UnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Persistence(err, "begin transaction")
	}
	s.mu.Lock()
	u := &unit{
		store:   s,
		meta:    uow.MetaFrom(ctx),
		tables:  make(map[entity.Kind]table, len(s.tables)),
		seq:     make(map[entity.Kind]int64, len(s.seq)),
		tracker: uow.NewTracker(),
	}
	for k, t := range s.tables {
		cp := make(table, len(t))
		for id, e := range t {
			cp[id] = e
		}
		u.tables[k] = cp
	}
	for k, n := range s.seq {
		u.seq[k] = n
	}
	return u, nil
}

// List implementa repository.AuditLogRepository.
func (s *Store) List(_ context.Context, f repository.AuditLogFilter) ([]*entity.AuditLog, error) {
	s.auditMu.RLock()
	defer s.auditMu.RUnlock()
	var out []*entity.AuditLog
	for i := len(s.audit) - 1; i >= 0; i-- {
		l := s.audit[i]
		if f.Entity != "" && l.Entity != f.Entity {
			continue
		}
		if f.EntityPK != "" && l.EntityPK != f.EntityPK {
			continue
		}
		if f.UserID != nil && (l.UserID == nil || *l.UserID != *f.UserID) {
			continue
		}
		out = append(out, l)
	}
	if f.Offset >= len(out) {
		return []*entity.AuditLog{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// AuditLogs devuelve todos los registros confirmados en orden de inserción.
func (s *Store) AuditLogs() []*entity.AuditLog {
	s.auditMu.RLock()
	defer s.auditMu.RUnlock()
	out := make([]*entity.AuditLog, len(s.audit))
	copy(out, s.audit)
	return out
}

// Put carga una entidad sin auditoría ni unidad de trabajo (semillas de datos en pruebas).
func (s *Store) Put(e entity.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := e.Kind()
	if e.PK() == 0 {
		s.seq[k]++
		e.SetPK(s.seq[k])
	} else if e.PK() > s.seq[k] {
		s.seq[k] = e.PK()
	}
	if s.tables[k] == nil {
		s.tables[k] = make(table)
	}
	s.tables[k][e.PK()] = e.Clone()
}

// Snapshot devuelve una copia de la entidad confirmada o nil.
func (s *Store) Snapshot(kind entity.Kind, id int64) entity.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.tables[kind][id]; ok {
		return e.Clone()
	}
	return nil
}

type unit struct {
	store   *Store
	meta    uow.Meta
	tables  map[entity.Kind]table
	seq     map[entity.Kind]int64
	tracker *uow.Tracker
	done    bool
}

func (u *unit) Meta() uow.Meta { return u.meta }

func (u *unit) check(ctx context.Context, kind entity.Kind) error {
	if u.done {
		return domain.Persistence(nil, "unidad de trabajo finalizada")
	}
	if err := ctx.Err(); err != nil {
		return domain.Persistence(err, "operación cancelada")
	}
	if !kind.Watched() {
		return domain.Validation("tipo de entidad no soportado: %q", kind)
	}
	return nil
}

func (u *unit) Get(ctx context.Context, kind entity.Kind, id int64) (entity.Entity, error) {
	if err := u.check(ctx, kind); err != nil {
		return nil, err
	}
	e, ok := u.tables[kind][id]
	if !ok {
		return nil, nil
	}
	u.tracker.Loaded(e)
	return e.Clone(), nil
}

// GetForUpdate equivale a Get: la unidad de trabajo ya tiene el almacén en exclusiva.
func (u *unit) GetForUpdate(ctx context.Context, kind entity.Kind, id int64) (entity.Entity, error) {
	return u.Get(ctx, kind, id)
}

func (u *unit) Query(ctx context.Context, kind entity.Kind, f uow.Filter) ([]entity.Entity, error) {
	if err := u.check(ctx, kind); err != nil {
		return nil, err
	}
	matches, err := u.match(kind, f)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Entity, 0, len(matches))
	for _, e := range matches {
		u.tracker.Loaded(e)
		out = append(out, e.Clone())
	}
	return out, nil
}

func (u *unit) Count(ctx context.Context, kind entity.Kind, f uow.Filter) (int, error) {
	if err := u.check(ctx, kind); err != nil {
		return 0, err
	}
	matches, err := u.match(kind, f)
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

func (u *unit) match(kind entity.Kind, f uow.Filter) ([]entity.Entity, error) {
	cols := entity.New(kind).Fields()
	for col := range f {
		if _, ok := cols[col]; !ok {
			return nil, domain.Validation("campo desconocido %q en %s", col, kind)
		}
	}
	var out []entity.Entity
	for _, e := range u.tables[kind] {
		fields := e.Fields()
		ok := true
		for col, want := range f {
			if !entity.SameValue(fields[col], want) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PK() < out[j].PK() })
	return out, nil
}

func (u *unit) Create(ctx context.Context, e entity.Entity) error {
	kind := e.Kind()
	if err := u.check(ctx, kind); err != nil {
		return err
	}
	if err := u.checkRefs(e); err != nil {
		return err
	}
	u.seq[kind]++
	e.SetPK(u.seq[kind])
	if u.tables[kind] == nil {
		u.tables[kind] = make(table)
	}
	u.tables[kind][e.PK()] = e.Clone()
	u.tracker.Inserted(e.Clone())
	return nil
}

func (u *unit) Update(ctx context.Context, e entity.Entity) error {
	kind := e.Kind()
	if err := u.check(ctx, kind); err != nil {
		return err
	}
	current, ok := u.tables[kind][e.PK()]
	if !ok {
		return domain.NotFound("%s %d no existe", kind, e.PK())
	}
	if err := u.checkRefs(e); err != nil {
		return err
	}
	u.tracker.Loaded(current)
	u.tables[kind][e.PK()] = e.Clone()
	u.tracker.Updated(e.Clone())
	return nil
}

func (u *unit) Delete(ctx context.Context, e entity.Entity) error {
	kind := e.Kind()
	if err := u.check(ctx, kind); err != nil {
		return err
	}
	current, ok := u.tables[kind][e.PK()]
	if !ok {
		return domain.NotFound("%s %d no existe", kind, e.PK())
	}
	if err := u.checkReferrers(kind, e.PK()); err != nil {
		return err
	}
	u.tracker.Loaded(current)
	if err := u.store.pipeline.BeforeFlush(ctx, u.tracker.Deleted(current.Clone())); err != nil {
		return err
	}
	delete(u.tables[kind], e.PK())
	return nil
}

func (u *unit) Commit(ctx context.Context) error {
	if u.done {
		return domain.Persistence(nil, "unidad de trabajo finalizada")
	}
	defer u.release()
	if err := ctx.Err(); err != nil {
		return domain.Persistence(err, "commit transaction")
	}
	logs, err := u.store.pipeline.BeforeCommit(ctx, u.meta, u.tracker.Changes())
	if err != nil {
		return err
	}
	s := u.store
	s.tables = u.tables
	s.seq = u.seq
	s.auditMu.Lock()
	for _, l := range logs {
		l.ID = int64(len(s.audit) + 1)
		s.audit = append(s.audit, l)
	}
	s.auditMu.Unlock()
	u.done = true
	s.mu.Unlock()
	s.pipeline.AfterCommit(ctx, logs)
	return nil
}

func (u *unit) Rollback(_ context.Context) error {
	u.release()
	return nil
}

func (u *unit) release() {
	if u.done {
		return
	}
	u.done = true
	u.store.mu.Unlock()
}

// ref columna que apunta a otra entidad (equivalente a una FOREIGN KEY).
type ref struct {
	column string
	target entity.Kind
}

var refs = map[entity.Kind][]ref{
	entity.KindProduct:   {{column: "category_id", target: entity.KindCategory}},
	entity.KindOrder:     {{column: "client_id", target: entity.KindClient}},
	entity.KindOrderItem: {{column: "order_id", target: entity.KindOrder}, {column: "product_id", target: entity.KindProduct}},
}

func (u *unit) checkRefs(e entity.Entity) error {
	fields := e.Fields()
	for _, r := range refs[e.Kind()] {
		id, ok := entity.Normalize(fields[r.column]).(int64)
		if !ok {
			continue
		}
		if _, exists := u.tables[r.target][id]; !exists {
			return domain.Persistence(fmt.Errorf("%s.%s=%d sin %s", e.Kind(), r.column, id, r.target), "violación de clave foránea")
		}
	}
	return nil
}

func (u *unit) checkReferrers(kind entity.Kind, id int64) error {
	for from, rs := range refs {
		for _, r := range rs {
			if r.target != kind {
				continue
			}
			for _, e := range u.tables[from] {
				if v, ok := entity.Normalize(e.Fields()[r.column]).(int64); ok && v == id {
					return domain.Persistence(fmt.Errorf("%s %d referenciado por %s %d", kind, id, from, e.PK()), "violación de clave foránea")
				}
			}
		}
	}
	return nil
}
