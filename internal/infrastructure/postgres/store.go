package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/uow"
)

var _ uow.Store = (*Store)(nil)

// TxBeginner abre transacciones (*pgxpool.Pool o un mock de pgxmock).
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// builder squirrel con placeholders $n de PostgreSQL.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store libro mayor sobre PostgreSQL: una unidad de trabajo es una transacción.
type Store struct {
	db       TxBeginner
	pipeline uow.Pipeline
}

// NewStore construye el almacén con el pool y el pipeline de hooks.
func NewStore(db TxBeginner, p uow.Pipeline) *Store {
	return &Store{db: db, pipeline: p}
}

// Begin inicia la transacción. La Meta del contexto se copia a la unidad de trabajo.
func (s *Store) Begin(ctx context.Context) (uow.UnitOfWork, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.Persistence(err, "begin transaction")
	}
	return &unit{
		tx:       tx,
		meta:     uow.MetaFrom(ctx),
		pipeline: s.pipeline,
		tracker:  uow.NewTracker(),
	}, nil
}

type unit struct {
	tx       pgx.Tx
	meta     uow.Meta
	pipeline uow.Pipeline
	tracker  *uow.Tracker
	done     bool
}

func (u *unit) Meta() uow.Meta { return u.meta }

func tableOf(kind entity.Kind) (table, error) {
	t, ok := tables[kind]
	if !ok {
		return table{}, domain.Validation("tipo de entidad no soportado: %q", kind)
	}
	return t, nil
}

func (u *unit) active() error {
	if u.done {
		return domain.Persistence(nil, "unidad de trabajo finalizada")
	}
	return nil
}

func (u *unit) Get(ctx context.Context, kind entity.Kind, id int64) (entity.Entity, error) {
	return u.get(ctx, kind, id, false)
}

// GetForUpdate lee con SELECT ... FOR UPDATE; el bloqueo dura hasta Commit/Rollback.
func (u *unit) GetForUpdate(ctx context.Context, kind entity.Kind, id int64) (entity.Entity, error) {
	return u.get(ctx, kind, id, true)
}

func (u *unit) get(ctx context.Context, kind entity.Kind, id int64, lock bool) (entity.Entity, error) {
	if err := u.active(); err != nil {
		return nil, err
	}
	e, err := u.fetch(ctx, kind, id, lock)
	if err != nil || e == nil {
		return nil, err
	}
	u.tracker.Loaded(e)
	return e, nil
}

// fetch lee una fila sin registrarla en el tracker.
func (u *unit) fetch(ctx context.Context, kind entity.Kind, id int64, lock bool) (entity.Entity, error) {
	t, err := tableOf(kind)
	if err != nil {
		return nil, err
	}
	q := builder.Select(t.selectColumns()...).From(t.name).Where(sq.Eq{"id": id})
	if lock {
		q = q.Suffix("FOR UPDATE")
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, domain.Persistence(err, "build select %s", t.name)
	}
	e := entity.New(kind)
	if err := u.tx.QueryRow(ctx, query, args...).Scan(t.targets(e)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(err, "select "+t.name)
	}
	return e, nil
}

func (u *unit) where(t table, f uow.Filter) (sq.Eq, error) {
	eq := sq.Eq{}
	for col, v := range f {
		if !t.has(col) {
			return nil, domain.Validation("campo desconocido %q en %s", col, t.name)
		}
		eq[col] = v
	}
	return eq, nil
}

func (u *unit) Query(ctx context.Context, kind entity.Kind, f uow.Filter) ([]entity.Entity, error) {
	if err := u.active(); err != nil {
		return nil, err
	}
	t, err := tableOf(kind)
	if err != nil {
		return nil, err
	}
	q := builder.Select(t.selectColumns()...).From(t.name).OrderBy("id")
	if len(f) > 0 {
		eq, err := u.where(t, f)
		if err != nil {
			return nil, err
		}
		q = q.Where(eq)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, domain.Persistence(err, "build select %s", t.name)
	}
	rows, err := u.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "select "+t.name)
	}
	defer rows.Close()
	var list []entity.Entity
	for rows.Next() {
		e := entity.New(kind)
		if err := rows.Scan(t.targets(e)...); err != nil {
			return nil, mapError(err, "scan "+t.name)
		}
		u.tracker.Loaded(e)
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "select "+t.name)
	}
	return list, nil
}

func (u *unit) Count(ctx context.Context, kind entity.Kind, f uow.Filter) (int, error) {
	if err := u.active(); err != nil {
		return 0, err
	}
	t, err := tableOf(kind)
	if err != nil {
		return 0, err
	}
	q := builder.Select("COUNT(*)").From(t.name)
	if len(f) > 0 {
		eq, err := u.where(t, f)
		if err != nil {
			return 0, err
		}
		q = q.Where(eq)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return 0, domain.Persistence(err, "build count %s", t.name)
	}
	var n int
	if err := u.tx.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, mapError(err, "count "+t.name)
	}
	return n, nil
}

func (u *unit) Create(ctx context.Context, e entity.Entity) error {
	if err := u.active(); err != nil {
		return err
	}
	t, err := tableOf(e.Kind())
	if err != nil {
		return err
	}
	query, args, err := builder.Insert(t.name).
		Columns(t.columns...).
		Values(t.values(e)...).
		Suffix(t.returning()).
		ToSql()
	if err != nil {
		return domain.Persistence(err, "build insert %s", t.name)
	}
	// La fila devuelta trae los valores tal como quedaron guardados (NUMERIC redondeado, timestamps en µs).
	if err := u.tx.QueryRow(ctx, query, args...).Scan(t.targets(e)...); err != nil {
		return mapError(err, "insert "+t.name)
	}
	u.tracker.Inserted(e.Clone())
	return nil
}

func (u *unit) Update(ctx context.Context, e entity.Entity) error {
	if err := u.active(); err != nil {
		return err
	}
	t, err := tableOf(e.Kind())
	if err != nil {
		return err
	}
	if err := u.ensureBaseline(ctx, e); err != nil {
		return err
	}
	q := builder.Update(t.name)
	for i, v := range t.values(e) {
		q = q.Set(t.columns[i], v)
	}
	query, args, err := q.Where(sq.Eq{"id": e.PK()}).Suffix(t.returning()).ToSql()
	if err != nil {
		return domain.Persistence(err, "build update %s", t.name)
	}
	if err := u.tx.QueryRow(ctx, query, args...).Scan(t.targets(e)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NotFound("%s %d no existe", e.Kind(), e.PK())
		}
		return mapError(err, "update "+t.name)
	}
	u.tracker.Updated(e.Clone())
	return nil
}

func (u *unit) Delete(ctx context.Context, e entity.Entity) error {
	if err := u.active(); err != nil {
		return err
	}
	t, err := tableOf(e.Kind())
	if err != nil {
		return err
	}
	// El snapshot sale de la fila bloqueada, no del objeto recibido (puede traer solo el id).
	current, err := u.fetch(ctx, e.Kind(), e.PK(), true)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.NotFound("%s %d no existe", e.Kind(), e.PK())
	}
	u.tracker.Loaded(current)
	if err := u.pipeline.BeforeFlush(ctx, u.tracker.Deleted(current)); err != nil {
		return err
	}
	query, args, err := builder.Delete(t.name).Where(sq.Eq{"id": e.PK()}).ToSql()
	if err != nil {
		return domain.Persistence(err, "build delete %s", t.name)
	}
	tag, err := u.tx.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, "delete "+t.name)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("%s %d no existe", e.Kind(), e.PK())
	}
	return nil
}

// ensureBaseline lee el estado persistido si la entidad no se cargó antes en esta transacción,
// para que el diff de auditoría parta del valor real.
func (u *unit) ensureBaseline(ctx context.Context, e entity.Entity) error {
	if u.tracker.HasBaseline(e) {
		return nil
	}
	current, err := u.fetch(ctx, e.Kind(), e.PK(), true)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.NotFound("%s %d no existe", e.Kind(), e.PK())
	}
	u.tracker.Loaded(current)
	return nil
}

// Commit inserta los registros de auditoría y confirma. Si algo falla, deshace todo.
func (u *unit) Commit(ctx context.Context) error {
	if err := u.active(); err != nil {
		return err
	}
	u.done = true
	logs, err := u.pipeline.BeforeCommit(ctx, u.meta, u.tracker.Changes())
	if err != nil {
		_ = u.tx.Rollback(ctx)
		return err
	}
	for _, l := range logs {
		if err := insertAuditLog(ctx, u.tx, l); err != nil {
			_ = u.tx.Rollback(ctx)
			return err
		}
	}
	if err := u.tx.Commit(ctx); err != nil {
		return domain.Persistence(err, "commit transaction")
	}
	u.pipeline.AfterCommit(ctx, logs)
	return nil
}

func (u *unit) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	if err := u.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return domain.Persistence(err, "rollback transaction")
	}
	return nil
}

// insertAuditLog escribe el registro por fuera del tracker (no se audita a sí mismo).
func insertAuditLog(ctx context.Context, q pgx.Tx, l *entity.AuditLog) error {
	changes, err := json.Marshal(l.Changes)
	if err != nil {
		return domain.Persistence(err, "audit: serializar changes")
	}
	query, args, err := builder.Insert("audit_logs").
		Columns("action", "entity", "entity_pk", "user_id", "ip", "created_at", "changes").
		Values(l.Action, l.Entity, l.EntityPK, l.UserID, l.IP, l.CreatedAt, changes).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return domain.Persistence(err, "build insert audit_logs")
	}
	if err := q.QueryRow(ctx, query, args...).Scan(&l.ID); err != nil {
		return mapError(err, fmt.Sprintf("insert audit_logs (%s %s)", l.Entity, l.EntityPK))
	}
	return nil
}
