package uow

import "github.com/jhoicas/backoffice-api/internal/domain/entity"

// Op tipo de cambio pendiente.
type Op int

const (
	OpInsert Op = iota + 1
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return entity.ActionInsert
	case OpUpdate:
		return entity.ActionUpdate
	case OpDelete:
		return entity.ActionDelete
	}
	return "UNKNOWN"
}

// Change cambio pendiente de una entidad dentro de la unidad de trabajo.
type Change struct {
	Op     Op
	Entity entity.Entity
	// Original campos normalizados al cargar la entidad (base del diff de UPDATE).
	Original map[string]any
	// Snapshot campos previos al borrado; lo completa el hook BeforeFlush.
	Snapshot map[string]any
}

type key struct {
	kind entity.Kind
	id   int64
}

func keyOf(e entity.Entity) key { return key{kind: e.Kind(), id: e.PK()} }

// Tracker lista explícita de cambios pendientes. Una entidad aparece como mucho una vez:
// insertar y luego actualizar sigue siendo un INSERT (con el estado final); actualizar y luego
// borrar es un DELETE; insertar y luego borrar no deja rastro.
type Tracker struct {
	baseline map[key]map[string]any
	index    map[key]*Change
	order    []*Change
}

// NewTracker crea un tracker vacío.
func NewTracker() *Tracker {
	return &Tracker{
		baseline: make(map[key]map[string]any),
		index:    make(map[key]*Change),
	}
}

// Loaded registra el estado persistido de la entidad la primera vez que se lee en la unidad de trabajo.
func (t *Tracker) Loaded(e entity.Entity) {
	k := keyOf(e)
	if _, ok := t.baseline[k]; ok {
		return
	}
	if c, ok := t.index[k]; ok && c.Op == OpInsert {
		return
	}
	t.baseline[k] = entity.Snapshot(e)
}

// HasBaseline indica si la entidad ya se cargó (o se insertó) en esta unidad de trabajo.
func (t *Tracker) HasBaseline(e entity.Entity) bool {
	k := keyOf(e)
	if _, ok := t.baseline[k]; ok {
		return true
	}
	c, ok := t.index[k]
	return ok && c.Op == OpInsert
}

// Inserted registra un alta (la entidad ya tiene identidad).
func (t *Tracker) Inserted(e entity.Entity) {
	c := &Change{Op: OpInsert, Entity: e}
	t.index[keyOf(e)] = c
	t.order = append(t.order, c)
}

// Updated registra una modificación.
func (t *Tracker) Updated(e entity.Entity) {
	k := keyOf(e)
	if c, ok := t.index[k]; ok {
		if c.Op != OpDelete {
			c.Entity = e
		}
		return
	}
	c := &Change{Op: OpUpdate, Entity: e, Original: t.baseline[k]}
	t.index[k] = c
	t.order = append(t.order, c)
}

// Deleted registra un borrado y devuelve el cambio para que el hook BeforeFlush tome el snapshot.
// Devuelve nil si la entidad se había insertado en esta misma unidad de trabajo.
func (t *Tracker) Deleted(e entity.Entity) *Change {
	k := keyOf(e)
	if c, ok := t.index[k]; ok {
		switch c.Op {
		case OpInsert:
			t.remove(c)
			delete(t.index, k)
			return nil
		case OpUpdate:
			c.Op = OpDelete
			c.Entity = e
			return c
		case OpDelete:
			return c
		}
	}
	c := &Change{Op: OpDelete, Entity: e, Original: t.baseline[k]}
	t.index[k] = c
	t.order = append(t.order, c)
	return c
}

// Changes devuelve los cambios pendientes en orden de registro.
func (t *Tracker) Changes() []Change {
	out := make([]Change, 0, len(t.order))
	for _, c := range t.order {
		out = append(out, *c)
	}
	return out
}

// Len número de cambios pendientes.
func (t *Tracker) Len() int { return len(t.order) }

func (t *Tracker) remove(target *Change) {
	for i, c := range t.order {
		if c == target {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}
