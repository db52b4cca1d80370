package entity

import "strings"

// Kind identifica el tipo de entidad del libro mayor (conjunto cerrado).
type Kind string

const (
	KindClient    Kind = "Client"
	KindProduct   Kind = "Product"
	KindCategory  Kind = "Category"
	KindVendor    Kind = "Vendor"
	KindOrder     Kind = "Order"
	KindOrderItem Kind = "OrderItem"
	KindFile      Kind = "File"
	KindAuditLog  Kind = "AuditLog"
)

// watched tipos cuya mutación genera registros de auditoría.
var watched = map[Kind]bool{
	KindClient:    true,
	KindProduct:   true,
	KindCategory:  true,
	KindVendor:    true,
	KindOrder:     true,
	KindOrderItem: true,
	KindFile:      true,
}

// Watched indica si el tipo está en la lista de auditoría. AuditLog nunca lo está.
func (k Kind) Watched() bool { return watched[k] }

// Valid indica si el tipo es conocido.
func (k Kind) Valid() bool { return watched[k] || k == KindAuditLog }

// ParseKind interpreta un nombre de tipo sin distinguir mayúsculas ("order_item" también es válido).
func ParseKind(s string) (Kind, bool) {
	norm := strings.ToLower(strings.ReplaceAll(s, "_", ""))
	for k := range watched {
		if strings.ToLower(string(k)) == norm {
			return k, true
		}
	}
	if norm == "auditlog" {
		return KindAuditLog, true
	}
	return "", false
}

// Entity contrato común de las entidades persistidas en el libro mayor.
// Fields devuelve solo columnas escalares; las colecciones (p. ej. Order.Items) no forman parte.
type Entity interface {
	Kind() Kind
	PK() int64
	SetPK(id int64)
	Fields() map[string]any
	Clone() Entity
}

// New devuelve una entidad vacía del tipo indicado (usado por los almacenes al escanear filas).
func New(k Kind) Entity {
	switch k {
	case KindClient:
		return &Client{}
	case KindProduct:
		return &Product{}
	case KindCategory:
		return &Category{}
	case KindVendor:
		return &Vendor{}
	case KindOrder:
		return &Order{}
	case KindOrderItem:
		return &OrderItem{}
	case KindFile:
		return &File{}
	case KindAuditLog:
		return &AuditLog{}
	}
	return nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
