package postgres

import (
	"strings"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// table metadatos de mapeo de un tipo de entidad. columns excluye id y está en orden de inserción.
type table struct {
	name    string
	columns []string
	// targets devuelve punteros de escaneo en el orden id, columns...
	targets func(e entity.Entity) []any
}

var tables = map[entity.Kind]table{
	entity.KindClient: {
		name:    "clients",
		columns: []string{"name", "email", "created_at"},
		targets: func(e entity.Entity) []any {
			c := e.(*entity.Client)
			return []any{&c.ID, &c.Name, &c.Email, &c.CreatedAt}
		},
	},
	entity.KindProduct: {
		name:    "products",
		columns: []string{"name", "price", "stock", "category_id"},
		targets: func(e entity.Entity) []any {
			p := e.(*entity.Product)
			return []any{&p.ID, &p.Name, &p.Price, &p.Stock, &p.CategoryID}
		},
	},
	entity.KindCategory: {
		name:    "categories",
		columns: []string{"name"},
		targets: func(e entity.Entity) []any {
			c := e.(*entity.Category)
			return []any{&c.ID, &c.Name}
		},
	},
	entity.KindVendor: {
		name:    "vendors",
		columns: []string{"name", "document", "email"},
		targets: func(e entity.Entity) []any {
			v := e.(*entity.Vendor)
			return []any{&v.ID, &v.Name, &v.Document, &v.Email}
		},
	},
	entity.KindFile: {
		name:    "files",
		columns: []string{"name", "content_type", "size_bytes", "created_at"},
		targets: func(e entity.Entity) []any {
			f := e.(*entity.File)
			return []any{&f.ID, &f.Name, &f.ContentType, &f.SizeBytes, &f.CreatedAt}
		},
	},
	entity.KindOrder: {
		name:    "orders",
		columns: []string{"client_id", "status", "total_value", "created_at"},
		targets: func(e entity.Entity) []any {
			o := e.(*entity.Order)
			return []any{&o.ID, &o.ClientID, &o.Status, &o.TotalValue, &o.CreatedAt}
		},
	},
	entity.KindOrderItem: {
		name:    "order_items",
		columns: []string{"order_id", "product_id", "quantity", "unit_price"},
		targets: func(e entity.Entity) []any {
			i := e.(*entity.OrderItem)
			return []any{&i.ID, &i.OrderID, &i.ProductID, &i.Quantity, &i.UnitPrice}
		},
	},
}

func (t table) selectColumns() []string {
	return append([]string{"id"}, t.columns...)
}

// returning cláusula RETURNING con las columnas en el orden de targets.
func (t table) returning() string {
	return "RETURNING " + strings.Join(t.selectColumns(), ", ")
}

func (t table) has(col string) bool {
	if col == "id" {
		return true
	}
	for _, c := range t.columns {
		if c == col {
			return true
		}
	}
	return false
}

// values devuelve los valores de columns en orden.
func (t table) values(e entity.Entity) []any {
	fields := e.Fields()
	out := make([]any, len(t.columns))
	for i, c := range t.columns {
		out[i] = fields[c]
	}
	return out
}
