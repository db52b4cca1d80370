package entity

// Category categoría de productos.
type Category struct {
	ID   int64
	Name string
}

func (c *Category) Kind() Kind     { return KindCategory }
func (c *Category) PK() int64      { return c.ID }
func (c *Category) SetPK(id int64) { c.ID = id }
func (c *Category) Clone() Entity  { cp := *c; return &cp }

func (c *Category) Fields() map[string]any {
	return map[string]any{"id": c.ID, "name": c.Name}
}
