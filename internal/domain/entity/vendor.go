package entity

// Vendor proveedor.
type Vendor struct {
	ID       int64
	Name     string
	Document *string // CNPJ/NIT u otro documento fiscal
	Email    *string
}

func (v *Vendor) Kind() Kind     { return KindVendor }
func (v *Vendor) PK() int64      { return v.ID }
func (v *Vendor) SetPK(id int64) { v.ID = id }
func (v *Vendor) Clone() Entity {
	cp := *v
	cp.Document = clonePtr(v.Document)
	cp.Email = clonePtr(v.Email)
	return &cp
}

func (v *Vendor) Fields() map[string]any {
	return map[string]any{
		"id":       v.ID,
		"name":     v.Name,
		"document": v.Document,
		"email":    v.Email,
	}
}
