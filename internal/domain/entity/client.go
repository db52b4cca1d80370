package entity

import "time"

// Client cliente del negocio. Solo se puede borrar si no tiene pedidos.
type Client struct {
	ID        int64
	Name      string
	Email     *string
	CreatedAt time.Time
}

func (c *Client) Kind() Kind     { return KindClient }
func (c *Client) PK() int64      { return c.ID }
func (c *Client) SetPK(id int64) { c.ID = id }
func (c *Client) Clone() Entity {
	cp := *c
	cp.Email = clonePtr(c.Email)
	return &cp
}

func (c *Client) Fields() map[string]any {
	return map[string]any{
		"id":         c.ID,
		"name":       c.Name,
		"email":      c.Email,
		"created_at": c.CreatedAt,
	}
}
