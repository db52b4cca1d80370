package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleOperador = "operador"
	RoleLeitor   = "leitor"
)

// User usuario del back-office. Su ID se registra como user_id en la auditoría.
type User struct {
	ID           int64
	Email        string
	PasswordHash string // bcrypt
	Role         string
	CreatedAt    time.Time
}
