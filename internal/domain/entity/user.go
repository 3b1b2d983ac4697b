package entity

import "time"

// Roles válidos para User.
const (
	RoleSolicitante = "solicitante" // técnico que pide material
	RoleAlmacen     = "almacen"     // encargado de bodega
	RoleAdmin       = "admin"
	RoleJefa        = "jefa" // jefatura, solo consulta y aprobación
)

// User representa un usuario del sistema con su sede operativa.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string
	WarehouseID  string // sede operativa; vacío para admin
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
