package entity

import "time"

// Company representa una empresa de mantenimiento (tenant). Todo lo operativo cuelga de ella.
type Company struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Facetas de sesión. Son mutuamente excluyentes por sesión activa.
const (
	RoleOffice     = "office"
	RoleTechnician = "technician"
	RoleEngineer   = "engineer"
)

// CompanyMembership vincula una identidad con una empresa (oficina o técnico).
// Un usuario puede pertenecer a varias empresas; solo una está activa por sesión.
type CompanyMembership struct {
	ID          string
	UserID      string
	CompanyID   string
	CompanyName string // denormalizado en lecturas
	Role        string // office | technician
	CreatedAt   time.Time
}

// JoinCode credencial emitida por una empresa que, al canjearse, crea la membresía
// correspondiente (miembro o ingeniero) sin alta manual por parte de la oficina.
type JoinCode struct {
	Code      string
	CompanyID string
	Role      string // office | technician | engineer
	CreatedAt time.Time
	ExpiresAt *time.Time // nil = sin vencimiento
}

// Expired informa si el código venció respecto de now.
func (j *JoinCode) Expired(now time.Time) bool {
	return j.ExpiresAt != nil && !now.Before(*j.ExpiresAt)
}
