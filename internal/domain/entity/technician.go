package entity

import "time"

// Roles de técnico.
const (
	TechnicianReclamista = "Reclamista"
	TechnicianEngrasador = "Engrasador"
)

// Estado derivado (nunca persistido).
const (
	TechnicianFree = "free"
	TechnicianBusy = "busy"
)

// Technician técnico de campo. UserID vincula opcionalmente a una identidad.
type Technician struct {
	ID        string
	CompanyID string
	UserID    *string
	Name      string
	Specialty string
	Contact   string
	Role      string
	CreatedAt time.Time
}

// TechnicianPatch actualización parcial de un técnico.
type TechnicianPatch struct {
	UserID    Optional[*string]
	Name      Optional[string]
	Specialty Optional[string]
	Contact   Optional[string]
	Role      Optional[string]
}

// Apply aplica los campos presentes sobre t.
func (p TechnicianPatch) Apply(t *Technician) {
	p.UserID.ApplyTo(&t.UserID)
	p.Name.ApplyTo(&t.Name)
	p.Specialty.ApplyTo(&t.Specialty)
	p.Contact.ApplyTo(&t.Contact)
	p.Role.ApplyTo(&t.Role)
}

// LinkedTo informa si el técnico está vinculado a la identidad userID.
func (t *Technician) LinkedTo(userID string) bool {
	return t != nil && t.UserID != nil && *t.UserID == userID
}
