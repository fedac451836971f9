package entity

import "time"

// Building edificio cliente. Agrupa ascensores y equipos.
type Building struct {
	ID                string
	CompanyID         string
	Address           string
	Neighborhood      string
	ContactPhone      string
	EntryHours        string
	ClientName        string
	RelationshipStart *time.Time
	CreatedAt         time.Time
}

// BuildingPatch actualización parcial de un edificio.
type BuildingPatch struct {
	Address           Optional[string]
	Neighborhood      Optional[string]
	ContactPhone      Optional[string]
	EntryHours        Optional[string]
	ClientName        Optional[string]
	RelationshipStart Optional[*time.Time]
}

// Empty informa si el patch no trae campos.
func (p BuildingPatch) Empty() bool {
	return !p.Address.Set && !p.Neighborhood.Set && !p.ContactPhone.Set &&
		!p.EntryHours.Set && !p.ClientName.Set && !p.RelationshipStart.Set
}

// Apply aplica los campos presentes sobre b.
func (p BuildingPatch) Apply(b *Building) {
	p.Address.ApplyTo(&b.Address)
	p.Neighborhood.ApplyTo(&b.Neighborhood)
	p.ContactPhone.ApplyTo(&b.ContactPhone)
	p.EntryHours.ApplyTo(&b.EntryHours)
	p.ClientName.ApplyTo(&b.ClientName)
	p.RelationshipStart.ApplyTo(&b.RelationshipStart)
}
