package entity

import "time"

// Tipos de equipo. "elevator" convive con la entidad Elevator: un mismo ascensor
// puede existir como fila de Equipment y como fila de Elevator.
const (
	EquipmentElevator        = "elevator"
	EquipmentWaterPump       = "water_pump"
	EquipmentFreightElevator = "freight_elevator"
	EquipmentCarLift         = "car_lift"
	EquipmentDumbwaiter      = "dumbwaiter"
	EquipmentCamillero       = "camillero"
	EquipmentOther           = "other"
)

// Estados de un equipo.
const (
	EquipmentStatusFit          = "fit"
	EquipmentStatusOutOfService = "out_of_service"
)

// Equipment equipo genérico de un edificio (bombas, montacargas, etc.).
type Equipment struct {
	ID                  string
	CompanyID           string
	BuildingID          string
	Type                string
	Name                string
	LocationDescription string
	Brand               *string
	Model               *string
	SerialNumber        *string
	Capacity            *string
	Status              string
	CreatedAt           time.Time
}

// EquipmentPatch actualización parcial de un equipo.
type EquipmentPatch struct {
	Type                Optional[string]
	Name                Optional[string]
	LocationDescription Optional[string]
	Brand               Optional[*string]
	Model               Optional[*string]
	SerialNumber        Optional[*string]
	Capacity            Optional[*string]
	Status              Optional[string]
}

// Apply aplica los campos presentes sobre e.
func (p EquipmentPatch) Apply(e *Equipment) {
	p.Type.ApplyTo(&e.Type)
	p.Name.ApplyTo(&e.Name)
	p.LocationDescription.ApplyTo(&e.LocationDescription)
	p.Brand.ApplyTo(&e.Brand)
	p.Model.ApplyTo(&e.Model)
	p.SerialNumber.ApplyTo(&e.SerialNumber)
	p.Capacity.ApplyTo(&e.Capacity)
	p.Status.ApplyTo(&e.Status)
}

// ValidEquipmentType informa si t es un tipo conocido.
func ValidEquipmentType(t string) bool {
	switch t {
	case EquipmentElevator, EquipmentWaterPump, EquipmentFreightElevator, EquipmentCarLift,
		EquipmentDumbwaiter, EquipmentCamillero, EquipmentOther:
		return true
	}
	return false
}

// Asset vista unificada de solo lectura sobre Elevator y Equipment.
// Kind distingue la variante; exactamente uno de Elevator/Equipment es no nil.
type Asset struct {
	Kind      string // "elevator" | "equipment"
	ID        string
	Label     string
	Status    string
	Elevator  *Elevator
	Equipment *Equipment
}

const (
	AssetKindElevator  = "elevator"
	AssetKindEquipment = "equipment"
)
