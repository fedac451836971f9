package entity

import "time"

// Estados de habilitación de un ascensor.
const (
	ElevatorFit                  = "fit"
	ElevatorFitNeedsImprovements = "fit_needs_improvements"
	ElevatorNotFit               = "not_fit"
)

// Elevator ascensor de un edificio. Number es un índice de presentación (no único).
type Elevator struct {
	ID                  string
	CompanyID           string
	BuildingID          string
	Number              int
	LocationDescription string
	TwoDoors            bool
	Status              string
	Stops               int
	Capacity            int // kg
	MachineRoomLocation string
	ControlType         string
	PlateNumber         *string
	CreatedAt           time.Time
}

// ElevatorPatch actualización parcial de un ascensor.
type ElevatorPatch struct {
	BuildingID          Optional[string]
	Number              Optional[int]
	LocationDescription Optional[string]
	TwoDoors            Optional[bool]
	Status              Optional[string]
	Stops               Optional[int]
	Capacity            Optional[int]
	MachineRoomLocation Optional[string]
	ControlType         Optional[string]
	PlateNumber         Optional[*string]
}

// Apply aplica los campos presentes sobre e.
func (p ElevatorPatch) Apply(e *Elevator) {
	p.BuildingID.ApplyTo(&e.BuildingID)
	p.Number.ApplyTo(&e.Number)
	p.LocationDescription.ApplyTo(&e.LocationDescription)
	p.TwoDoors.ApplyTo(&e.TwoDoors)
	p.Status.ApplyTo(&e.Status)
	p.Stops.ApplyTo(&e.Stops)
	p.Capacity.ApplyTo(&e.Capacity)
	p.MachineRoomLocation.ApplyTo(&e.MachineRoomLocation)
	p.ControlType.ApplyTo(&e.ControlType)
	p.PlateNumber.ApplyTo(&e.PlateNumber)
}

// ValidElevatorStatus informa si s es un estado conocido.
func ValidElevatorStatus(s string) bool {
	switch s {
	case ElevatorFit, ElevatorFitNeedsImprovements, ElevatorNotFit:
		return true
	}
	return false
}

// ElevatorHistory entrada del libro de servicio de un ascensor (solo se agrega).
// TechnicianName es una copia, no una referencia.
type ElevatorHistory struct {
	ID             string
	CompanyID      string
	ElevatorID     string
	WorkOrderID    *string
	Date           time.Time
	Description    string
	TechnicianName string
	CreatedAt      time.Time
}
