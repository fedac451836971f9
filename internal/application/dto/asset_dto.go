package dto

import (
	"time"

	"github.com/jhoicas/ascensores-api/internal/domain/entity"
)

// DateLayout formato de fechas sin hora (relationshipStart).
const DateLayout = "2006-01-02"

// ── Edificios ────────────────────────────────────────────────────────────────

// CreateBuildingRequest alta de edificio.
type CreateBuildingRequest struct {
	Address           string  `json:"address" validate:"required,min=1,max=300"`
	Neighborhood      string  `json:"neighborhood" validate:"max=120"`
	ContactPhone      string  `json:"contactPhone" validate:"max=60"`
	EntryHours        string  `json:"entryHours" validate:"max=120"`
	ClientName        string  `json:"clientName" validate:"max=200"`
	RelationshipStart *string `json:"relationshipStart" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateBuildingRequest actualización parcial: solo se escriben los campos presentes.
type UpdateBuildingRequest struct {
	Address           entity.Optional[string]  `json:"address"`
	Neighborhood      entity.Optional[string]  `json:"neighborhood"`
	ContactPhone      entity.Optional[string]  `json:"contactPhone"`
	EntryHours        entity.Optional[string]  `json:"entryHours"`
	ClientName        entity.Optional[string]  `json:"clientName"`
	RelationshipStart entity.Optional[*string] `json:"relationshipStart"`
}

// BuildingResponse salida de edificio.
type BuildingResponse struct {
	ID                string    `json:"id"`
	CompanyID         string    `json:"companyId"`
	Address           string    `json:"address"`
	Neighborhood      string    `json:"neighborhood"`
	ContactPhone      string    `json:"contactPhone"`
	EntryHours        string    `json:"entryHours"`
	ClientName        string    `json:"clientName"`
	RelationshipStart *string   `json:"relationshipStart"`
	CreatedAt         time.Time `json:"createdAt"`
}

// CreateBuildingWithAssetsRequest alta de edificio con sus ascensores y equipos en una sola transacción.
type CreateBuildingWithAssetsRequest struct {
	Building  CreateBuildingRequest `json:"building" validate:"required"`
	Elevators []ElevatorFields      `json:"elevators" validate:"dive"`
	Equipment []EquipmentFields     `json:"equipment" validate:"dive"`
}

// BuildingWithAssetsResponse resultado del alta compuesta.
type BuildingWithAssetsResponse struct {
	Building  BuildingResponse    `json:"building"`
	Elevators []ElevatorResponse  `json:"elevators"`
	Equipment []EquipmentResponse `json:"equipment"`
}

// ── Ascensores ───────────────────────────────────────────────────────────────

// ElevatorFields datos de un ascensor sin el edificio.
type ElevatorFields struct {
	Number              int     `json:"number" validate:"min=0"`
	LocationDescription string  `json:"locationDescription" validate:"max=300"`
	TwoDoors            bool    `json:"twoDoors"`
	Status              string  `json:"status" validate:"omitempty,oneof=fit fit_needs_improvements not_fit"`
	Stops               int     `json:"stops" validate:"min=0"`
	Capacity            int     `json:"capacity" validate:"min=0"`
	MachineRoomLocation string  `json:"machineRoomLocation" validate:"max=200"`
	ControlType         string  `json:"controlType" validate:"max=120"`
	PlateNumber         *string `json:"plateNumber" validate:"omitempty,max=60"`
}

// CreateElevatorRequest alta de ascensor.
type CreateElevatorRequest struct {
	BuildingID string `json:"buildingId" validate:"required"`
	ElevatorFields
}

// UpdateElevatorRequest actualización parcial de ascensor.
type UpdateElevatorRequest struct {
	BuildingID          entity.Optional[string]  `json:"buildingId"`
	Number              entity.Optional[int]     `json:"number"`
	LocationDescription entity.Optional[string]  `json:"locationDescription"`
	TwoDoors            entity.Optional[bool]    `json:"twoDoors"`
	Status              entity.Optional[string]  `json:"status"`
	Stops               entity.Optional[int]     `json:"stops"`
	Capacity            entity.Optional[int]     `json:"capacity"`
	MachineRoomLocation entity.Optional[string]  `json:"machineRoomLocation"`
	ControlType         entity.Optional[string]  `json:"controlType"`
	PlateNumber         entity.Optional[*string] `json:"plateNumber"`
}

// ElevatorResponse salida de ascensor.
type ElevatorResponse struct {
	ID                  string    `json:"id"`
	CompanyID           string    `json:"companyId"`
	BuildingID          string    `json:"buildingId"`
	Number              int       `json:"number"`
	LocationDescription string    `json:"locationDescription"`
	TwoDoors            bool      `json:"twoDoors"`
	Status              string    `json:"status"`
	Stops               int       `json:"stops"`
	Capacity            int       `json:"capacity"`
	MachineRoomLocation string    `json:"machineRoomLocation"`
	ControlType         string    `json:"controlType"`
	PlateNumber         *string   `json:"plateNumber"`
	CreatedAt           time.Time `json:"createdAt"`
}

// CreateHistoryRequest entrada manual en el libro de servicio.
type CreateHistoryRequest struct {
	WorkOrderID    *string    `json:"workOrderId"`
	Date           *time.Time `json:"date"`
	Description    string     `json:"description" validate:"required,min=1,max=2000"`
	TechnicianName string     `json:"technicianName" validate:"max=200"`
}

// HistoryResponse entrada del libro de servicio.
type HistoryResponse struct {
	ID             string    `json:"id"`
	ElevatorID     string    `json:"elevatorId"`
	WorkOrderID    *string   `json:"workOrderId"`
	Date           time.Time `json:"date"`
	Description    string    `json:"description"`
	TechnicianName string    `json:"technicianName"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ── Equipos ──────────────────────────────────────────────────────────────────

// EquipmentFields datos de un equipo sin el edificio.
type EquipmentFields struct {
	Type                string  `json:"type" validate:"required,oneof=elevator water_pump freight_elevator car_lift dumbwaiter camillero other"`
	Name                string  `json:"name" validate:"required,min=1,max=200"`
	LocationDescription string  `json:"locationDescription" validate:"max=300"`
	Brand               *string `json:"brand" validate:"omitempty,max=120"`
	Model               *string `json:"model" validate:"omitempty,max=120"`
	SerialNumber        *string `json:"serialNumber" validate:"omitempty,max=120"`
	Capacity            *string `json:"capacity" validate:"omitempty,max=120"`
	Status              string  `json:"status" validate:"omitempty,oneof=fit out_of_service"`
}

// CreateEquipmentRequest alta de equipo.
type CreateEquipmentRequest struct {
	BuildingID string `json:"buildingId" validate:"required"`
	EquipmentFields
}

// UpdateEquipmentRequest actualización parcial de equipo.
type UpdateEquipmentRequest struct {
	Type                entity.Optional[string]  `json:"type"`
	Name                entity.Optional[string]  `json:"name"`
	LocationDescription entity.Optional[string]  `json:"locationDescription"`
	Brand               entity.Optional[*string] `json:"brand"`
	Model               entity.Optional[*string] `json:"model"`
	SerialNumber        entity.Optional[*string] `json:"serialNumber"`
	Capacity            entity.Optional[*string] `json:"capacity"`
	Status              entity.Optional[string]  `json:"status"`
}

// EquipmentResponse salida de equipo.
type EquipmentResponse struct {
	ID                  string    `json:"id"`
	CompanyID           string    `json:"companyId"`
	BuildingID          string    `json:"buildingId"`
	Type                string    `json:"type"`
	Name                string    `json:"name"`
	LocationDescription string    `json:"locationDescription"`
	Brand               *string   `json:"brand"`
	Model               *string   `json:"model"`
	SerialNumber        *string   `json:"serialNumber"`
	Capacity            *string   `json:"capacity"`
	Status              string    `json:"status"`
	CreatedAt           time.Time `json:"createdAt"`
}

// AssetResponse vista unificada de ascensor o equipo. Kind indica cuál de los dos viene.
type AssetResponse struct {
	Kind      string             `json:"kind"`
	ID        string             `json:"id"`
	Label     string             `json:"label"`
	Status    string             `json:"status"`
	Elevator  *ElevatorResponse  `json:"elevator,omitempty"`
	Equipment *EquipmentResponse `json:"equipment,omitempty"`
}

// ── Técnicos ─────────────────────────────────────────────────────────────────

// CreateTechnicianRequest alta de técnico.
type CreateTechnicianRequest struct {
	UserID    *string `json:"userId"`
	Name      string  `json:"name" validate:"required,min=1,max=200"`
	Specialty string  `json:"specialty" validate:"max=120"`
	Contact   string  `json:"contact" validate:"max=200"`
	Role      string  `json:"role" validate:"required,oneof=Reclamista Engrasador"`
}

// UpdateTechnicianRequest actualización parcial de técnico.
type UpdateTechnicianRequest struct {
	UserID    entity.Optional[*string] `json:"userId"`
	Name      entity.Optional[string]  `json:"name"`
	Specialty entity.Optional[string]  `json:"specialty"`
	Contact   entity.Optional[string]  `json:"contact"`
	Role      entity.Optional[string]  `json:"role"`
}

// TechnicianResponse salida de técnico. Status (free | busy) es derivado y solo viene en listados.
type TechnicianResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	UserID    *string   `json:"userId"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
	Contact   string    `json:"contact"`
	Role      string    `json:"role"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ── Informes de ingeniero ────────────────────────────────────────────────────

// CreateEngineerReportRequest alta de informe de inspección.
type CreateEngineerReportRequest struct {
	Address  string  `json:"address" validate:"required,min=1,max=300"`
	Comments *string `json:"comments" validate:"omitempty,max=4000"`
}

// SetReportReadRequest marca de lectura.
type SetReportReadRequest struct {
	IsRead *bool `json:"isRead" validate:"required"`
}

// EngineerReportResponse salida de informe.
type EngineerReportResponse struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"companyId"`
	EngineerID   string    `json:"engineerId"`
	EngineerName string    `json:"engineerName"`
	Address      string    `json:"address"`
	Comments     *string   `json:"comments"`
	IsRead       bool      `json:"isRead"`
	CreatedAt    time.Time `json:"createdAt"`
}
