package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ascensores-api/internal/domain/entity"
)

// PartUsedDTO repuesto consumido. Quantity acepta número o texto ("1.5").
type PartUsedDTO struct {
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CreateWorkOrderRequest alta de orden. buildingId y al menos un activo se validan en el caso de uso.
type CreateWorkOrderRequest struct {
	ClaimType      string     `json:"claimType" validate:"required"`
	CorrectiveType *string    `json:"correctiveType"`
	BuildingID     string     `json:"buildingId"`
	ElevatorID     *string    `json:"elevatorId"`
	EquipmentID    *string    `json:"equipmentId"`
	TechnicianID   *string    `json:"technicianId"`
	ContactName    string     `json:"contactName" validate:"max=200"`
	ContactPhone   string     `json:"contactPhone" validate:"max=60"`
	DateTime       *time.Time `json:"dateTime"`
	Description    string     `json:"description" validate:"max=4000"`
	Priority       string     `json:"priority"`
}

// UpdateWorkOrderRequest actualización parcial. Status pasa por la máquina de estados.
type UpdateWorkOrderRequest struct {
	ClaimType        entity.Optional[string]        `json:"claimType"`
	CorrectiveType   entity.Optional[*string]       `json:"correctiveType"`
	BuildingID       entity.Optional[string]        `json:"buildingId"`
	ElevatorID       entity.Optional[*string]       `json:"elevatorId"`
	EquipmentID      entity.Optional[*string]       `json:"equipmentId"`
	TechnicianID     entity.Optional[*string]       `json:"technicianId"`
	ContactName      entity.Optional[string]        `json:"contactName"`
	ContactPhone     entity.Optional[string]        `json:"contactPhone"`
	DateTime         entity.Optional[*time.Time]    `json:"dateTime"`
	Description      entity.Optional[string]        `json:"description"`
	Priority         entity.Optional[string]        `json:"priority"`
	Comments         entity.Optional[*string]       `json:"comments"`
	PartsUsed        entity.Optional[[]PartUsedDTO] `json:"partsUsed"`
	PhotoURLs        entity.Optional[[]string]      `json:"photoUrls"`
	SignatureDataURL entity.Optional[*string]       `json:"signatureDataUrl"`
	Status           entity.Optional[string]        `json:"status"`
}

// ChangeStatusRequest cambio de estado explícito.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CompleteWorkOrderRequest cierre de una orden. Si signatureDataUrl viene vacío se usa la firma ya guardada.
type CompleteWorkOrderRequest struct {
	Comments         *string       `json:"comments" validate:"omitempty,max=4000"`
	PartsUsed        []PartUsedDTO `json:"partsUsed" validate:"dive"`
	PhotoURLs        []string      `json:"photoUrls" validate:"dive,url"`
	SignatureDataURL *string       `json:"signatureDataUrl"`
}

// WorkOrderResponse salida de una orden.
type WorkOrderResponse struct {
	ID               string        `json:"id"`
	CompanyID        string        `json:"companyId"`
	ClaimType        string        `json:"claimType"`
	CorrectiveType   *string       `json:"correctiveType"`
	BuildingID       string        `json:"buildingId"`
	ElevatorID       *string       `json:"elevatorId"`
	EquipmentID      *string       `json:"equipmentId"`
	TechnicianID     *string       `json:"technicianId"`
	ContactName      string        `json:"contactName"`
	ContactPhone     string        `json:"contactPhone"`
	DateTime         *time.Time    `json:"dateTime"`
	Description      string        `json:"description"`
	Status           string        `json:"status"`
	Priority         string        `json:"priority"`
	CreatedAt        time.Time     `json:"createdAt"`
	StartTime        *time.Time    `json:"startTime"`
	FinishTime       *time.Time    `json:"finishTime"`
	Comments         *string       `json:"comments"`
	PartsUsed        []PartUsedDTO `json:"partsUsed"`
	PhotoURLs        []string      `json:"photoUrls"`
	SignatureDataURL *string       `json:"signatureDataUrl"`
}

// UploadResponse URL pública del archivo subido.
type UploadResponse struct {
	URL string `json:"url"`
}

// RemitoResponse comprobante emitido.
type RemitoResponse struct {
	WorkOrderID  string    `json:"workOrderId"`
	RemitoNumber int64     `json:"remitoNumber"`
	Display      string    `json:"display"`
	FileURL      string    `json:"fileUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
