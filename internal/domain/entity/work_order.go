package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de trabajo. Completed es terminal.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Tipos de reclamo (vocabulario interno único).
const (
	ClaimSemiannualTests    = "Semiannual Tests"
	ClaimMonthlyMaintenance = "Monthly Maintenance"
	ClaimCorrective         = "Corrective"
)

// Subtipos de correctivo (solo aplican con ClaimCorrective).
const (
	CorrectiveMinorRepair   = "Minor Repair"
	CorrectiveRefurbishment = "Refurbishment"
	CorrectiveInstallation  = "Installation"
)

// Prioridades.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// PartUsed repuesto o insumo consumido (grasa en litros, cable en metros: cantidad decimal).
type PartUsed struct {
	Name     string
	Quantity decimal.Decimal
}

// WorkOrder orden de trabajo. Referencia un edificio y al menos un ascensor o equipo.
type WorkOrder struct {
	ID               string
	CompanyID        string
	ClaimType        string
	CorrectiveType   *string
	BuildingID       string
	ElevatorID       *string
	EquipmentID      *string
	TechnicianID     *string
	ContactName      string
	ContactPhone     string
	DateTime         *time.Time
	Description      string
	Status           string
	Priority         string
	CreatedAt        time.Time
	StartTime        *time.Time
	FinishTime       *time.Time
	Comments         *string
	PartsUsed        []PartUsed
	PhotoURLs        []string
	SignatureDataURL *string
}

// WorkOrderPatch actualización parcial. Status se cambia por la máquina de estados,
// no por este patch.
type WorkOrderPatch struct {
	ClaimType        Optional[string]
	CorrectiveType   Optional[*string]
	BuildingID       Optional[string]
	ElevatorID       Optional[*string]
	EquipmentID      Optional[*string]
	TechnicianID     Optional[*string]
	ContactName      Optional[string]
	ContactPhone     Optional[string]
	DateTime         Optional[*time.Time]
	Description      Optional[string]
	Priority         Optional[string]
	Comments         Optional[*string]
	PartsUsed        Optional[[]PartUsed]
	PhotoURLs        Optional[[]string]
	SignatureDataURL Optional[*string]
}

// Apply aplica los campos presentes sobre w.
func (p WorkOrderPatch) Apply(w *WorkOrder) {
	p.ClaimType.ApplyTo(&w.ClaimType)
	p.CorrectiveType.ApplyTo(&w.CorrectiveType)
	p.BuildingID.ApplyTo(&w.BuildingID)
	p.ElevatorID.ApplyTo(&w.ElevatorID)
	p.EquipmentID.ApplyTo(&w.EquipmentID)
	p.TechnicianID.ApplyTo(&w.TechnicianID)
	p.ContactName.ApplyTo(&w.ContactName)
	p.ContactPhone.ApplyTo(&w.ContactPhone)
	p.DateTime.ApplyTo(&w.DateTime)
	p.Description.ApplyTo(&w.Description)
	p.Priority.ApplyTo(&w.Priority)
	p.Comments.ApplyTo(&w.Comments)
	p.PartsUsed.ApplyTo(&w.PartsUsed)
	p.PhotoURLs.ApplyTo(&w.PhotoURLs)
	p.SignatureDataURL.ApplyTo(&w.SignatureDataURL)
}

// Apply pasa la orden a Completed con los datos de cierre.
func (c Completion) Apply(w *WorkOrder) {
	sig := c.SignatureDataURL
	finish := c.FinishTime
	w.Status = StatusCompleted
	w.FinishTime = &finish
	w.Comments = c.Comments
	w.PartsUsed = c.PartsUsed
	w.PhotoURLs = c.PhotoURLs
	w.SignatureDataURL = &sig
}

// Completion datos que se persisten en la misma llamada que el pase a Completed.
type Completion struct {
	FinishTime       time.Time
	Comments         *string
	PartsUsed        []PartUsed
	PhotoURLs        []string
	SignatureDataURL string
}

// HasAsset informa si la orden referencia un ascensor o un equipo.
func (w *WorkOrder) HasAsset() bool {
	return w.ElevatorID != nil || w.EquipmentID != nil
}

// Clone copia profunda (para instantáneas y rollback).
func (w *WorkOrder) Clone() *WorkOrder {
	if w == nil {
		return nil
	}
	c := *w
	if w.PartsUsed != nil {
		c.PartsUsed = append([]PartUsed(nil), w.PartsUsed...)
	}
	if w.PhotoURLs != nil {
		c.PhotoURLs = append([]string(nil), w.PhotoURLs...)
	}
	return &c
}
