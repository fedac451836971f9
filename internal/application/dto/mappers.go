package dto

import (
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
)

// ── Entidad → respuesta ──────────────────────────────────────────────────────

func FromUser(u *entity.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

func FromCompany(c *entity.Company) CompanyResponse {
	return CompanyResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

func FromJoinCode(j *entity.JoinCode) JoinCodeResponse {
	return JoinCodeResponse{Code: j.Code, CompanyID: j.CompanyID, Role: j.Role, CreatedAt: j.CreatedAt, ExpiresAt: j.ExpiresAt}
}

func FromEngineer(e *entity.Engineer) EngineerResponse {
	return EngineerResponse{ID: e.ID, UserID: e.UserID, Name: e.Name, Contact: e.Contact, CreatedAt: e.CreatedAt}
}

func FromBuilding(b *entity.Building) BuildingResponse {
	r := BuildingResponse{
		ID:           b.ID,
		CompanyID:    b.CompanyID,
		Address:      b.Address,
		Neighborhood: b.Neighborhood,
		ContactPhone: b.ContactPhone,
		EntryHours:   b.EntryHours,
		ClientName:   b.ClientName,
		CreatedAt:    b.CreatedAt,
	}
	if b.RelationshipStart != nil {
		s := b.RelationshipStart.Format(DateLayout)
		r.RelationshipStart = &s
	}
	return r
}

func FromElevator(e *entity.Elevator) ElevatorResponse {
	return ElevatorResponse{
		ID:                  e.ID,
		CompanyID:           e.CompanyID,
		BuildingID:          e.BuildingID,
		Number:              e.Number,
		LocationDescription: e.LocationDescription,
		TwoDoors:            e.TwoDoors,
		Status:              e.Status,
		Stops:               e.Stops,
		Capacity:            e.Capacity,
		MachineRoomLocation: e.MachineRoomLocation,
		ControlType:         e.ControlType,
		PlateNumber:         e.PlateNumber,
		CreatedAt:           e.CreatedAt,
	}
}

func FromHistory(h *entity.ElevatorHistory) HistoryResponse {
	return HistoryResponse{
		ID:             h.ID,
		ElevatorID:     h.ElevatorID,
		WorkOrderID:    h.WorkOrderID,
		Date:           h.Date,
		Description:    h.Description,
		TechnicianName: h.TechnicianName,
		CreatedAt:      h.CreatedAt,
	}
}

func FromEquipment(e *entity.Equipment) EquipmentResponse {
	return EquipmentResponse{
		ID:                  e.ID,
		CompanyID:           e.CompanyID,
		BuildingID:          e.BuildingID,
		Type:                e.Type,
		Name:                e.Name,
		LocationDescription: e.LocationDescription,
		Brand:               e.Brand,
		Model:               e.Model,
		SerialNumber:        e.SerialNumber,
		Capacity:            e.Capacity,
		Status:              e.Status,
		CreatedAt:           e.CreatedAt,
	}
}

func FromAsset(a entity.Asset) AssetResponse {
	r := AssetResponse{Kind: a.Kind, ID: a.ID, Label: a.Label, Status: a.Status}
	if a.Elevator != nil {
		e := FromElevator(a.Elevator)
		r.Elevator = &e
	}
	if a.Equipment != nil {
		e := FromEquipment(a.Equipment)
		r.Equipment = &e
	}
	return r
}

func FromTechnician(t *entity.Technician) TechnicianResponse {
	return TechnicianResponse{
		ID:        t.ID,
		CompanyID: t.CompanyID,
		UserID:    t.UserID,
		Name:      t.Name,
		Specialty: t.Specialty,
		Contact:   t.Contact,
		Role:      t.Role,
		CreatedAt: t.CreatedAt,
	}
}

func FromEngineerReport(r *entity.EngineerReport) EngineerReportResponse {
	return EngineerReportResponse{
		ID:           r.ID,
		CompanyID:    r.CompanyID,
		EngineerID:   r.EngineerID,
		EngineerName: r.EngineerName,
		Address:      r.Address,
		Comments:     r.Comments,
		IsRead:       r.IsRead,
		CreatedAt:    r.CreatedAt,
	}
}

func FromWorkOrder(w *entity.WorkOrder) WorkOrderResponse {
	parts := make([]PartUsedDTO, 0, len(w.PartsUsed))
	for _, p := range w.PartsUsed {
		parts = append(parts, PartUsedDTO{Name: p.Name, Quantity: p.Quantity})
	}
	photos := w.PhotoURLs
	if photos == nil {
		photos = []string{}
	}
	return WorkOrderResponse{
		ID:               w.ID,
		CompanyID:        w.CompanyID,
		ClaimType:        w.ClaimType,
		CorrectiveType:   w.CorrectiveType,
		BuildingID:       w.BuildingID,
		ElevatorID:       w.ElevatorID,
		EquipmentID:      w.EquipmentID,
		TechnicianID:     w.TechnicianID,
		ContactName:      w.ContactName,
		ContactPhone:     w.ContactPhone,
		DateTime:         w.DateTime,
		Description:      w.Description,
		Status:           w.Status,
		Priority:         w.Priority,
		CreatedAt:        w.CreatedAt,
		StartTime:        w.StartTime,
		FinishTime:       w.FinishTime,
		Comments:         w.Comments,
		PartsUsed:        parts,
		PhotoURLs:        photos,
		SignatureDataURL: w.SignatureDataURL,
	}
}

func FromWorkOrders(list []*entity.WorkOrder) []WorkOrderResponse {
	out := make([]WorkOrderResponse, 0, len(list))
	for _, w := range list {
		out = append(out, FromWorkOrder(w))
	}
	return out
}

func FromRemito(r *entity.Remito) RemitoResponse {
	return RemitoResponse{
		WorkOrderID:  r.WorkOrderID,
		RemitoNumber: r.RemitoNumber,
		Display:      r.Display(),
		FileURL:      r.FileURL,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// ── Petición → entidad ───────────────────────────────────────────────────────

// ToParts convierte los repuestos recibidos (nil si no vino ninguno).
func ToParts(in []PartUsedDTO) []entity.PartUsed {
	if len(in) == 0 {
		return nil
	}
	out := make([]entity.PartUsed, 0, len(in))
	for _, p := range in {
		out = append(out, entity.PartUsed{Name: p.Name, Quantity: p.Quantity})
	}
	return out
}

// ToWorkOrder reconstruye la entidad desde una instantánea.
func ToWorkOrder(r WorkOrderResponse) *entity.WorkOrder {
	return &entity.WorkOrder{
		ID:               r.ID,
		CompanyID:        r.CompanyID,
		ClaimType:        r.ClaimType,
		CorrectiveType:   r.CorrectiveType,
		BuildingID:       r.BuildingID,
		ElevatorID:       r.ElevatorID,
		EquipmentID:      r.EquipmentID,
		TechnicianID:     r.TechnicianID,
		ContactName:      r.ContactName,
		ContactPhone:     r.ContactPhone,
		DateTime:         r.DateTime,
		Description:      r.Description,
		Status:           r.Status,
		Priority:         r.Priority,
		CreatedAt:        r.CreatedAt,
		StartTime:        r.StartTime,
		FinishTime:       r.FinishTime,
		Comments:         r.Comments,
		PartsUsed:        ToParts(r.PartsUsed),
		PhotoURLs:        r.PhotoURLs,
		SignatureDataURL: r.SignatureDataURL,
	}
}
