package workorder

import "github.com/jhoicas/ascensores-api/internal/domain/entity"

// TechnicianStatuses deriva free/busy para cada técnico sobre el conjunto completo de
// órdenes: busy si tiene al menos una orden In Progress. No es incremental.
func TechnicianStatuses(techs []*entity.Technician, orders []*entity.WorkOrder) map[string]string {
	active := make(map[string]int, len(techs))
	for _, o := range orders {
		if o.Status == entity.StatusInProgress && o.TechnicianID != nil {
			active[*o.TechnicianID]++
		}
	}
	out := make(map[string]string, len(techs))
	for _, t := range techs {
		if active[t.ID] > 0 {
			out[t.ID] = entity.TechnicianBusy
		} else {
			out[t.ID] = entity.TechnicianFree
		}
	}
	return out
}
