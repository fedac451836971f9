package dto

// DashboardResponse tablero del día (calendario de Buenos Aires). Los baldes se
// recalculan en cada lectura; DueToday y Backlog pueden compartir órdenes.
type DashboardResponse struct {
	Date           string               `json:"date"`
	Counts         map[string]int       `json:"counts"`
	DueToday       []WorkOrderResponse  `json:"dueToday"`
	Backlog        []WorkOrderResponse  `json:"backlog"`
	Unassigned     []WorkOrderResponse  `json:"unassigned"`
	InProgress     []WorkOrderResponse  `json:"inProgress"`
	CompletedToday []WorkOrderResponse  `json:"completedToday"`
	Technicians    []TechnicianResponse `json:"technicians"`
	UnreadReports  int                  `json:"unreadReports"`
	Buildings      int                  `json:"buildings"`
}
