package repository

import "context"

// Store agrupa los repositorios. Una implementación se construye sobre el pool
// y otra sobre cada transacción.
type Store struct {
	Users           UserRepository
	Companies       CompanyRepository
	Memberships     MembershipRepository
	JoinCodes       JoinCodeRepository
	Engineers       EngineerRepository
	EngineerReports EngineerReportRepository
	Buildings       BuildingRepository
	Elevators       ElevatorRepository
	Equipment       EquipmentRepository
	History         ElevatorHistoryRepository
	Technicians     TechnicianRepository
	WorkOrders      WorkOrderRepository
	Remitos         RemitoRepository
}

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// Si fn devuelve error se revierte todo lo escrito.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Store) error) error
}
