package entity

import "time"

// User identidad autenticable. La pertenencia a empresas vive en CompanyMembership
// o, para ingenieros, en EngineerCompanyMembership.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	CreatedAt    time.Time
}
