package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa. Quien la crea queda como oficina.
type CreateCompanyRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateJoinCodeRequest emisión de un código de unión.
type CreateJoinCodeRequest struct {
	Role           string `json:"role" validate:"required,oneof=office technician engineer"`
	ExpiresInHours int    `json:"expiresInHours" validate:"omitempty,min=1,max=8760"`
}

// JoinCodeResponse código emitido.
type JoinCodeResponse struct {
	Code      string     `json:"code"`
	CompanyID string     `json:"companyId"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// CreateEngineerRequest alta del perfil de ingeniero de la identidad actual.
type CreateEngineerRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Contact string `json:"contact" validate:"max=200"`
}

// EngineerResponse perfil de ingeniero.
type EngineerResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"createdAt"`
}
