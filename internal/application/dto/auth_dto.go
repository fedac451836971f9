package dto

import "time"

// SignUpRequest entrada para registrar una identidad.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
}

// SignInRequest entrada para iniciar sesión.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SwitchCompanyRequest cambio de empresa activa.
type SwitchCompanyRequest struct {
	CompanyID string `json:"companyId" validate:"required"`
}

// JoinRequest canje de un código de unión.
type JoinRequest struct {
	Code string `json:"code" validate:"required,min=4,max=32"`
}

// UserResponse salida de usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// MembershipResponse empresa a la que pertenece la identidad.
type MembershipResponse struct {
	CompanyID   string `json:"companyId"`
	CompanyName string `json:"companyName"`
	Role        string `json:"role"`
}

// SessionResponse sesión resuelta. Role vacío = identidad sin empresa (bloqueada).
type SessionResponse struct {
	Token           string               `json:"token"`
	User            UserResponse         `json:"user"`
	Role            string               `json:"role"`
	ActiveCompanyID string               `json:"activeCompanyId,omitempty"`
	EngineerID      string               `json:"engineerId,omitempty"`
	Memberships     []MembershipResponse `json:"memberships"`
}
