package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Sesión / tenant
	ErrNoCompanyContext = errors.New("la identidad no tiene empresa asociada")
	ErrNotAMember       = errors.New("la identidad no pertenece a esa empresa")
	ErrInvalidJoinCode  = errors.New("código de unión inválido o vencido")
	ErrAlreadyEngineer  = errors.New("la identidad ya tiene perfil de ingeniero")

	// Órdenes de trabajo
	ErrBuildingRequired      = errors.New("la orden requiere un edificio")
	ErrAssetRequired         = errors.New("la orden requiere un ascensor o un equipo")
	ErrAlreadyCompleted      = errors.New("la orden ya está completada")
	ErrNotAssignedTechnician = errors.New("la orden está asignada a otro técnico")
	ErrSignatureRequired     = errors.New("se requiere la firma del cliente")
	ErrInvalidTransition     = errors.New("transición de estado no permitida")

	// Remitos
	ErrRemitoNotReady    = errors.New("la orden debe estar completada para emitir remito")
	ErrMissingFinishTime = errors.New("la orden no tiene hora de finalización")
	ErrMissingAddress    = errors.New("el edificio no tiene dirección")

	// Archivos
	ErrUploadFailed = errors.New("no se pudo subir el archivo")
)
