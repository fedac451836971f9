// Package workorder contiene las reglas puras del ciclo de vida de una orden de trabajo:
// transiciones, precondiciones de cierre, agrupación por "baldes" del tablero y estado
// derivado de técnicos. No accede a persistencia.
package workorder

import (
	"strings"

	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
)

// transitions tabla de transiciones permitidas (solo hacia adelante).
var transitions = map[string][]string{
	entity.StatusPending:    {entity.StatusInProgress, entity.StatusCompleted},
	entity.StatusInProgress: {entity.StatusCompleted},
	entity.StatusCompleted:  nil,
}

// CanTransition informa si from → to está permitido.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidStatus informa si s es un estado conocido.
func ValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// CanComplete verifica en orden las precondiciones de cierre. Cada una corta:
//  1. la orden no debe estar ya completada;
//  2. si tiene técnico asignado, su identidad vinculada debe ser la del actor;
//  3. debe haber firma del cliente (la recibida o la ya guardada).
//
// technician es el técnico asignado (nil si la orden no tiene o no se encontró).
func CanComplete(order *entity.WorkOrder, technician *entity.Technician, actorUserID string, signature string) error {
	if order == nil {
		return domain.ErrNotFound
	}
	if order.Status == entity.StatusCompleted {
		return domain.ErrAlreadyCompleted
	}
	if order.TechnicianID != nil && !technician.LinkedTo(actorUserID) {
		return domain.ErrNotAssignedTechnician
	}
	if strings.TrimSpace(signature) == "" {
		return domain.ErrSignatureRequired
	}
	return nil
}

// EffectiveSignature devuelve la firma recibida o, si viene vacía, la ya persistida.
func EffectiveSignature(order *entity.WorkOrder, incoming *string) string {
	if incoming != nil && strings.TrimSpace(*incoming) != "" {
		return *incoming
	}
	if order != nil && order.SignatureDataURL != nil {
		return *order.SignatureDataURL
	}
	return ""
}
