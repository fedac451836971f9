package workorder

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/ascensores-api/internal/domain/entity"
)

// claimSynonyms vocabulario aceptado en la entrada → tipo interno. Incluye los nombres
// que usaba la pantalla de reclamos (Reclamo, Inspección, Reparación ...), que colapsan
// muchos-a-uno sobre el vocabulario interno.
var claimSynonyms = map[string]string{
	"semiannual tests":         entity.ClaimSemiannualTests,
	"pruebas semestrales":      entity.ClaimSemiannualTests,
	"inspeccion":               entity.ClaimSemiannualTests,
	"monthly maintenance":      entity.ClaimMonthlyMaintenance,
	"mantenimiento mensual":    entity.ClaimMonthlyMaintenance,
	"mantenimiento":            entity.ClaimMonthlyMaintenance,
	"corrective":               entity.ClaimCorrective,
	"correctivo":               entity.ClaimCorrective,
	"reclamo":                  entity.ClaimCorrective,
	"reparacion presupuestada": entity.ClaimCorrective,
	"reparacion correctiva":    entity.ClaimCorrective,
}

var correctiveSynonyms = map[string]string{
	"minor repair":     entity.CorrectiveMinorRepair,
	"reparacion menor": entity.CorrectiveMinorRepair,
	"refurbishment":    entity.CorrectiveRefurbishment,
	"remodelacion":     entity.CorrectiveRefurbishment,
	"installation":     entity.CorrectiveInstallation,
	"instalacion":      entity.CorrectiveInstallation,
}

var prioritySynonyms = map[string]string{
	"low":    entity.PriorityLow,
	"baja":   entity.PriorityLow,
	"medium": entity.PriorityMedium,
	"media":  entity.PriorityMedium,
	"high":   entity.PriorityHigh,
	"alta":   entity.PriorityHigh,
}

var statusSynonyms = map[string]string{
	"pending":     entity.StatusPending,
	"pendiente":   entity.StatusPending,
	"in progress": entity.StatusInProgress,
	"en progreso": entity.StatusInProgress,
	"en curso":    entity.StatusInProgress,
	"completed":   entity.StatusCompleted,
	"completada":  entity.StatusCompleted,
	"completado":  entity.StatusCompleted,
}

// Fold pasa a minúsculas, quita acentos y colapsa espacios ("Inspección " → "inspeccion").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// NormalizeClaimType mapea cualquier sinónimo aceptado al tipo interno.
func NormalizeClaimType(s string) (string, bool) {
	v, ok := claimSynonyms[Fold(s)]
	return v, ok
}

// NormalizeCorrectiveType idem para el subtipo correctivo.
func NormalizeCorrectiveType(s string) (string, bool) {
	v, ok := correctiveSynonyms[Fold(s)]
	return v, ok
}

// NormalizePriority idem para prioridades.
func NormalizePriority(s string) (string, bool) {
	v, ok := prioritySynonyms[Fold(s)]
	return v, ok
}

// NormalizeStatus idem para estados.
func NormalizeStatus(s string) (string, bool) {
	v, ok := statusSynonyms[Fold(s)]
	return v, ok
}
