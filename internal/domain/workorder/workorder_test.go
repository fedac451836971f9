package workorder_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/workorder"
	"github.com/jhoicas/ascensores-api/pkg/daykey"
)

func ptr[T any](v T) *T { return &v }

// ── Transiciones ─────────────────────────────────────────────────────────────

func TestCanTransition_SoloHaciaAdelante(t *testing.T) {
	assert.True(t, workorder.CanTransition(entity.StatusPending, entity.StatusInProgress))
	assert.True(t, workorder.CanTransition(entity.StatusPending, entity.StatusCompleted))
	assert.True(t, workorder.CanTransition(entity.StatusInProgress, entity.StatusCompleted))

	assert.False(t, workorder.CanTransition(entity.StatusInProgress, entity.StatusPending))
	assert.False(t, workorder.CanTransition(entity.StatusCompleted, entity.StatusPending))
	assert.False(t, workorder.CanTransition(entity.StatusCompleted, entity.StatusInProgress))
	assert.False(t, workorder.CanTransition(entity.StatusPending, entity.StatusPending))
	assert.False(t, workorder.CanTransition("Cancelled", entity.StatusCompleted))
}

// ── Precondiciones de cierre ─────────────────────────────────────────────────

func TestCanComplete_OrdenDeChequeos(t *testing.T) {
	tech := &entity.Technician{ID: "t1", UserID: ptr("u-tech")}

	tests := []struct {
		name      string
		order     *entity.WorkOrder
		tech      *entity.Technician
		actor     string
		signature string
		want      error
	}{
		{
			name:  "ya completada gana aunque falte firma",
			order: &entity.WorkOrder{Status: entity.StatusCompleted},
			actor: "u-tech",
			want:  domain.ErrAlreadyCompleted,
		},
		{
			name:      "asignada a otro técnico",
			order:     &entity.WorkOrder{Status: entity.StatusInProgress, TechnicianID: ptr("t1")},
			tech:      tech,
			actor:     "u-otro",
			signature: "data:image/png;base64,AAA",
			want:      domain.ErrNotAssignedTechnician,
		},
		{
			name:      "técnico asignado sin identidad vinculada",
			order:     &entity.WorkOrder{Status: entity.StatusPending, TechnicianID: ptr("t2")},
			tech:      &entity.Technician{ID: "t2"},
			actor:     "u-tech",
			signature: "data:image/png;base64,AAA",
			want:      domain.ErrNotAssignedTechnician,
		},
		{
			name:  "sin firma",
			order: &entity.WorkOrder{Status: entity.StatusInProgress, TechnicianID: ptr("t1")},
			tech:  tech,
			actor: "u-tech",
			want:  domain.ErrSignatureRequired,
		},
		{
			name:      "firma en blanco",
			order:     &entity.WorkOrder{Status: entity.StatusPending},
			actor:     "u-cualquiera",
			signature: "   ",
			want:      domain.ErrSignatureRequired,
		},
		{
			name:      "sin técnico asignado cualquiera puede cerrar",
			order:     &entity.WorkOrder{Status: entity.StatusPending},
			actor:     "u-oficina",
			signature: "data:image/png;base64,AAA",
		},
		{
			name:      "técnico asignado correcto",
			order:     &entity.WorkOrder{Status: entity.StatusInProgress, TechnicianID: ptr("t1")},
			tech:      tech,
			actor:     "u-tech",
			signature: "data:image/png;base64,AAA",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := workorder.CanComplete(tc.order, tc.tech, tc.actor, tc.signature)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestEffectiveSignature_UsaLaGuardadaSiNoLlegaNueva(t *testing.T) {
	order := &entity.WorkOrder{SignatureDataURL: ptr("guardada")}
	assert.Equal(t, "guardada", workorder.EffectiveSignature(order, nil))
	assert.Equal(t, "guardada", workorder.EffectiveSignature(order, ptr("")))
	assert.Equal(t, "nueva", workorder.EffectiveSignature(order, ptr("nueva")))
	assert.Equal(t, "", workorder.EffectiveSignature(&entity.WorkOrder{}, nil))
}

// ── Baldes ───────────────────────────────────────────────────────────────────

func TestSignatureSource_SoloDataURLOAlmacenamientoPropio(t *testing.T) {
	src := workorder.NewSignatureSource("https://files.test/", "")

	assert.True(t, src.Allowed("data:image/png;base64,AAEC"))
	assert.True(t, src.Allowed("https://files.test/t1/o1/signature.png"))

	for _, ref := range []string{
		"data:text/html;base64,PGgxPg==",
		"data:image/png,sin-base64",
		"http://169.254.169.254/latest/meta-data/",
		"http://localhost:6379/",
		"https://files.test.evil.com/firma.png",
		"https://user@files.test/firma.png",
		"https://files.test/../api/health",
		"https://files.test/%2e%2e/api/health",
		"file:///etc/passwd",
		"ftp://files.test/firma.png",
	} {
		assert.False(t, src.Allowed(ref), ref)
	}

	var zero workorder.SignatureSource
	assert.True(t, zero.Allowed("data:image/jpeg;base64,AAEC"))
	assert.False(t, zero.Allowed("https://files.test/t1/o1/signature.png"))
}

func TestClassify_Baldes(t *testing.T) {
	loc := daykey.Location(daykey.BuenosAires)
	now := time.Date(2026, 5, 20, 15, 0, 0, 0, loc)
	today := time.Date(2026, 5, 20, 9, 0, 0, 0, loc)
	yesterday := today.AddDate(0, 0, -1)

	dueAssigned := &entity.WorkOrder{ID: "due-asignada", Status: entity.StatusPending, DateTime: &today, TechnicianID: ptr("t1")}
	dueUnassigned := &entity.WorkOrder{ID: "due-sin-tecnico", Status: entity.StatusPending, DateTime: &today}
	noDate := &entity.WorkOrder{ID: "sin-fecha", Status: entity.StatusPending, TechnicianID: ptr("t1")}
	overdue := &entity.WorkOrder{ID: "vencida", Status: entity.StatusPending, DateTime: &yesterday, TechnicianID: ptr("t1")}
	running := &entity.WorkOrder{ID: "en-curso", Status: entity.StatusInProgress, DateTime: &yesterday}
	doneToday := &entity.WorkOrder{ID: "hecha-hoy", Status: entity.StatusCompleted, FinishTime: &today}
	doneBefore := &entity.WorkOrder{ID: "hecha-ayer", Status: entity.StatusCompleted, FinishTime: &yesterday}

	b := workorder.Classify([]*entity.WorkOrder{dueAssigned, dueUnassigned, noDate, overdue, running, doneToday, doneBefore}, now, loc)

	assert.ElementsMatch(t, ids(dueAssigned, dueUnassigned), ids(b.DueToday...))
	assert.ElementsMatch(t, ids(dueUnassigned, noDate, overdue), ids(b.Backlog...))
	assert.ElementsMatch(t, ids(dueUnassigned), ids(b.Unassigned...))
	assert.ElementsMatch(t, ids(running), ids(b.InProgress...))
	assert.ElementsMatch(t, ids(doneToday), ids(b.CompletedToday...))
	assert.ElementsMatch(t, ids(doneToday, doneBefore), ids(b.Completed...))

	counts := b.Counts()
	assert.Equal(t, 2, counts[workorder.BucketDueToday])
	assert.Equal(t, 3, counts[workorder.BucketBacklog])

	got, ok := b.Get(workorder.BucketUnassigned)
	require.True(t, ok)
	assert.Len(t, got, 1)
	_, ok = b.Get("inexistente")
	assert.False(t, ok)
}

func TestClassify_SinFechaVaAlBacklogYNoAHoy(t *testing.T) {
	loc := daykey.Location(daykey.BuenosAires)
	o := &entity.WorkOrder{ID: "x", Status: entity.StatusPending}

	b := workorder.Classify([]*entity.WorkOrder{o}, time.Now(), loc)

	assert.Len(t, b.Backlog, 1)
	assert.Empty(t, b.DueToday)
}

func TestClassify_NocheEnBuenosAiresConUTCYaEnElDiaSiguiente(t *testing.T) {
	loc := daykey.Location(daykey.BuenosAires)
	// 23:30 del 9 en Buenos Aires; el reloj UTC ya está en el 10.
	scheduled := time.Date(2026, 3, 9, 23, 30, 0, 0, loc)
	now := time.Date(2026, 3, 10, 2, 45, 0, 0, time.UTC)
	o := &entity.WorkOrder{ID: "noche", Status: entity.StatusPending, DateTime: &scheduled, TechnicianID: ptr("t1")}

	require.NotEqual(t, daykey.Key(now, time.UTC), daykey.Key(now, loc))

	b := workorder.Classify([]*entity.WorkOrder{o}, now, loc)
	assert.Len(t, b.DueToday, 1)
	assert.Empty(t, b.Backlog)
}

func TestClassify_MadrugadaUTCSigueSiendoAyerEnBuenosAires(t *testing.T) {
	loc := daykey.Location(daykey.BuenosAires)
	// 01:00 UTC del 10 = 22:00 del 9 en Buenos Aires; una orden del 10 a las 08:00 no es de hoy.
	now := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)
	scheduled := time.Date(2026, 3, 10, 8, 0, 0, 0, loc)
	o := &entity.WorkOrder{ID: "maniana", Status: entity.StatusPending, DateTime: &scheduled, TechnicianID: ptr("t1")}

	b := workorder.Classify([]*entity.WorkOrder{o}, now, loc)
	assert.Empty(t, b.DueToday)
	assert.Len(t, b.Backlog, 1)
}

// ── Técnicos ─────────────────────────────────────────────────────────────────

func TestTechnicianStatuses_LibreOcupadoLibre(t *testing.T) {
	techs := []*entity.Technician{{ID: "t1"}, {ID: "t2"}}
	order := &entity.WorkOrder{ID: "o1", Status: entity.StatusPending, TechnicianID: ptr("t1")}

	st := workorder.TechnicianStatuses(techs, []*entity.WorkOrder{order})
	assert.Equal(t, entity.TechnicianFree, st["t1"])
	assert.Equal(t, entity.TechnicianFree, st["t2"])

	order.Status = entity.StatusInProgress
	st = workorder.TechnicianStatuses(techs, []*entity.WorkOrder{order})
	assert.Equal(t, entity.TechnicianBusy, st["t1"])
	assert.Equal(t, entity.TechnicianFree, st["t2"])

	order.Status = entity.StatusCompleted
	st = workorder.TechnicianStatuses(techs, []*entity.WorkOrder{order})
	assert.Equal(t, entity.TechnicianFree, st["t1"])
}

// ── Vocabulario ──────────────────────────────────────────────────────────────

func TestNormalizeClaimType(t *testing.T) {
	cases := map[string]string{
		"Semiannual Tests":         entity.ClaimSemiannualTests,
		"Inspección":               entity.ClaimSemiannualTests,
		"  monthly   maintenance ": entity.ClaimMonthlyMaintenance,
		"Reclamo":                  entity.ClaimCorrective,
		"Reparación presupuestada": entity.ClaimCorrective,
		"REPARACION CORRECTIVA":    entity.ClaimCorrective,
	}
	for in, want := range cases {
		got, ok := workorder.NormalizeClaimType(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := workorder.NormalizeClaimType("Pintura")
	assert.False(t, ok)
}

func TestNormalizeStatusYPrioridad(t *testing.T) {
	s, ok := workorder.NormalizeStatus("in progress")
	require.True(t, ok)
	assert.Equal(t, entity.StatusInProgress, s)

	p, ok := workorder.NormalizePriority("Alta")
	require.True(t, ok)
	assert.Equal(t, entity.PriorityHigh, p)

	c, ok := workorder.NormalizeCorrectiveType("Instalación")
	require.True(t, ok)
	assert.Equal(t, entity.CorrectiveInstallation, c)
}

func ids(orders ...*entity.WorkOrder) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}
