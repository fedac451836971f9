package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ascensores-api/internal/application/ports"
	"github.com/jhoicas/ascensores-api/internal/application/report"
	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/infrastructure/memory"
)

type captureRenderer struct{ got ports.ServiceReport }

func (c *captureRenderer) RenderServiceReport(_ context.Context, r ports.ServiceReport) ([]byte, error) {
	c.got = r
	return []byte("%PDF"), nil
}

func TestDownload_ArmaLosDatosDelInforme(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tech, eq := "tec-1", "eq-1"
	require.NoError(t, repos.Companies.Create(ctx, &entity.Company{ID: "t1", Name: "Ascensores Sur", CreatedAt: at}))
	require.NoError(t, repos.Buildings.Create(ctx, &entity.Building{ID: "b1", CompanyID: "t1", Address: "Callao 100", CreatedAt: at}))
	require.NoError(t, repos.Equipment.Create(ctx, &entity.Equipment{ID: eq, CompanyID: "t1", BuildingID: "b1", Type: entity.EquipmentWaterPump, Name: "Bomba cisterna", CreatedAt: at}))
	require.NoError(t, repos.Technicians.Create(ctx, &entity.Technician{ID: tech, CompanyID: "t1", Name: "Luis", CreatedAt: at}))
	require.NoError(t, repos.WorkOrders.Create(ctx, &entity.WorkOrder{
		ID: "wo-1", CompanyID: "t1", BuildingID: "b1", EquipmentID: &eq, TechnicianID: &tech, Status: entity.StatusPending, CreatedAt: at,
	}))

	r := &captureRenderer{}
	svc := report.NewService(repos, r, nil)
	out, name, err := svc.Download(ctx, "t1", "wo-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), out)
	assert.Equal(t, "informe-wo-1.pdf", name)
	assert.Equal(t, "Ascensores Sur", r.got.CompanyName)
	assert.Equal(t, "Bomba cisterna", r.got.AssetLabel)
	assert.Equal(t, "Luis", r.got.TechnicianName)
	assert.Equal(t, "Callao 100", r.got.Building.Address)

	_, _, err = svc.Download(ctx, "t2", "wo-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
