package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/ascensores-api/internal/application/ports"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/pkg/daykey"
)

func TestExportWorkOrders_UnaFilaPorOrden(t *testing.T) {
	created := time.Date(2026, 3, 11, 1, 30, 0, 0, time.UTC) // 22:30 del 10/03 en Buenos Aires
	rows := []ports.WorkOrderSheetRow{
		{
			Order: &entity.WorkOrder{
				ClaimType: entity.ClaimCorrective, Status: entity.StatusPending, Priority: entity.PriorityHigh,
				Description: "No abre puerta", CreatedAt: created,
				PartsUsed: []entity.PartUsed{
					{Name: "Grasa", Quantity: decimal.RequireFromString("1.5")},
					{Name: "Cable", Quantity: decimal.NewFromInt(12)},
				},
			},
			Address:        "Av. Corrientes 1234",
			AssetLabel:     "Ascensor N° 1",
			TechnicianName: "Ana",
		},
		{Order: nil},
	}

	out, err := NewXLSXExporter().ExportWorkOrders(context.Background(), rows, daykey.Location(""))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Creada", got[0][0])
	assert.Equal(t, "10/03/2026 22:30", got[1][0])
	assert.Equal(t, "Av. Corrientes 1234", got[1][6])
	assert.Equal(t, "Ascensor N° 1", got[1][7])
	assert.Equal(t, "Grasa x 1.5; Cable x 12", got[1][15])
}
