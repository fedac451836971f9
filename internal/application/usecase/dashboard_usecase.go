package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
	"github.com/jhoicas/ascensores-api/internal/domain/workorder"
	"github.com/jhoicas/ascensores-api/pkg/daykey"
)

// DashboardUseCase tablero del día de la oficina.
type DashboardUseCase struct {
	*base
}

// Get arma el tablero. Las lecturas corren en paralelo; los baldes se calculan en el día
// calendario de la zona configurada.
func (uc *DashboardUseCase) Get(ctx context.Context, tenantID string) (*dto.DashboardResponse, error) {
	var (
		orders    []*entity.WorkOrder
		techs     dto.ListResponse[dto.TechnicianResponse]
		buildings dto.ListResponse[dto.BuildingResponse]
		unread    dto.ListResponse[dto.EngineerReportResponse]
	)
	notRead := false

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, _, err = listWorkOrders(gctx, uc.base, tenantID, repository.WorkOrderFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		techs, err = (&TechnicianUseCase{uc.base}).List(gctx, tenantID, repository.TechnicianFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		buildings, err = (&BuildingUseCase{uc.base}).List(gctx, tenantID, repository.BuildingFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		unread, err = (&EngineerReportUseCase{uc.base}).List(gctx, tenantID, repository.EngineerReportFilter{IsRead: &notRead})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := uc.now()
	b := workorder.Classify(orders, now, uc.loc)
	return &dto.DashboardResponse{
		Date:           daykey.FormatDate(now, uc.loc),
		Counts:         b.Counts(),
		DueToday:       dto.FromWorkOrders(b.DueToday),
		Backlog:        dto.FromWorkOrders(b.Backlog),
		Unassigned:     dto.FromWorkOrders(b.Unassigned),
		InProgress:     dto.FromWorkOrders(b.InProgress),
		CompletedToday: dto.FromWorkOrders(b.CompletedToday),
		Technicians:    techs.Items,
		UnreadReports:  len(unread.Items),
		Buildings:      len(buildings.Items),
	}, nil
}
