package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/ascensores-api/internal/application/ports"
	"github.com/jhoicas/ascensores-api/internal/application/snapshot"
	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
	"github.com/jhoicas/ascensores-api/internal/domain/workorder"
	"github.com/jhoicas/ascensores-api/pkg/daykey"
	"github.com/jhoicas/ascensores-api/pkg/logger"
)

// Deps dependencias compartidas por los casos de uso del tenant.
// Cache, Storage, Images y Exporter son opcionales.
type Deps struct {
	Store    repository.Store
	Tx       repository.TxRunner
	Cache    snapshot.Cache
	Storage  ports.BlobStorage
	Images   ports.ImageProcessor
	Exporter ports.WorkOrderExporter
	Location *time.Location
	Log      *logger.Logger
	Now      func() time.Time
}

// Facade acceso a datos acotado al tenant. Cada operación recibe el tenantID de forma
// explícita y nunca devuelve filas de otra empresa.
type Facade struct {
	Buildings   *BuildingUseCase
	Elevators   *ElevatorUseCase
	Equipment   *EquipmentUseCase
	Technicians *TechnicianUseCase
	WorkOrders  *WorkOrderUseCase
	Reports     *EngineerReportUseCase
	Uploads     *UploadUseCase
	Dashboard   *DashboardUseCase
}

// NewFacade construye todos los casos de uso sobre las mismas dependencias.
func NewFacade(d Deps) *Facade {
	b := newBase(d)
	return &Facade{
		Buildings:   &BuildingUseCase{b},
		Elevators:   &ElevatorUseCase{b},
		Equipment:   &EquipmentUseCase{b},
		Technicians: &TechnicianUseCase{b},
		WorkOrders:  &WorkOrderUseCase{base: b, exporter: d.Exporter},
		Reports:     &EngineerReportUseCase{b},
		Uploads:     &UploadUseCase{base: b, storage: d.Storage, images: d.Images},
		Dashboard:   &DashboardUseCase{b},
	}
}

type base struct {
	store      repository.Store
	tx         repository.TxRunner
	cache      snapshot.Cache
	signatures workorder.SignatureSource
	loc        *time.Location
	log        *logger.Logger
	now        func() time.Time
}

func newBase(d Deps) *base {
	b := &base{store: d.Store, tx: d.Tx, cache: d.Cache, loc: d.Location, log: d.Log, now: d.Now}
	if d.Storage != nil {
		b.signatures = workorder.NewSignatureSource(d.Storage.PublicURL(""))
	}
	if b.loc == nil {
		b.loc = daykey.Location("")
	}
	if b.log == nil {
		b.log = logger.Nop()
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b
}

func (b *base) invalidate(ctx context.Context, tenantID string, collections ...string) {
	snapshot.Invalidate(ctx, b.cache, tenantID, collections...)
}

// variant clave estable para un conjunto de filtros ("" sin filtros).
func variant(kv ...string) string {
	var parts []string
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			parts = append(parts, kv[i]+"="+kv[i+1])
		}
	}
	return strings.Join(parts, "&")
}

// invalidRef error de validación para claves foráneas que no existen en el tenant.
func invalidRef(field string) error {
	return fmt.Errorf("%w: %s no existe", domain.ErrInvalidInput, field)
}

func (b *base) requireBuilding(ctx context.Context, tenantID, id string) error {
	bld, err := b.store.Buildings.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if bld == nil {
		return invalidRef("buildingId")
	}
	return nil
}

// parseDate interpreta "2006-01-02" en la zona del tenant. nil o vacío → nil.
func (b *base) parseDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(*s), b.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, *s)
	}
	return &t, nil
}
