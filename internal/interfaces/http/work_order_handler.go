package http

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/internal/application/lifecycle"
	"github.com/jhoicas/ascensores-api/internal/application/remito"
	"github.com/jhoicas/ascensores-api/internal/application/report"
	"github.com/jhoicas/ascensores-api/internal/application/usecase"
	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
)

// maxUploadBytes límite por archivo subido (fotos y firma).
const maxUploadBytes = 10 << 20

// WorkOrderHandler órdenes de trabajo: alta, edición, ciclo de vida, adjuntos y documentos.
type WorkOrderHandler struct {
	orders    *usecase.WorkOrderUseCase
	uploads   *usecase.UploadUseCase
	lifecycle *lifecycle.Service
	remitos   *remito.Service
	reports   *report.Service
}

// NewWorkOrderHandler construye el handler.
func NewWorkOrderHandler(
	orders *usecase.WorkOrderUseCase,
	uploads *usecase.UploadUseCase,
	lc *lifecycle.Service,
	remitos *remito.Service,
	reports *report.Service,
) *WorkOrderHandler {
	return &WorkOrderHandler{orders: orders, uploads: uploads, lifecycle: lc, remitos: remitos, reports: reports}
}

// authorize un técnico solo opera sobre órdenes sin asignar o asignadas a él.
func (h *WorkOrderHandler) authorize(c *fiber.Ctx) error {
	return h.lifecycle.Authorize(c.UserContext(), GetCompanyID(c), c.Params("id"), GetUserID(c), GetRole(c))
}

func workOrderQuery(c *fiber.Ctx) usecase.WorkOrderQuery {
	return usecase.WorkOrderQuery{
		WorkOrderFilter: repository.WorkOrderFilter{
			BuildingID:   c.Query("buildingId"),
			ElevatorID:   c.Query("elevatorId"),
			EquipmentID:  c.Query("equipmentId"),
			TechnicianID: c.Query("technicianId"),
			Status:       c.Query("status"),
			Priority:     c.Query("priority"),
		},
		Bucket: c.Query("bucket"),
	}
}

// List godoc
// @Summary      Listar órdenes de trabajo
// @Description  La oficina ve todas las órdenes; un técnico solo las asignadas a él.
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        bucket        query  string  false  "dueToday | backlog | unassigned | inProgress | completedToday | completed"
// @Param        status        query  string  false  "Pending | In Progress | Completed"
// @Param        buildingId    query  string  false  "Edificio"
// @Param        technicianId  query  string  false  "Técnico"
// @Success      200  {object}  dto.ListResponse[dto.WorkOrderResponse]
// @Success      304
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/work-orders [get]
func (h *WorkOrderHandler) List(c *fiber.Ctx) error {
	q := workOrderQuery(c)
	var (
		out dto.ListResponse[dto.WorkOrderResponse]
		err error
	)
	if GetRole(c) == entity.RoleTechnician {
		out, err = h.orders.Mine(c.UserContext(), GetCompanyID(c), GetUserID(c), q)
	} else {
		out, err = h.orders.List(c.UserContext(), GetCompanyID(c), q)
	}
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, out)
}

// GetByID godoc
// @Summary      Obtener orden de trabajo
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.WorkOrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id} [get]
func (h *WorkOrderHandler) GetByID(c *fiber.Ctx) error {
	if err := h.authorize(c); err != nil {
		return respondError(c, err)
	}
	out, err := h.orders.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "orden")
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear orden de trabajo
// @Description  Requiere edificio y al menos un ascensor o equipo. Nace en Pending.
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWorkOrderRequest  true  "Datos de la orden"
// @Success      201   {object}  dto.WorkOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/work-orders [post]
func (h *WorkOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorkOrderRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.orders.Create(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar orden de trabajo
// @Description  Escribe los campos presentes; si viene status se aplica después por la máquina de estados.
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.UpdateWorkOrderRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.WorkOrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id} [patch]
func (h *WorkOrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateWorkOrderRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	ctx, tenantID, id := c.UserContext(), GetCompanyID(c), c.Params("id")

	out, err := h.orders.Update(ctx, tenantID, id, in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "orden")
	}
	if in.Status.Set {
		out, err = h.lifecycle.ChangeStatus(ctx, tenantID, id, GetUserID(c), in.Status.Value)
		if err != nil {
			return respondError(c, err)
		}
		if out == nil {
			return notFound(c, "orden")
		}
	}
	return c.JSON(out)
}

// Start pasa la orden a In Progress.
// POST /api/work-orders/:id/start
func (h *WorkOrderHandler) Start(c *fiber.Ctx) error {
	out, err := h.lifecycle.Start(c.UserContext(), GetCompanyID(c), c.Params("id"), GetUserID(c), GetRole(c))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "orden")
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar orden de trabajo
// @Description  Exige la firma del cliente (nueva o ya guardada) y que la cierre el técnico asignado.
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.CompleteWorkOrderRequest  true  "Comentarios, repuestos, fotos y firma"
// @Success      200   {object}  dto.WorkOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/complete [post]
func (h *WorkOrderHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteWorkOrderRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.lifecycle.Complete(c.UserContext(), GetCompanyID(c), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "orden")
	}
	return c.JSON(out)
}

// ── Adjuntos ─────────────────────────────────────────────────────────────────

// UploadPhoto sube una foto (multipart, campo "file"). 502 si el almacenamiento falla.
// POST /api/work-orders/:id/photos
func (h *WorkOrderHandler) UploadPhoto(c *fiber.Ctx) error {
	if err := h.authorize(c); err != nil {
		return respondError(c, err)
	}
	name, data, err := formFile(c, "file")
	if err != nil {
		return respondError(c, err)
	}
	url, err := h.uploads.UploadPhoto(c.UserContext(), GetCompanyID(c), c.Params("id"), name, data)
	if err != nil {
		return respondError(c, err)
	}
	return respondUpload(c, url)
}

// UploadSignature sube la firma: multipart "file" o JSON {"dataUrl": "data:image/png;base64,..."}.
// POST /api/work-orders/:id/signature
func (h *WorkOrderHandler) UploadSignature(c *fiber.Ctx) error {
	if err := h.authorize(c); err != nil {
		return respondError(c, err)
	}
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		_, data, err = formFile(c, "file")
	} else {
		var in struct {
			DataURL string `json:"dataUrl" validate:"required"`
		}
		if err = bind(c, &in); err == nil {
			data, err = decodeDataURL(in.DataURL)
		}
	}
	if err != nil {
		return respondError(c, err)
	}
	url, err := h.uploads.UploadSignature(c.UserContext(), GetCompanyID(c), c.Params("id"), data)
	if err != nil {
		return respondError(c, err)
	}
	return respondUpload(c, url)
}

func respondUpload(c *fiber.Ctx, url string) error {
	if url == "" {
		return respondError(c, domain.ErrUploadFailed)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.UploadResponse{URL: url})
}

func formFile(c *fiber.Ctx, field string) (string, []byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil, &requestError{code: "VALIDATION", message: "falta el archivo", fields: map[string]string{field: "required"}}
	}
	if fh.Size > maxUploadBytes {
		return "", nil, &requestError{code: "VALIDATION", message: "archivo demasiado grande"}
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, fmt.Errorf("abrir archivo subido: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return "", nil, fmt.Errorf("leer archivo subido: %w", err)
	}
	return fh.Filename, data, nil
}

// decodeDataURL "data:<mime>;base64,<datos>".
func decodeDataURL(s string) ([]byte, error) {
	invalid := &requestError{code: "VALIDATION", message: "dataUrl inválido", fields: map[string]string{"dataUrl": "datauri"}}
	head, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(head, "data:") || !strings.HasSuffix(head, ";base64") {
		return nil, invalid
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, invalid
	}
	return data, nil
}

// ── Documentos ───────────────────────────────────────────────────────────────

// Export planilla XLSX con los mismos filtros que el listado.
// GET /api/work-orders/export.xlsx
func (h *WorkOrderHandler) Export(c *fiber.Ctx) error {
	data, err := h.orders.Export(c.UserContext(), GetCompanyID(c), workOrderQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="ordenes.xlsx"`)
	return c.Send(data)
}

// Report informe de servicio de la orden en PDF.
// GET /api/work-orders/:id/report.pdf
func (h *WorkOrderHandler) Report(c *fiber.Ctx) error {
	if err := h.authorize(c); err != nil {
		return respondError(c, err)
	}
	data, filename, err := h.reports.Download(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// GenerateRemito emite (o reemite con número nuevo) el remito de una orden completada.
// POST /api/work-orders/:id/remito
func (h *WorkOrderHandler) GenerateRemito(c *fiber.Ctx) error {
	if err := h.authorize(c); err != nil {
		return respondError(c, err)
	}
	out, err := h.remitos.Generate(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "orden")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetRemito último remito emitido para la orden.
// GET /api/work-orders/:id/remito
func (h *WorkOrderHandler) GetRemito(c *fiber.Ctx) error {
	if err := h.authorize(c); err != nil {
		return respondError(c, err)
	}
	out, err := h.remitos.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "remito")
	}
	return c.JSON(out)
}
