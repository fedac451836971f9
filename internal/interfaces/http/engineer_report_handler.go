package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/internal/application/usecase"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
)

// EngineerReportHandler informes de inspección de ingenieros.
type EngineerReportHandler struct {
	uc *usecase.EngineerReportUseCase
}

// NewEngineerReportHandler construye el handler.
func NewEngineerReportHandler(uc *usecase.EngineerReportUseCase) *EngineerReportHandler {
	return &EngineerReportHandler{uc: uc}
}

// List informes de la empresa (oficina). ?isRead=true|false filtra por lectura.
// GET /api/engineer-reports
func (h *EngineerReportHandler) List(c *fiber.Ctx) error {
	f := repository.EngineerReportFilter{EngineerID: c.Query("engineerId")}
	if raw := c.Query("isRead"); raw != "" {
		read, err := strconv.ParseBool(raw)
		if err != nil {
			return respondError(c, &requestError{code: "VALIDATION", message: "isRead inválido", fields: map[string]string{"isRead": "boolean"}})
		}
		f.IsRead = &read
	}
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), f)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, out)
}

// Create registra un informe del ingeniero en la empresa activa.
// POST /api/engineer-reports
func (h *EngineerReportHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEngineerReportRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), GetEngineerID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SetRead marca el informe como leído o no leído.
// PATCH /api/engineer-reports/:id/read
func (h *EngineerReportHandler) SetRead(c *fiber.Ctx) error {
	var in dto.SetReportReadRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SetRead(c.UserContext(), GetCompanyID(c), c.Params("id"), *in.IsRead)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "informe")
	}
	return c.JSON(out)
}
