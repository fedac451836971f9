package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/internal/application/usecase"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
)

// TechnicianHandler técnicos de la empresa.
type TechnicianHandler struct {
	uc *usecase.TechnicianUseCase
}

// NewTechnicianHandler construye el handler.
func NewTechnicianHandler(uc *usecase.TechnicianUseCase) *TechnicianHandler {
	return &TechnicianHandler{uc: uc}
}

// List godoc
// @Summary      Listar técnicos
// @Description  Cada técnico trae su estado derivado (free | busy) según las órdenes en curso.
// @Tags         technicians
// @Security     Bearer
// @Produce      json
// @Param        role  query  string  false  "Reclamista | Engrasador"
// @Success      200  {object}  dto.ListResponse[dto.TechnicianResponse]
// @Router       /api/technicians [get]
func (h *TechnicianHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), repository.TechnicianFilter{Role: c.Query("role")})
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, out)
}

// GetByID obtiene un técnico.
// GET /api/technicians/:id
func (h *TechnicianHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "técnico")
	}
	return c.JSON(out)
}

// Create alta de técnico.
// POST /api/technicians
func (h *TechnicianHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTechnicianRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update actualización parcial.
// PATCH /api/technicians/:id
func (h *TechnicianHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateTechnicianRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "técnico")
	}
	return c.JSON(out)
}
