package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/internal/application/usecase"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
)

// EquipmentHandler equipos (bombas, montacargas, etc.).
type EquipmentHandler struct {
	uc *usecase.EquipmentUseCase
}

// NewEquipmentHandler construye el handler.
func NewEquipmentHandler(uc *usecase.EquipmentUseCase) *EquipmentHandler {
	return &EquipmentHandler{uc: uc}
}

// List godoc
// @Summary      Listar equipos
// @Tags         equipment
// @Security     Bearer
// @Produce      json
// @Param        buildingId  query  string  false  "Edificio"
// @Param        type        query  string  false  "Tipo de equipo"
// @Param        status      query  string  false  "fit | out_of_service"
// @Success      200  {object}  dto.ListResponse[dto.EquipmentResponse]
// @Router       /api/equipment [get]
func (h *EquipmentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), repository.EquipmentFilter{
		BuildingID: c.Query("buildingId"),
		Type:       c.Query("type"),
		Status:     c.Query("status"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, out)
}

// GetByID obtiene un equipo.
// GET /api/equipment/:id
func (h *EquipmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "equipo")
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear equipo
// @Tags         equipment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEquipmentRequest  true  "Datos del equipo"
// @Success      201   {object}  dto.EquipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/equipment [post]
func (h *EquipmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEquipmentRequest
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
// PATCH /api/equipment/:id
func (h *EquipmentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateEquipmentRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "equipo")
	}
	return c.JSON(out)
}

// Delete da de baja un equipo de la empresa activa.
// DELETE /api/equipment/:id
func (h *EquipmentHandler) Delete(c *fiber.Ctx) error {
	deleted, err := h.uc.Delete(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if !deleted {
		return notFound(c, "equipo")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
