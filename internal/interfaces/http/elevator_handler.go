package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/internal/application/usecase"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
)

// ElevatorHandler ascensores y su libro de servicio.
type ElevatorHandler struct {
	uc *usecase.ElevatorUseCase
}

// NewElevatorHandler construye el handler.
func NewElevatorHandler(uc *usecase.ElevatorUseCase) *ElevatorHandler {
	return &ElevatorHandler{uc: uc}
}

// List godoc
// @Summary      Listar ascensores
// @Tags         elevators
// @Security     Bearer
// @Produce      json
// @Param        buildingId  query  string  false  "Edificio"
// @Param        status      query  string  false  "fit | fit_needs_improvements | not_fit"
// @Success      200  {object}  dto.ListResponse[dto.ElevatorResponse]
// @Router       /api/elevators [get]
func (h *ElevatorHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), repository.ElevatorFilter{
		BuildingID: c.Query("buildingId"),
		Status:     c.Query("status"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, out)
}

// GetByID godoc
// @Summary      Obtener ascensor
// @Tags         elevators
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ascensor"
// @Success      200  {object}  dto.ElevatorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/elevators/{id} [get]
func (h *ElevatorHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "ascensor")
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear ascensor
// @Tags         elevators
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateElevatorRequest  true  "Datos del ascensor"
// @Success      201   {object}  dto.ElevatorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/elevators [post]
func (h *ElevatorHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateElevatorRequest
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
// PATCH /api/elevators/:id
func (h *ElevatorHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateElevatorRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "ascensor")
	}
	return c.JSON(out)
}

// History libro de servicio, más reciente primero.
// GET /api/elevators/:id/history
func (h *ElevatorHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "ascensor")
	}
	return c.JSON(out)
}

// AddHistory agrega una entrada manual al libro de servicio.
// POST /api/elevators/:id/history
func (h *ElevatorHandler) AddHistory(c *fiber.Ctx) error {
	var in dto.CreateHistoryRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.AddHistory(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "ascensor")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
