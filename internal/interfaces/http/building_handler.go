package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/internal/application/usecase"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
)

// BuildingHandler edificios de la empresa activa.
type BuildingHandler struct {
	uc *usecase.BuildingUseCase
}

// NewBuildingHandler construye el handler.
func NewBuildingHandler(uc *usecase.BuildingUseCase) *BuildingHandler {
	return &BuildingHandler{uc: uc}
}

// List godoc
// @Summary      Listar edificios
// @Tags         buildings
// @Security     Bearer
// @Produce      json
// @Param        neighborhood  query  string  false  "Barrio"
// @Param        clientName    query  string  false  "Cliente"
// @Success      200  {object}  dto.ListResponse[dto.BuildingResponse]
// @Success      304
// @Router       /api/buildings [get]
func (h *BuildingHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), repository.BuildingFilter{
		Neighborhood: c.Query("neighborhood"),
		ClientName:   c.Query("clientName"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, out)
}

// GetByID godoc
// @Summary      Obtener edificio
// @Tags         buildings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del edificio"
// @Success      200  {object}  dto.BuildingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/buildings/{id} [get]
func (h *BuildingHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "edificio")
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear edificio
// @Tags         buildings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBuildingRequest  true  "Datos del edificio"
// @Success      201   {object}  dto.BuildingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/buildings [post]
func (h *BuildingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBuildingRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateWithAssets crea el edificio con sus ascensores y equipos en una transacción.
// POST /api/buildings/with-assets
func (h *BuildingHandler) CreateWithAssets(c *fiber.Ctx) error {
	var in dto.CreateBuildingWithAssetsRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateWithAssets(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar edificio
// @Description  Solo se escriben los campos presentes en el cuerpo.
// @Tags         buildings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del edificio"
// @Param        body  body  dto.UpdateBuildingRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.BuildingResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/buildings/{id} [patch]
func (h *BuildingHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBuildingRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "edificio")
	}
	return c.JSON(out)
}

// Assets ascensores y equipos del edificio en una sola lista. 404 si el edificio no existe.
// GET /api/buildings/:id/assets
func (h *BuildingHandler) Assets(c *fiber.Ctx) error {
	out, err := h.uc.ListAssets(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "edificio")
	}
	return c.JSON(out)
}
