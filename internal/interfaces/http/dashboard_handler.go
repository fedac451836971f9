package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ascensores-api/internal/application/usecase"
)

// DashboardHandler tablero del día.
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Get devuelve los baldes de órdenes del día, el estado de los técnicos y
// los informes sin leer.
// GET /api/dashboard
//
// "Hoy" se calcula con el calendario de Buenos Aires, no con UTC.
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
