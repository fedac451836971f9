package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ascensores-api/internal/application/auth"
	"github.com/jhoicas/ascensores-api/internal/application/dto"
)

// AuthHandler identidad, sesión y contexto de empresa.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// SignUp godoc
// @Summary      Registrar identidad
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignUpRequest  true  "email, password, name"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/sign-up [post]
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var in dto.SignUpRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SignUp(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SignIn godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignInRequest  true  "email, password"
// @Success      200   {object}  dto.SessionResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/sign-in [post]
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var in dto.SignInRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SignIn(c.UserContext(), in, c.Get(HeaderClientID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SignOut cierra la sesión del cliente y olvida su empresa activa.
// POST /api/auth/sign-out
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	if err := h.uc.SignOut(c.UserContext(), GetUserID(c), GetClientID(c), GetTokenID(c), tokenExpiry(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Session godoc
// @Summary      Sesión actual
// @Description  Vuelve a resolver membresías y empresa activa y emite un token fresco.
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	out, err := h.uc.Session(c.UserContext(), GetUserID(c), GetClientID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SwitchCompany godoc
// @Summary      Cambiar empresa activa
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SwitchCompanyRequest  true  "companyId"
// @Success      200   {object}  dto.SessionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/switch-company [post]
func (h *AuthHandler) SwitchCompany(c *fiber.Ctx) error {
	var in dto.SwitchCompanyRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SwitchCompany(c.UserContext(), GetUserID(c), GetClientID(c), in.CompanyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Join canjea un código de unión.
// POST /api/auth/join
func (h *AuthHandler) Join(c *fiber.Ctx) error {
	var in dto.JoinRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Join(c.UserContext(), GetUserID(c), GetClientID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateCompany godoc
// @Summary      Crear empresa
// @Description  Quien la crea queda como oficina y la empresa pasa a ser la activa.
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "name"
// @Success      201   {object}  dto.SessionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/companies [post]
func (h *AuthHandler) CreateCompany(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateCompany(c.UserContext(), GetUserID(c), GetClientID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateJoinCode emite un código de unión para la empresa activa (oficina).
// POST /api/join-codes
func (h *AuthHandler) CreateJoinCode(c *fiber.Ctx) error {
	var in dto.CreateJoinCodeRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateJoinCode(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateEngineer alta del perfil de ingeniero de la identidad.
// POST /api/engineers
func (h *AuthHandler) CreateEngineer(c *fiber.Ctx) error {
	var in dto.CreateEngineerRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateEngineerProfile(c.UserContext(), GetUserID(c), GetClientID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// LeaveCompany desvincula al ingeniero de una empresa.
// DELETE /api/engineers/me/companies/:companyId
func (h *AuthHandler) LeaveCompany(c *fiber.Ctx) error {
	out, err := h.uc.LeaveCompany(c.UserContext(), GetUserID(c), GetClientID(c), c.Params("companyId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
