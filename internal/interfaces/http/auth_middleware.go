package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/pkg/jwt"
)

// Locals keys de la sesión en Fiber.
const (
	LocalUserID     = "user_id"
	LocalCompanyID  = "company_id"
	LocalRole       = "role"
	LocalClientID   = "client_id"
	LocalEngineerID = "engineer_id"
	LocalTokenID    = "token_id"
	localTokenExp   = "token_exp"
)

// HeaderClientID identifica al navegador para recordar su empresa activa.
const HeaderClientID = "X-Client-ID"

// AuthMiddleware valida el Bearer Token JWT y carga la sesión en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		sess, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		clientID := strings.TrimSpace(c.Get(HeaderClientID))
		if clientID == "" {
			clientID = sess.ClientID
		}
		c.Locals(LocalUserID, sess.UserID)
		c.Locals(LocalCompanyID, sess.CompanyID)
		c.Locals(LocalRole, sess.Role)
		c.Locals(LocalClientID, clientID)
		c.Locals(LocalEngineerID, sess.EngineerID)
		c.Locals(LocalTokenID, sess.TokenID)
		c.Locals(localTokenExp, sess.ExpiresAt)
		if sess.CompanyID != "" {
			c.Locals(localLogger, requestLog(c).WithCompany(sess.CompanyID))
		}
		return c.Next()
	}
}

// RequireTenant bloquea las rutas de empresa a identidades sin contexto de tenant.
func RequireTenant() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetCompanyID(c) == "" || GetRole(c) == "" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "NO_COMPANY_CONTEXT",
				Message: "la identidad no tiene empresa activa",
			})
		}
		return c.Next()
	}
}

// SessionGuard revisa contra el estado actual lo que el token afirma.
type SessionGuard interface {
	Revoked(ctx context.Context, tokenID string) bool
	Authorize(ctx context.Context, userID, companyID, role string) error
}

// RejectRevoked rechaza tokens dados de baja por un cierre de sesión.
func RejectRevoked(guard SessionGuard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if guard.Revoked(c.UserContext(), GetTokenID(c)) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "TOKEN_REVOKED", Message: "la sesión fue cerrada"})
		}
		return c.Next()
	}
}

// RequireMembership confirma que la membresía del token sigue vigente: una baja
// o desvinculación corta el acceso aunque el token no haya vencido.
// Usar después de RequireTenant.
func RequireMembership(guard SessionGuard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := guard.Authorize(c.UserContext(), GetUserID(c), GetCompanyID(c), GetRole(c)); err != nil {
			return respondError(c, err)
		}
		return c.Next()
	}
}

// RequireRole autoriza solo las facetas indicadas. Usar después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no tiene rol"})
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
	}
}

func local(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return local(c, LocalUserID) }

// GetCompanyID devuelve la empresa activa del token.
func GetCompanyID(c *fiber.Ctx) string { return local(c, LocalCompanyID) }

// GetRole devuelve la faceta de la sesión (office | technician | engineer).
func GetRole(c *fiber.Ctx) string { return local(c, LocalRole) }

// GetClientID devuelve el identificador de cliente (header o token).
func GetClientID(c *fiber.Ctx) string { return local(c, LocalClientID) }

// GetEngineerID devuelve el perfil de ingeniero de la sesión, si lo tiene.
func GetEngineerID(c *fiber.Ctx) string { return local(c, LocalEngineerID) }

// GetTokenID devuelve el identificador (jti) del token presentado.
func GetTokenID(c *fiber.Ctx) string { return local(c, LocalTokenID) }

func tokenExpiry(c *fiber.Ctx) time.Time {
	t, _ := c.Locals(localTokenExp).(time.Time)
	return t
}
