package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ascensores-api/internal/domain"
	apphttp "github.com/jhoicas/ascensores-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/ascensores-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "ascensores-test"
	testExpMin    = 60
)

// buildTestApp app mínima con AuthMiddleware + RequireTenant + RequireRole y un handler dummy.
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireTenant(),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func tokenFor(t *testing.T, companyID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, testExpMin, pkgjwt.Session{
		UserID: testUserID, CompanyID: companyID, Role: role, ClientID: "browser-1",
	})
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole / RequireTenant
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_OficinaAccedeRutaOficina(t *testing.T) {
	app := buildTestApp("office")
	resp := doRequest(t, app, tokenFor(t, testCompanyID, "office"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "office", body["role"])
}

func TestRequireRole_TecnicoAccedeRutaOficinaOTecnico(t *testing.T) {
	app := buildTestApp("office", "technician")
	resp := doRequest(t, app, tokenFor(t, testCompanyID, "technician"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_TecnicoBloqueadoEnRutaOficina(t *testing.T) {
	app := buildTestApp("office")
	resp := doRequest(t, app, tokenFor(t, testCompanyID, "technician"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireTenant_SinEmpresa_Retorna403(t *testing.T) {
	app := buildTestApp("office")
	resp := doRequest(t, app, tokenFor(t, "", ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "NO_COMPANY_CONTEXT")
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := fiber.New()
	app.Get("/protected", apphttp.AuthMiddleware(testJWTSecret), apphttp.RequireRole("office"),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp := doRequest(t, app, tokenFor(t, testCompanyID, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp("office"), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp("office"), "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Extracción de claims
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
			"client_id":  apphttp.GetClientID(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenFor(t, testCompanyID, "office"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, "office", body["role"])
	assert.Equal(t, "browser-1", body["client_id"])
}

func TestAuthMiddleware_HeaderClientIDTienePrioridad(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.SendString(apphttp.GetClientID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenFor(t, testCompanyID, "office"))
	req.Header.Set(apphttp.HeaderClientID, "tablet-7")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "tablet-7", string(body))
}

// ──────────────────────────────────────────────────────────────────────────────
// RejectRevoked / RequireMembership
// ──────────────────────────────────────────────────────────────────────────────

type stubGuard struct {
	revoked map[string]bool
	members map[string]string // companyID → rol vigente
}

func (g stubGuard) Revoked(_ context.Context, tokenID string) bool { return g.revoked[tokenID] }

func (g stubGuard) Authorize(_ context.Context, _, companyID, role string) error {
	if g.members[companyID] != role {
		return domain.ErrNotAMember
	}
	return nil
}

func guardedApp(g stubGuard, seen *string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RejectRevoked(g),
		apphttp.RequireTenant(),
		apphttp.RequireMembership(g),
		func(c *fiber.Ctx) error {
			*seen = apphttp.GetTokenID(c)
			return c.SendStatus(fiber.StatusOK)
		},
	)
	return app
}

func TestRequireMembership_MembresiaVigente(t *testing.T) {
	var seen string
	app := guardedApp(stubGuard{members: map[string]string{testCompanyID: "technician"}}, &seen)

	resp := doRequest(t, app, tokenFor(t, testCompanyID, "technician"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, seen)
}

func TestRequireMembership_BajaPosteriorAlToken_Retorna403(t *testing.T) {
	var seen string
	app := guardedApp(stubGuard{members: map[string]string{}}, &seen)

	resp := doRequest(t, app, tokenFor(t, testCompanyID, "technician"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "NOT_A_MEMBER")
	assert.Empty(t, seen)
}

func TestRejectRevoked_TokenRevocado_Retorna401(t *testing.T) {
	header := tokenFor(t, testCompanyID, "office")
	tok, err := pkgjwt.Parse(testJWTSecret, header[len("Bearer "):])
	require.NoError(t, err)

	var seen string
	g := stubGuard{revoked: map[string]bool{tok.TokenID: true}, members: map[string]string{testCompanyID: "office"}}
	resp := doRequest(t, guardedApp(g, &seen), header)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "TOKEN_REVOKED")
}
