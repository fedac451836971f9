package http_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ascensores-api/internal/application/auth"
	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/internal/application/lifecycle"
	"github.com/jhoicas/ascensores-api/internal/application/ports"
	"github.com/jhoicas/ascensores-api/internal/application/remito"
	"github.com/jhoicas/ascensores-api/internal/application/report"
	"github.com/jhoicas/ascensores-api/internal/application/session"
	"github.com/jhoicas/ascensores-api/internal/application/usecase"
	"github.com/jhoicas/ascensores-api/internal/infrastructure/cache"
	"github.com/jhoicas/ascensores-api/internal/infrastructure/export"
	"github.com/jhoicas/ascensores-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/ascensores-api/internal/interfaces/http"
	"github.com/jhoicas/ascensores-api/pkg/daykey"
	"github.com/jhoicas/ascensores-api/pkg/logger"
)

// ── Dobles ───────────────────────────────────────────────────────────────────

type fakeStorage struct {
	mu      sync.Mutex
	fail    bool
	uploads int
}

func (f *fakeStorage) Upload(_ context.Context, path, _ string, _ []byte, _ bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errors.New("storage caído")
	}
	f.uploads++
	return "https://files.test/" + path, nil
}

func (f *fakeStorage) PublicURL(path string) string { return "https://files.test/" + path }

type pdfStub struct{}

func (pdfStub) RenderRemito(context.Context, ports.RemitoPayload) ([]byte, error) {
	return []byte("%PDF-remito"), nil
}

func (pdfStub) RenderServiceReport(context.Context, ports.ServiceReport) ([]byte, error) {
	return []byte("%PDF-informe"), nil
}

// ── Servidor de prueba ───────────────────────────────────────────────────────

type server struct {
	app     *fiber.App
	storage *fakeStorage
}

func newServer(t *testing.T) *server {
	t.Helper()
	mem := memory.NewStore()
	store := mem.Repositories()
	log := logger.Nop()
	loc := daykey.Location("")
	shared := cache.NewCollectionCache(nil, time.Minute, log)
	fs := &fakeStorage{}

	sessions := session.NewService(store, session.NewMemoryPreferences(), log)
	authUC := auth.NewAuthUseCase(store, mem, sessions, nil, auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
	}, log)
	facade := usecase.NewFacade(usecase.Deps{
		Store:    store,
		Tx:       mem,
		Cache:    shared,
		Storage:  fs,
		Exporter: export.NewXLSXExporter(),
		Location: loc,
		Log:      log,
	})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    authUC,
		Facade:    facade,
		Lifecycle: lifecycle.NewService(store, mem, shared, nil, log),
		Remitos:   remito.NewService(store, pdfStub{}, fs, loc, log),
		Reports:   report.NewService(store, pdfStub{}, loc),
		Sessions:  sessions,
		JWTSecret: testJWTSecret,
	})
	return &server{app: app, storage: fs}
}

func (s *server) do(t *testing.T, method, path, token string, body any, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// officeToken registra una identidad, crea su empresa y devuelve el token de oficina.
func (s *server) officeToken(t *testing.T, email, company string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/sign-up", "", dto.SignUpRequest{Email: email, Password: "secreto123", Name: "Oficina"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/auth/sign-in", "", dto.SignInRequest{Email: email, Password: "secreto123"}, apphttp.HeaderClientID, email)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sess := decode[dto.SessionResponse](t, resp)
	assert.Empty(t, sess.Role)

	resp = s.do(t, http.MethodPost, "/api/companies", sess.Token, dto.CreateCompanyRequest{Name: company})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sess = decode[dto.SessionResponse](t, resp)
	require.Equal(t, "office", sess.Role)
	return sess.Token
}

func (s *server) seedOrder(t *testing.T, token string) dto.WorkOrderResponse {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/buildings", token, dto.CreateBuildingRequest{Address: "Av. Corrientes 1234"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	b := decode[dto.BuildingResponse](t, resp)

	resp = s.do(t, http.MethodPost, "/api/elevators", token, map[string]any{"buildingId": b.ID, "number": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	e := decode[dto.ElevatorResponse](t, resp)

	resp = s.do(t, http.MethodPost, "/api/work-orders", token, map[string]any{
		"claimType": "Corrective", "buildingId": b.ID, "elevatorId": e.ID, "equipmentId": "", "description": "No abre puerta",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.WorkOrderResponse](t, resp)
}

func signatureDataURL(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// ── Casos ────────────────────────────────────────────────────────────────────

func TestAPI_IdentidadSinEmpresa_Bloqueada(t *testing.T) {
	s := newServer(t)
	resp := s.do(t, http.MethodPost, "/api/auth/sign-up", "", dto.SignUpRequest{Email: "solo@test.com", Password: "secreto123", Name: "Solo"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = s.do(t, http.MethodPost, "/api/auth/sign-in", "", dto.SignInRequest{Email: "solo@test.com", Password: "secreto123"})
	sess := decode[dto.SessionResponse](t, resp)

	resp = s.do(t, http.MethodGet, "/api/buildings", sess.Token, nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "NO_COMPANY_CONTEXT", body.Code)
}

func TestAPI_SignUp_ValidaCampos(t *testing.T) {
	s := newServer(t)
	resp := s.do(t, http.MethodPost, "/api/auth/sign-up", "", map[string]string{"email": "no-es-email", "password": "corta"})
	body := decode[dto.ErrorResponse](t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, "email", body.Fields["email"])
	assert.Equal(t, "min", body.Fields["password"])
	assert.Equal(t, "required", body.Fields["name"])
}

func TestAPI_SignIn_CredencialesInvalidas(t *testing.T) {
	s := newServer(t)
	s.officeToken(t, "a@test.com", "Ascensores A")
	resp := s.do(t, http.MethodPost, "/api/auth/sign-in", "", dto.SignInRequest{Email: "a@test.com", Password: "otra-clave"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_AislamientoEntreEmpresas(t *testing.T) {
	s := newServer(t)
	tokA := s.officeToken(t, "a@test.com", "Ascensores A")
	tokB := s.officeToken(t, "b@test.com", "Ascensores B")
	order := s.seedOrder(t, tokA)

	resp := s.do(t, http.MethodGet, "/api/work-orders/"+order.ID, tokB, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/buildings/"+order.BuildingID, tokB, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/work-orders", tokB, nil)
	list := decode[dto.ListResponse[dto.WorkOrderResponse]](t, resp)
	assert.Empty(t, list.Items)
}

func TestAPI_ListadoConETag(t *testing.T) {
	s := newServer(t)
	tok := s.officeToken(t, "a@test.com", "Ascensores A")
	resp := s.do(t, http.MethodPost, "/api/buildings", tok, dto.CreateBuildingRequest{Address: "Calle 1"})
	resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/api/buildings", tok, nil)
	etag := resp.Header.Get(fiber.HeaderETag)
	list := decode[dto.ListResponse[dto.BuildingResponse]](t, resp)
	require.NotEmpty(t, etag)
	assert.Len(t, list.Items, 1)

	resp = s.do(t, http.MethodGet, "/api/buildings", tok, nil, fiber.HeaderIfNoneMatch, etag)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)

	// una escritura invalida la instantánea y cambia el ETag
	resp = s.do(t, http.MethodPost, "/api/buildings", tok, dto.CreateBuildingRequest{Address: "Calle 2"})
	resp.Body.Close()
	resp = s.do(t, http.MethodGet, "/api/buildings", tok, nil, fiber.HeaderIfNoneMatch, etag)
	list = decode[dto.ListResponse[dto.BuildingResponse]](t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEqual(t, etag, resp.Header.Get(fiber.HeaderETag))
	assert.Len(t, list.Items, 2)
}

func TestAPI_ETagNoSeComparteEntreEmpresas(t *testing.T) {
	s := newServer(t)
	tokA := s.officeToken(t, "a@test.com", "Ascensores A")
	tokB := s.officeToken(t, "b@test.com", "Ascensores B")
	// misma cantidad de escrituras: ambas colecciones quedan en la misma versión
	for _, tok := range []string{tokA, tokB} {
		resp := s.do(t, http.MethodPost, "/api/buildings", tok, dto.CreateBuildingRequest{Address: "Calle 1"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := s.do(t, http.MethodGet, "/api/buildings", tokA, nil)
	etagA := resp.Header.Get(fiber.HeaderETag)
	resp.Body.Close()
	require.NotEmpty(t, etagA)

	resp = s.do(t, http.MethodGet, "/api/buildings", tokB, nil, fiber.HeaderIfNoneMatch, etagA)
	list := decode[dto.ListResponse[dto.BuildingResponse]](t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEqual(t, etagA, resp.Header.Get(fiber.HeaderETag))
	assert.Len(t, list.Items, 1)

	// tampoco se comparte entre filtros de la misma empresa
	resp = s.do(t, http.MethodGet, "/api/buildings?neighborhood=zzz", tokA, nil, fiber.HeaderIfNoneMatch, etagA)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_CrearOrdenSinActivo_Retorna400(t *testing.T) {
	s := newServer(t)
	tok := s.officeToken(t, "a@test.com", "Ascensores A")
	resp := s.do(t, http.MethodPost, "/api/buildings", tok, dto.CreateBuildingRequest{Address: "Calle 1"})
	b := decode[dto.BuildingResponse](t, resp)

	resp = s.do(t, http.MethodPost, "/api/work-orders", tok, map[string]any{
		"claimType": "Corrective", "buildingId": b.ID, "elevatorId": "null", "equipmentId": "undefined",
	})
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)

	resp = s.do(t, http.MethodGet, "/api/work-orders", tok, nil)
	list := decode[dto.ListResponse[dto.WorkOrderResponse]](t, resp)
	assert.Empty(t, list.Items)
}

func TestAPI_CicloCompleto_FirmaCierreYRemito(t *testing.T) {
	s := newServer(t)
	tok := s.officeToken(t, "a@test.com", "Ascensores A")
	order := s.seedOrder(t, tok)
	base := "/api/work-orders/" + order.ID

	resp := s.do(t, http.MethodPost, base+"/start", tok, nil)
	started := decode[dto.WorkOrderResponse](t, resp)
	assert.Equal(t, "In Progress", started.Status)
	assert.NotNil(t, started.StartTime)

	// sin firma la orden sigue en curso
	resp = s.do(t, http.MethodPost, base+"/complete", tok, map[string]any{"comments": "Se cambió el cable"})
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "SIGNATURE_REQUIRED", body.Code)

	resp = s.do(t, http.MethodPost, base+"/signature", tok, map[string]string{"dataUrl": signatureDataURL(t)})
	up := decode[dto.UploadResponse](t, resp)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, up.URL, order.ID+"/signature.png")

	sig := signatureDataURL(t)
	resp = s.do(t, http.MethodPost, base+"/complete", tok, map[string]any{
		"comments":         "Se cambió el cable",
		"partsUsed":        []map[string]any{{"name": "Grasa", "quantity": "1.5"}},
		"signatureDataUrl": sig,
	})
	done := decode[dto.WorkOrderResponse](t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Completed", done.Status)
	require.Len(t, done.PartsUsed, 1)
	assert.Equal(t, "1.5", done.PartsUsed[0].Quantity.String())

	resp = s.do(t, http.MethodPost, base+"/complete", tok, map[string]any{"signatureDataUrl": sig})
	body = decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_COMPLETED", body.Code)

	resp = s.do(t, http.MethodPost, base+"/remito", tok, nil)
	first := decode[dto.RemitoResponse](t, resp)
	assert.Equal(t, "00000001", first.Display)
	resp = s.do(t, http.MethodPost, base+"/remito", tok, nil)
	second := decode[dto.RemitoResponse](t, resp)
	assert.Equal(t, "00000002", second.Display)

	resp = s.do(t, http.MethodGet, base+"/remito", tok, nil)
	current := decode[dto.RemitoResponse](t, resp)
	assert.Equal(t, int64(2), current.RemitoNumber)

	resp = s.do(t, http.MethodGet, base+"/report.pdf", tok, nil)
	defer resp.Body.Close()
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "informe-"+order.ID+".pdf")
}

func TestAPI_RemitoDeOrdenPendiente_Retorna409(t *testing.T) {
	s := newServer(t)
	tok := s.officeToken(t, "a@test.com", "Ascensores A")
	order := s.seedOrder(t, tok)

	resp := s.do(t, http.MethodPost, "/api/work-orders/"+order.ID+"/remito", tok, nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "REMITO_NOT_READY", body.Code)
}

func TestAPI_PatchStatusHaciaAtras_Retorna409(t *testing.T) {
	s := newServer(t)
	tok := s.officeToken(t, "a@test.com", "Ascensores A")
	order := s.seedOrder(t, tok)
	base := "/api/work-orders/" + order.ID

	resp := s.do(t, http.MethodPatch, base, tok, map[string]any{"status": "In Progress", "contactName": "Portero"})
	updated := decode[dto.WorkOrderResponse](t, resp)
	assert.Equal(t, "In Progress", updated.Status)
	assert.Equal(t, "Portero", updated.ContactName)

	resp = s.do(t, http.MethodPatch, base, tok, map[string]any{"status": "Pending"})
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", body.Code)
}

func TestAPI_SubidaDeFoto_FalloDeStorageEs502(t *testing.T) {
	s := newServer(t)
	tok := s.officeToken(t, "a@test.com", "Ascensores A")
	order := s.seedOrder(t, tok)

	upload := func() *http.Response {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile("file", "foto.png")
		require.NoError(t, err)
		require.NoError(t, png.Encode(part, image.NewRGBA(image.Rect(0, 0, 8, 8))))
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/work-orders/"+order.ID+"/photos", &buf)
		req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)
		resp, err := s.app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	resp := upload()
	up := decode[dto.UploadResponse](t, resp)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, up.URL, order.ID+"/photos/")

	s.storage.fail = true
	resp = upload()
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "UPLOAD_FAILED", body.Code)
}

func TestAPI_TecnicoNoAdministraEdificios(t *testing.T) {
	s := newServer(t)
	tok := s.officeToken(t, "a@test.com", "Ascensores A")

	resp := s.do(t, http.MethodPost, "/api/join-codes", tok, dto.CreateJoinCodeRequest{Role: "technician"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	code := decode[dto.JoinCodeResponse](t, resp)

	resp = s.do(t, http.MethodPost, "/api/auth/sign-up", "", dto.SignUpRequest{Email: "tec@test.com", Password: "secreto123", Name: "Técnico"})
	resp.Body.Close()
	resp = s.do(t, http.MethodPost, "/api/auth/sign-in", "", dto.SignInRequest{Email: "tec@test.com", Password: "secreto123"})
	sess := decode[dto.SessionResponse](t, resp)
	resp = s.do(t, http.MethodPost, "/api/auth/join", sess.Token, dto.JoinRequest{Code: code.Code})
	sess = decode[dto.SessionResponse](t, resp)
	require.Equal(t, "technician", sess.Role)

	resp = s.do(t, http.MethodGet, "/api/buildings", sess.Token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// sin técnico vinculado, "mis órdenes" viene vacío
	resp = s.do(t, http.MethodGet, "/api/work-orders", sess.Token, nil)
	list := decode[dto.ListResponse[dto.WorkOrderResponse]](t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, list.Items)
}

// technicianToken registra una identidad y la suma a la empresa de officeTok como técnico.
func (s *server) technicianToken(t *testing.T, officeTok, email string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/join-codes", officeTok, dto.CreateJoinCodeRequest{Role: "technician"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	code := decode[dto.JoinCodeResponse](t, resp)

	resp = s.do(t, http.MethodPost, "/api/auth/sign-up", "", dto.SignUpRequest{Email: email, Password: "secreto123", Name: "Técnico"})
	resp.Body.Close()
	resp = s.do(t, http.MethodPost, "/api/auth/sign-in", "", dto.SignInRequest{Email: email, Password: "secreto123"})
	sess := decode[dto.SessionResponse](t, resp)
	resp = s.do(t, http.MethodPost, "/api/auth/join", sess.Token, dto.JoinRequest{Code: code.Code})
	sess = decode[dto.SessionResponse](t, resp)
	require.Equal(t, "technician", sess.Role)
	return sess.Token
}

func TestAPI_TecnicoSoloVeOrdenesPropiasOSinAsignar(t *testing.T) {
	s := newServer(t)
	office := s.officeToken(t, "a@test.com", "Ascensores A")
	tec := s.technicianToken(t, office, "tec@test.com")

	free := s.seedOrder(t, office)
	require.NotNil(t, free.ElevatorID)
	resp := s.do(t, http.MethodPost, "/api/work-orders", office, map[string]any{
		"claimType": "Corrective", "buildingId": free.BuildingID, "elevatorId": *free.ElevatorID, "description": "Ruido en sala de máquinas",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	other := decode[dto.WorkOrderResponse](t, resp)

	// técnico sin usuario vinculado: la orden queda fuera del alcance de tec
	resp = s.do(t, http.MethodPost, "/api/technicians", office, dto.CreateTechnicianRequest{Name: "Otro", Role: "Reclamista"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	someone := decode[dto.TechnicianResponse](t, resp)
	resp = s.do(t, http.MethodPatch, "/api/work-orders/"+other.ID, office, map[string]any{"technicianId": someone.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/api/work-orders/"+free.ID, tec, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	base := "/api/work-orders/" + other.ID
	for _, call := range []struct{ method, path string }{
		{http.MethodGet, base},
		{http.MethodGet, base + "/report.pdf"},
		{http.MethodGet, base + "/remito"},
		{http.MethodPost, base + "/remito"},
		{http.MethodPost, base + "/signature"},
	} {
		var body any
		if call.path == base+"/signature" {
			body = map[string]string{"dataUrl": signatureDataURL(t)}
		}
		resp = s.do(t, call.method, call.path, tec, body)
		errBody := decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, call.method+" "+call.path)
		assert.Equal(t, "NOT_ASSIGNED", errBody.Code, call.method+" "+call.path)
	}
	assert.Zero(t, s.storage.uploads)

	// la oficina no tiene esa restricción
	resp = s.do(t, http.MethodGet, base, office, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// engineerToken registra un ingeniero y lo vincula a la empresa de officeTok.
func (s *server) engineerToken(t *testing.T, officeTok, email string) dto.SessionResponse {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/join-codes", officeTok, dto.CreateJoinCodeRequest{Role: "engineer"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	code := decode[dto.JoinCodeResponse](t, resp)

	resp = s.do(t, http.MethodPost, "/api/auth/sign-up", "", dto.SignUpRequest{Email: email, Password: "secreto123", Name: "Ingeniera"})
	resp.Body.Close()
	resp = s.do(t, http.MethodPost, "/api/auth/sign-in", "", dto.SignInRequest{Email: email, Password: "secreto123"})
	sess := decode[dto.SessionResponse](t, resp)
	resp = s.do(t, http.MethodPost, "/api/engineers", sess.Token, dto.CreateEngineerRequest{Name: "Ing. Pérez"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sess = decode[dto.SessionResponse](t, resp)

	resp = s.do(t, http.MethodPost, "/api/auth/join", sess.Token, dto.JoinRequest{Code: code.Code})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sess = decode[dto.SessionResponse](t, resp)
	require.Equal(t, "engineer", sess.Role)
	require.NotEmpty(t, sess.ActiveCompanyID)
	return sess
}

func TestAPI_IngenieroQueDejaLaEmpresa_PierdeAcceso(t *testing.T) {
	s := newServer(t)
	office := s.officeToken(t, "a@test.com", "Ascensores A")
	eng := s.engineerToken(t, office, "ing@test.com")

	resp := s.do(t, http.MethodPost, "/api/engineer-reports", eng.Token, dto.CreateEngineerReportRequest{Address: "Callao 100"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodDelete, "/api/engineers/me/companies/"+eng.ActiveCompanyID, eng.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// el token anterior todavía dice company_id + engineer
	resp = s.do(t, http.MethodPost, "/api/engineer-reports", eng.Token, dto.CreateEngineerReportRequest{Address: "Callao 200"})
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "NOT_A_MEMBER", body.Code)

	resp = s.do(t, http.MethodGet, "/api/engineer-reports", office, nil)
	list := decode[dto.ListResponse[dto.EngineerReportResponse]](t, resp)
	assert.Len(t, list.Items, 1)
}

func TestAPI_SignOut_RevocaElToken(t *testing.T) {
	s := newServer(t)
	tok := s.officeToken(t, "a@test.com", "Ascensores A")

	resp := s.do(t, http.MethodGet, "/api/buildings", tok, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/auth/sign-out", tok, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/buildings", tok, nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "TOKEN_REVOKED", body.Code)

	resp = s.do(t, http.MethodGet, "/api/auth/session", tok, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// un inicio de sesión nuevo emite otro token válido
	resp = s.do(t, http.MethodPost, "/api/auth/sign-in", "", dto.SignInRequest{Email: "a@test.com", Password: "secreto123"})
	sess := decode[dto.SessionResponse](t, resp)
	resp = s.do(t, http.MethodGet, "/api/buildings", sess.Token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_ExportarPlanilla(t *testing.T) {
	s := newServer(t)
	tok := s.officeToken(t, "a@test.com", "Ascensores A")
	s.seedOrder(t, tok)

	resp := s.do(t, http.MethodGet, "/api/work-orders/export.xlsx", tok, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get(fiber.HeaderContentType))
	data, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestAPI_Dashboard(t *testing.T) {
	s := newServer(t)
	tok := s.officeToken(t, "a@test.com", "Ascensores A")
	s.seedOrder(t, tok)

	resp := s.do(t, http.MethodGet, "/api/dashboard", tok, nil)
	out := decode[dto.DashboardResponse](t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, out.Buildings)
	assert.Len(t, out.Unassigned, 1)
}
