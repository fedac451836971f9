package http

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Los errores de campo usan el nombre JSON (camelCase).
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// requestError cuerpo inválido o que no pasa la validación.
type requestError struct {
	code    string
	message string
	fields  map[string]string
}

func (e *requestError) Error() string { return e.message }

// bind parsea el cuerpo JSON y lo valida con las etiquetas `validate`.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return &requestError{code: "INVALID_BODY", message: "cuerpo inválido"}
	}
	return check(dst)
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &requestError{code: "VALIDATION", message: err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = fe.Tag()
	}
	return &requestError{code: "VALIDATION", message: "datos inválidos", fields: fields}
}

// fieldPath "partsUsed[0].name" sin el nombre del struct raíz.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// ── Mapeo de errores de dominio ──────────────────────────────────────────────

type errorMapping struct {
	target error
	status int
	code   string
}

var errorTable = []errorMapping{
	{domain.ErrBuildingRequired, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrAssetRequired, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrSignatureRequired, fiber.StatusBadRequest, "SIGNATURE_REQUIRED"},
	{domain.ErrInvalidJoinCode, fiber.StatusBadRequest, "INVALID_JOIN_CODE"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrUserNotFound, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrNoCompanyContext, fiber.StatusForbidden, "NO_COMPANY_CONTEXT"},
	{domain.ErrNotAMember, fiber.StatusForbidden, "NOT_A_MEMBER"},
	{domain.ErrNotAssignedTechnician, fiber.StatusForbidden, "NOT_ASSIGNED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrAlreadyEngineer, fiber.StatusConflict, "ALREADY_ENGINEER"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrAlreadyCompleted, fiber.StatusConflict, "ALREADY_COMPLETED"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrRemitoNotReady, fiber.StatusConflict, "REMITO_NOT_READY"},
	{domain.ErrMissingFinishTime, fiber.StatusConflict, "MISSING_FINISH_TIME"},
	{domain.ErrMissingAddress, fiber.StatusConflict, "MISSING_ADDRESS"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrUploadFailed, fiber.StatusBadGateway, "UPLOAD_FAILED"},
}

// respondError traduce err a dto.ErrorResponse. Lo no mapeado es 500 y se registra.
func respondError(c *fiber.Ctx, err error) error {
	var re *requestError
	if errors.As(err, &re) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: re.code, Message: re.message, Fields: re.fields})
	}
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	requestLog(c).Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func notFound(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: what + " no encontrado"})
}

// ── Listados con ETag ────────────────────────────────────────────────────────

// respondList responde el listado con ETag derivado de empresa, ruta, filtros
// y versión de la instantánea. If-None-Match igual al vigente → 304 sin cuerpo.
func respondList[T any](c *fiber.Ctx, list dto.ListResponse[T]) error {
	if list.Version != "" {
		etag := listETag(c, list.Version)
		c.Set(fiber.HeaderETag, etag)
		c.Set(fiber.HeaderCacheControl, "no-cache")
		if match := c.Get(fiber.HeaderIfNoneMatch); match == etag || "W/"+match == etag {
			return c.SendStatus(fiber.StatusNotModified)
		}
	}
	return c.JSON(list)
}

// listETag la versión sola se repite entre empresas: se mezcla con el tenant.
func listETag(c *fiber.Ctx, version string) string {
	h := xxhash.New()
	_, _ = h.WriteString(GetCompanyID(c))
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(c.Path())
	_, _ = h.WriteString("|")
	_, _ = h.Write(c.Request().URI().QueryString())
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(version)
	return `W/"` + strconv.FormatUint(h.Sum64(), 16) + `"`
}
