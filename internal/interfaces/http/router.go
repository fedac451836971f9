package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/ascensores-api/internal/application/auth"
	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/internal/application/lifecycle"
	"github.com/jhoicas/ascensores-api/internal/application/remito"
	"github.com/jhoicas/ascensores-api/internal/application/report"
	"github.com/jhoicas/ascensores-api/internal/application/session"
	"github.com/jhoicas/ascensores-api/internal/application/usecase"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	Facade    *usecase.Facade
	Lifecycle *lifecycle.Service
	Remitos   *remito.Service
	Reports   *report.Service
	Sessions  *session.Service
	JWTSecret string
	// AuthRateLimit pedidos por minuto y por IP a sign-in/sign-up. 0 desactiva el límite.
	AuthRateLimit int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	public := api.Group("/auth")
	throttle := func(c *fiber.Ctx) error { return c.Next() }
	if deps.AuthRateLimit > 0 {
		throttle = limiter.New(limiter.Config{
			Max:        deps.AuthRateLimit,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiados intentos, espere un minuto"})
			},
		})
	}
	public.Post("/sign-up", throttle, authHandler.SignUp)
	public.Post("/sign-in", throttle, authHandler.SignIn)

	// Rutas protegidas (requieren Bearer Token, con o sin empresa)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RejectRevoked(deps.Sessions))
	protected.Post("/auth/sign-out", authHandler.SignOut)
	protected.Get("/auth/session", authHandler.Session)
	protected.Post("/auth/switch-company", authHandler.SwitchCompany)
	protected.Post("/auth/join", authHandler.Join)
	protected.Post("/companies", authHandler.CreateCompany)
	protected.Post("/engineers", authHandler.CreateEngineer)
	protected.Delete("/engineers/me/companies/:companyId", authHandler.LeaveCompany)

	// Rutas de empresa: exigen empresa activa en el token y membresía vigente
	tenant := protected.Group("/", RequireTenant(), RequireMembership(deps.Sessions))
	office := RequireRole(entity.RoleOffice)
	field := RequireRole(entity.RoleOffice, entity.RoleTechnician)

	tenant.Post("/join-codes", office, authHandler.CreateJoinCode)

	buildingHandler := NewBuildingHandler(deps.Facade.Buildings)
	buildings := tenant.Group("/buildings", office)
	buildings.Get("/", buildingHandler.List)
	buildings.Post("/", buildingHandler.Create)
	buildings.Post("/with-assets", buildingHandler.CreateWithAssets)
	buildings.Get("/:id", buildingHandler.GetByID)
	buildings.Patch("/:id", buildingHandler.Update)
	buildings.Get("/:id/assets", buildingHandler.Assets)

	elevatorHandler := NewElevatorHandler(deps.Facade.Elevators)
	elevators := tenant.Group("/elevators", office)
	elevators.Get("/", elevatorHandler.List)
	elevators.Post("/", elevatorHandler.Create)
	elevators.Get("/:id", elevatorHandler.GetByID)
	elevators.Patch("/:id", elevatorHandler.Update)
	elevators.Get("/:id/history", elevatorHandler.History)
	elevators.Post("/:id/history", elevatorHandler.AddHistory)

	equipmentHandler := NewEquipmentHandler(deps.Facade.Equipment)
	equipment := tenant.Group("/equipment", office)
	equipment.Get("/", equipmentHandler.List)
	equipment.Post("/", equipmentHandler.Create)
	equipment.Get("/:id", equipmentHandler.GetByID)
	equipment.Patch("/:id", equipmentHandler.Update)
	equipment.Delete("/:id", equipmentHandler.Delete)

	technicianHandler := NewTechnicianHandler(deps.Facade.Technicians)
	technicians := tenant.Group("/technicians", office)
	technicians.Get("/", technicianHandler.List)
	technicians.Post("/", technicianHandler.Create)
	technicians.Get("/:id", technicianHandler.GetByID)
	technicians.Patch("/:id", technicianHandler.Update)

	// Órdenes: la oficina administra; el técnico lista, inicia, completa y adjunta
	woHandler := NewWorkOrderHandler(deps.Facade.WorkOrders, deps.Facade.Uploads, deps.Lifecycle, deps.Remitos, deps.Reports)
	orders := tenant.Group("/work-orders")
	orders.Get("/export.xlsx", office, woHandler.Export)
	orders.Get("/", field, woHandler.List)
	orders.Post("/", office, woHandler.Create)
	orders.Get("/:id", field, woHandler.GetByID)
	orders.Patch("/:id", office, woHandler.Update)
	orders.Post("/:id/start", field, woHandler.Start)
	orders.Post("/:id/complete", field, woHandler.Complete)
	orders.Post("/:id/photos", field, woHandler.UploadPhoto)
	orders.Post("/:id/signature", field, woHandler.UploadSignature)
	orders.Get("/:id/report.pdf", field, woHandler.Report)
	orders.Post("/:id/remito", field, woHandler.GenerateRemito)
	orders.Get("/:id/remito", field, woHandler.GetRemito)

	reportHandler := NewEngineerReportHandler(deps.Facade.Reports)
	reports := tenant.Group("/engineer-reports")
	reports.Get("/", office, reportHandler.List)
	reports.Post("/", RequireRole(entity.RoleEngineer), reportHandler.Create)
	reports.Patch("/:id/read", office, reportHandler.SetRead)

	dashboardHandler := NewDashboardHandler(deps.Facade.Dashboard)
	tenant.Get("/dashboard", field, dashboardHandler.Get)
}
