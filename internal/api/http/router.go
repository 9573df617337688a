package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campus-aura/backend/internal/api/http/handlers"
	"github.com/campus-aura/backend/internal/auth"
	"github.com/campus-aura/backend/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Events         *handlers.EventsHandler
	Admin          *handlers.AdminHandler
	Documents      *handlers.DocumentsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	authenticate := cfg.AuthMiddleware.Handle

	public := api.Group("/public")
	public.Post("/users/register/student", cfg.Users.RegisterStudent)
	public.Post("/users/register/external", cfg.Users.RegisterExternal)
	public.Post("/auth/login", cfg.Auth.Login)

	api.Post("/auth/password/change", authenticate, auth.RequireAnyRole(), cfg.Auth.ChangePassword)

	registerEventRoutes(api.Group("/events"), cfg, authenticate)
	registerUserRoutes(api.Group("/users", authenticate, auth.RequireAnyRole()), cfg)
	registerAdminRoutes(api.Group("/admin", authenticate, auth.RequireAdmin()), cfg)

	docs := api.Group("/firestore", authenticate, auth.RequireAdmin())
	docs.Get("/:collection", cfg.Documents.List)
	docs.Get("/:collection/:documentId", cfg.Documents.Get)
	docs.Post("/:collection/:documentId", cfg.Documents.Save)
	docs.Delete("/:collection/:documentId", cfg.Documents.Delete)
}

func registerEventRoutes(events fiber.Router, cfg RouteConfig, authenticate fiber.Handler) {
	// Public listings must be registered before the /:id routes.
	events.Get("/public", cfg.Events.Public)
	events.Get("/public/latest", cfg.Events.PublicLatest)
	events.Get("/public/:id", cfg.Events.PublicDetail)
	events.Get("/landing-page", cfg.Events.LandingPage)
	events.Get("/latest", cfg.Events.Latest)

	managed := events.Group("", authenticate, auth.RequireEventManager())
	managed.Post("/", cfg.Events.Create)
	managed.Get("/", cfg.Events.List)
	managed.Get("/my-events", cfg.Events.MyEvents)
	managed.Get("/:id", cfg.Events.Get)
	managed.Put("/:id", cfg.Events.Update)
	managed.Delete("/:id", cfg.Events.Delete)
	managed.Patch("/:id/status", cfg.Events.UpdateStatus)
}

func registerUserRoutes(users fiber.Router, cfg RouteConfig) {
	users.Get("/profile", cfg.Users.Profile)
	users.Put("/profile", cfg.Users.UpdateProfile)
	users.Delete("/profile", cfg.Users.DeactivateProfile)
	users.Post("/profile/student-id", cfg.Users.UploadStudentID)

	users.Get("/students/unverified", auth.RequireAdmin(), cfg.Users.UnverifiedStudents)
	users.Patch("/students/:uid/verify", auth.RequireAdmin(), cfg.Users.VerifyStudent)

	users.Get("/:uid", cfg.Users.GetUser)
}

func registerAdminRoutes(admin fiber.Router, cfg RouteConfig) {
	h := cfg.Admin

	admin.Get("/dashboard/stats", h.DashboardStats)
	admin.Get("/dashboard/top-coordinators", h.TopCoordinators)

	coordinators := admin.Group("/coordinators")
	coordinators.Get("/degree-programmes", h.DegreeProgrammes)
	coordinators.Get("/departments", h.Departments)
	coordinators.Post("/", h.CreateCoordinator)
	coordinators.Get("/", h.ListCoordinators)
	coordinators.Get("/:id", h.GetCoordinator)
	coordinators.Put("/:id", h.UpdateCoordinator)
	coordinators.Patch("/:id/status", h.SetCoordinatorStatus)
	coordinators.Delete("/:id", h.DeleteCoordinator)

	events := admin.Group("/events")
	events.Get("/filter", h.FilterEvents)
	events.Get("/pending/count", h.PendingEventCount)
	events.Get("/", h.ListEvents)
	events.Get("/:id", h.GetEvent)
	events.Delete("/:id", h.DeleteEvent)
	events.Post("/:id/approve", h.ApproveEvent)
	events.Post("/:id/reject", h.RejectEvent)
	events.Patch("/:id/status", h.SetEventStatus)

	users := admin.Group("/users")
	users.Get("/university-students", h.ListStudents)
	users.Get("/external-users", h.ListExternalUsers)
	users.Get("/pending-verification", h.PendingVerification)
	users.Get("/stats", h.UserStats)
	users.Get("/", h.ListUsers)
	users.Patch("/:id/status", h.SetUserStatus)
	users.Patch("/:id/verify", h.SetUserVerification)
	users.Delete("/:id", h.DeleteUser)

	products := admin.Group("/products")
	products.Get("/pending/count", h.PendingProductCount)
	products.Get("/", h.ListProducts)
	products.Get("/:id", h.GetProduct)
	products.Delete("/:id", h.DeleteProduct)
	products.Post("/:id/approve", h.ApproveProduct)
	products.Post("/:id/disable", h.DisableProduct)

	payments := admin.Group("/payments")
	payments.Get("/stats", h.PaymentStats)
	payments.Get("/transactions", h.Transactions)
	payments.Get("/transactions/recent", h.RecentTransactions)
}
