package app

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/campus-aura/backend/internal/api/http"
	"github.com/campus-aura/backend/internal/api/http/handlers"
	"github.com/campus-aura/backend/internal/auth"
	"github.com/campus-aura/backend/internal/cache"
	"github.com/campus-aura/backend/internal/config"
	"github.com/campus-aura/backend/internal/docstore"
	"github.com/campus-aura/backend/internal/events"
	"github.com/campus-aura/backend/internal/media"
	"github.com/campus-aura/backend/internal/observability"
	"github.com/campus-aura/backend/internal/repository"
	"github.com/campus-aura/backend/internal/service"
	"github.com/campus-aura/backend/internal/worker"
)

// bodyLimit leaves room for a multipart student ID upload.
const bodyLimit = service.MaxStudentIDImageBytes + 1<<20

// Dependencies are the infrastructure pieces the HTTP application is built on.
// Only Config and Store are required.
type Dependencies struct {
	Config       *config.Config
	Logger       *zap.Logger
	Store        docstore.Store
	Cache        cache.ListingCache
	Uploader     media.Uploader
	Dispatcher   events.Dispatcher
	Forwarder    *events.KafkaForwarder
	Metrics      *observability.Metrics
	HealthChecks []handlers.HealthCheck
}

// Server is the assembled Fiber application plus the services other binaries reuse.
type Server struct {
	App  *fiber.App
	Auth *service.AuthService
}

// New wires repositories, services, handlers and routes.
func New(deps Dependencies) *Server {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher(logger)
	}
	listingCache := deps.Cache
	if listingCache == nil {
		listingCache = cache.Noop{}
	}
	uploader := deps.Uploader
	if uploader == nil {
		uploader = media.Disabled{}
	}

	store := deps.Store
	eventRepo := repository.NewEventRepository(store)
	userRepo := repository.NewUserRepository(store)
	coordinatorRepo := repository.NewCoordinatorRepository(store)
	productRepo := repository.NewProductRepository(store)
	transactionRepo := repository.NewTransactionRepository(store)
	credentialRepo := repository.NewCredentialRepository(store)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		CredentialRepo: credentialRepo,
		UserRepo:       userRepo,
		Logger:         logger,
	})
	eventService := service.NewEventService(service.EventDependencies{
		EventRepo:       eventRepo,
		CoordinatorRepo: coordinatorRepo,
		Dispatcher:      dispatcher,
		Cache:           listingCache,
		Logger:          logger,
	})
	userService := service.NewUserService(service.UserDependencies{
		UserRepo:           userRepo,
		Uploader:           uploader,
		UploadFolder:       cfg.Cloudinary.Folder,
		StudentEmailDomain: cfg.Registration.StudentEmailDomain,
		Dispatcher:         dispatcher,
		Logger:             logger,
	})
	userAdminService := service.NewUserAdminService(service.UserAdminDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	coordinatorService := service.NewCoordinatorService(service.CoordinatorDependencies{
		CoordinatorRepo: coordinatorRepo,
		EventRepo:       eventRepo,
		UserRepo:        userRepo,
		AuthService:     authService,
		Dispatcher:      dispatcher,
		Logger:          logger,
	})
	productService := service.NewProductService(service.ProductDependencies{
		ProductRepo: productRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	transactionService := service.NewTransactionService(transactionRepo)
	dashboardService := service.NewDashboardService(service.DashboardDependencies{
		EventService:       eventService,
		ProductService:     productService,
		CoordinatorService: coordinatorService,
		UserRepo:           userRepo,
	})
	documentService := service.NewDocumentService(service.DocumentDependencies{
		Store:  store,
		Cache:  listingCache,
		Logger: logger,
	})

	worker.StartNotificationWorker(worker.Subscribers{
		Dispatcher:    dispatcher,
		Notifications: service.NewNotificationService(dispatcher, logger, cfg.Notification),
		Forwarder:     deps.Forwarder,
		Metrics:       deps.Metrics,
	})

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: bodyLimit,
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:       logger,
		Metrics:      deps.Metrics,
		Timeout:      cfg.App.RequestTimeout(),
		AllowOrigins: cfg.CORS.AllowOrigins,
	})

	checks := append([]handlers.HealthCheck{{Name: "store", Pinger: store}}, deps.HealthChecks...)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, checks...),
		Auth:      handlers.NewAuthHandler(authService),
		Users:     handlers.NewUsersHandler(userService),
		Events:    handlers.NewEventsHandler(eventService),
		Documents: handlers.NewDocumentsHandler(documentService),
		Admin: handlers.NewAdminHandler(handlers.AdminDependencies{
			Dashboard:    dashboardService,
			Coordinators: coordinatorService,
			Events:       eventService,
			Users:        userAdminService,
			Products:     productService,
			Transactions: transactionService,
		}),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		Metrics:        deps.Metrics,
	})

	return &Server{App: app, Auth: authService}
}
