package main

import (
	"context"
	"fmt"
	"log"

	"agir-planning/internal/apperrors"
	common_api "agir-planning/internal/common/api"
	"agir-planning/internal/config"
	"agir-planning/internal/database"
	"agir-planning/internal/features/annualprogram"
	"agir-planning/internal/features/audit"
	"agir-planning/internal/features/document"
	"agir-planning/internal/features/intervention"
	"agir-planning/internal/features/nexo"
	"agir-planning/internal/features/programbook"
	"agir-planning/internal/features/project"
	"agir-planning/internal/features/submission"
	"agir-planning/internal/features/system"
	"agir-planning/internal/features/taxonomy"
	"agir-planning/internal/logger"
	"agir-planning/internal/middleware"

	_ "agir-planning/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             50 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := apperrors.StatusCode(err)
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d routes\n", len(routes))
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// StartImportWatchdog runs the stale-import sweep for as long as the
// process lives.
func StartImportWatchdog(lc fx.Lifecycle, nexoService nexo.NexoService) {
	var watchdog *cron.Cron
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			watchdog = nexoService.StartWatchdog()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if watchdog != nil {
				<-watchdog.Stop().Done()
			}
			return nil
		},
	})
}

// @title           AGIR Planning API
// @version         1.0
// @description     Municipal work-planning API with the Nexo import reconciliation pipeline.

// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			// Repositories
			audit.NewAuditRepository,
			taxonomy.NewTaxonomyRepository,
			document.NewDocumentRepository,
			intervention.NewInterventionRepository,
			project.NewProjectRepository,
			annualprogram.NewAnnualProgramRepository,
			programbook.NewProgramBookRepository,
			submission.NewSubmissionRepository,
			nexo.NewImportLogRepository,

			// Services
			audit.NewAuditService,
			taxonomy.NewTaxonomyService,
			document.NewStorageService,
			intervention.NewInterventionService,
			project.NewProjectService,
			annualprogram.NewAnnualProgramService,
			programbook.NewProgramBookService,
			submission.NewSubmissionService,
			nexo.NewNexoService,

			// Import pipeline
			nexo.NewHub,
			nexo.NewMatcher,
			nexo.NewBudgetReconciler,
			nexo.NewRehabMerger,
			nexo.NewImporter,
			func() nexo.GroupKeyFunc { return nexo.DefaultGroupKey },
			func(h *nexo.Hub) nexo.Notifier { return h },

			// Controllers
			audit.NewAuditController,
			taxonomy.NewTaxonomyController,
			document.NewDocumentController,
			intervention.NewInterventionController,
			project.NewProjectController,
			annualprogram.NewAnnualProgramController,
			programbook.NewProgramBookController,
			submission.NewSubmissionController,
			nexo.NewNexoController,

			// API Routes
			AsRoute(audit.NewAuditApi),
			AsRoute(taxonomy.NewTaxonomyApi),
			AsRoute(document.NewDocumentApi),
			AsRoute(intervention.NewInterventionApi),
			AsRoute(project.NewProjectApi),
			AsRoute(annualprogram.NewAnnualProgramApi),
			AsRoute(programbook.NewProgramBookApi),
			AsRoute(submission.NewSubmissionApi),
			AsRoute(nexo.NewNexoApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartImportWatchdog,
		),
	)

	app.Run()
}
