package handler

import (
	"feedmill-production/internal/metrics"
	"feedmill-production/internal/middleware"
	"feedmill-production/internal/model"
	"feedmill-production/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handlers struct {
	Batch   *BatchHandler
	Cost    *CostHandler
	Formula *FormulaHandler
	Stock   *StockHandler
	Unit    *UnitHandler
}

type RouterOptions struct {
	Tokens      *jwt.Manager
	Logger      *zap.Logger
	CORSOrigins string
}

// NewApp builds the Fiber app with middleware and the /api/v1 routes.
// The WebSocket endpoint is mounted separately by the caller.
func NewApp(h Handlers, opts RouterOptions) *fiber.App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.CORSOrigins == "" {
		opts.CORSOrigins = "*"
	}

	app := fiber.New(fiber.Config{
		AppName:               "Feedmill Production v1.0",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(opts.Logger))
	app.Use(metrics.Middleware())
	app.Use(cors.New(cors.Config{AllowOrigins: opts.CORSOrigins}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1", middleware.RequireAuth(opts.Tokens))

	view := middleware.RequirePrivilege(model.PrivilegeProductionView)
	create := middleware.RequirePrivilege(model.PrivilegeProductionCreate)
	execute := middleware.RequirePrivilege(model.PrivilegeProductionExecute)
	complete := middleware.RequirePrivilege(model.PrivilegeProductionComplete)

	// Formula, stock & traceability routes
	api.Get("/formulas", view, h.Formula.GetFormulas)
	api.Get("/formulas/:id/availability", view, h.Formula.GetAvailability)
	api.Get("/stock", view, h.Stock.GetStock)
	api.Get("/stock/:materialId/movements", view, h.Stock.GetMovements)
	api.Get("/units/:serial", view, h.Unit.GetUnit)

	// Batch routes
	api.Get("/batches", view, h.Batch.GetBatches)
	api.Post("/batches", create, h.Batch.CreateBatch)
	api.Get("/batches/:id", view, h.Batch.GetBatch)
	api.Get("/batches/:id/cost", view, h.Cost.GetBatchCost)
	api.Post("/batches/:id/start", execute, h.Batch.StartBatch)
	api.Post("/batches/:id/pause", execute, h.Batch.PauseBatch)
	api.Post("/batches/:id/resume", execute, h.Batch.ResumeBatch)
	api.Post("/batches/:id/complete", complete, h.Batch.CompleteBatch)
	api.Post("/batches/:id/cancel",
		middleware.RequireAnyPrivilege(model.PrivilegeProductionCreate, model.PrivilegeProductionComplete),
		h.Batch.CancelBatch)

	return app
}
