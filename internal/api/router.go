package api

import (
	"errors"

	"finance-tracker/docs"
	"finance-tracker/internal/api/handlers"
	"finance-tracker/internal/dto"
	"finance-tracker/pkg/config"
	"finance-tracker/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func SetupRouter(
	txHandler *handlers.TransactionHandler,
	cfg *config.Config,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "finance-tracker",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(dto.Fail(err.Error()))
		},
	})

	// Middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(appLogger))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		// empty AllowHeaders echoes Access-Control-Request-Headers
		AllowHeaders: "",
	}))

	_ = docs.SwaggerInfo // registers the swagger document
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(dto.OK(fiber.Map{"status": "ok"}))
	})

	// Single-endpoint API kept for existing clients
	app.Get("/api", txHandler.QueryAction)
	app.Post("/api", txHandler.CommandAction)

	v1 := app.Group("/api/v1")

	transactions := v1.Group("/transactions")
	transactions.Get("", txHandler.ListTransactions)
	transactions.Post("", txHandler.CreateTransaction)
	transactions.Get("/stats", txHandler.GetStatistics)
	transactions.Get("/export", txHandler.ExportTransactions)
	transactions.Get("/:id", txHandler.GetTransaction)
	transactions.Put("/:id", txHandler.UpdateTransaction)
	transactions.Delete("/:id", txHandler.DeleteTransaction)

	return app
}
