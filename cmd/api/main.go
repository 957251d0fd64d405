package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/mit-motorsports/purchasing-api/internal/application/approval"
	"github.com/mit-motorsports/purchasing-api/internal/application/auth"
	"github.com/mit-motorsports/purchasing-api/internal/application/fulfillment"
	"github.com/mit-motorsports/purchasing-api/internal/application/purchase"
	"github.com/mit-motorsports/purchasing-api/internal/infrastructure/directory"
	"github.com/mit-motorsports/purchasing-api/internal/infrastructure/email"
	infrapdf "github.com/mit-motorsports/purchasing-api/internal/infrastructure/pdf"
	"github.com/mit-motorsports/purchasing-api/internal/infrastructure/postgres"
	"github.com/mit-motorsports/purchasing-api/internal/infrastructure/storage"
	httpRouter "github.com/mit-motorsports/purchasing-api/internal/interfaces/http"
	"github.com/mit-motorsports/purchasing-api/pkg/config"
	"github.com/mit-motorsports/purchasing-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	threshold, err := decimal.NewFromString(cfg.Approval.ExecThreshold)
	if err != nil {
		log.Fatal().Err(err).Str("value", cfg.Approval.ExecThreshold).Msg("invalid executive threshold")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	dir, err := directory.Load(cfg.App.DirectoryFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.App.DirectoryFile).Msg("load approved-email allowlist")
	}

	files, err := storage.NewLocalStore(cfg.Upload)
	if err != nil {
		log.Fatal().Err(err).Msg("upload storage")
	}

	userRepo := postgres.NewUserRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	mailer := email.NewMailer(cfg.SMTP, log)
	sheets := infrapdf.NewOrderSheetRenderer("MIT Motorsports")

	authUC := auth.NewUseCase(userRepo, dir, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	approvalUC := approval.NewUseCase(txRunner, purchaseRepo, userRepo, mailer, threshold, log)
	fulfillmentUC := fulfillment.NewUseCase(txRunner, files, mailer, threshold, log)
	purchaseUC := purchase.NewUseCase(purchaseRepo, sheets, threshold)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Purchasing API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ApprovalUC:    approvalUC,
		FulfillmentUC: fulfillmentUC,
		PurchaseUC:    purchaseUC,
		Files:         files,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
