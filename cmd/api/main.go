package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/voucherhub/voucher-platform/internal/auth"
	"github.com/voucherhub/voucher-platform/internal/config"
	"github.com/voucherhub/voucher-platform/internal/handler"
	"github.com/voucherhub/voucher-platform/internal/repository"
	"github.com/voucherhub/voucher-platform/internal/service"
	"github.com/voucherhub/voucher-platform/internal/storage"
	"github.com/voucherhub/voucher-platform/internal/validator"
	"github.com/voucherhub/voucher-platform/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	initLogger(cfg)

	ctx := context.Background()

	// Database pool with startup retry
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	app := fiber.New(fiber.Config{
		AppName:      "Voucher Platform",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    5 * 1024 * 1024, // logo uploads
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())

	validate := validator.New()
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.TTLHours)*time.Hour)
	blobStore := storage.NewLocalStore(cfg.Upload.Dir)

	// Repositories
	campaignRepo := repository.NewCampaignRepository(pool)
	discountRepo := repository.NewDiscountRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)

	// Services
	claimService := service.NewClaimService(pool, campaignRepo, discountRepo, ticketRepo, questionRepo)
	campaignService := service.NewCampaignService(pool, campaignRepo, discountRepo, questionRepo)
	voucherService := service.NewVoucherService(discountRepo, questionRepo)
	statsService := service.NewStatsService(campaignRepo, discountRepo, ticketRepo, questionRepo)

	// Handlers
	campaignHandler := handler.NewCampaignHandler(campaignService, validate, blobStore)
	claimHandler := handler.NewClaimHandler(claimService, validate)
	voucherHandler := handler.NewVoucherHandler(voucherService)
	statsHandler := handler.NewStatsHandler(statsService)
	healthHandler := handler.NewHealthHandler(pool)

	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authed := auth.Middleware(tokenManager)
	company := auth.RequireRoles(auth.RoleCompany, auth.RoleAdmin)
	user := auth.RequireRoles(auth.RoleUser)

	// Campaign routes
	app.Post("/api/campaigns", authed, company, campaignHandler.CreateCampaign)
	app.Patch("/api/campaigns/:id/full", authed, company, campaignHandler.UpdateCampaignFull)
	app.Patch("/api/campaigns/:id/logo", authed, company, campaignHandler.UploadLogo)
	app.Get("/api/campaigns", campaignHandler.ListCampaigns)
	app.Get("/api/campaigns/:id", campaignHandler.GetCampaign)
	app.Get("/api/campaigns/:id/discounts", voucherHandler.ListCampaignDiscounts)
	app.Get("/api/campaigns/:id/discounts/:discountId", voucherHandler.GetCampaignDiscount)

	// Claim routes
	app.Post("/api/campaigns/:id/discounts/:discountId/claim", authed, user, claimHandler.ClaimVoucher)
	app.Get("/api/user-claim", authed, user, claimHandler.ListUserTickets)
	app.Get("/api/user-claim/can-claim", authed, user, claimHandler.CanClaim)
	app.Get("/api/vouchers/me", authed, user, claimHandler.ListUserTickets)

	// Public voucher listing
	app.Get("/api/vouchers", voucherHandler.ListVouchers)

	// Dashboard routes
	app.Get("/api/dashboard/stats", authed, company, statsHandler.Dashboard)
	app.Get("/api/dashboard/discounts/:discountId/weekly", authed, company, statsHandler.WeeklyStats)

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Waits for in-flight requests before closing the pool.
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}
	pool.Close()
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
