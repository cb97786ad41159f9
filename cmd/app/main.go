// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"institute-backend/internal/config"
	"institute-backend/internal/domain/model"
	pg "institute-backend/internal/infra/db/postgres"
	"institute-backend/internal/infra/logging"
	"institute-backend/internal/infra/metrics"
	"institute-backend/internal/infra/payment"
	red "institute-backend/internal/infra/redis"
	"institute-backend/internal/infra/web"
	"institute-backend/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logging, relaxed cookies)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	userRepo := pg.NewUserRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	payRepo := pg.NewPaymentRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Plan catalog ----
	catalog := model.DefaultCatalog()
	if len(cfg.Plans) > 0 {
		plans := make([]model.Plan, 0, len(cfg.Plans))
		for _, p := range cfg.Plans {
			plans = append(plans, model.Plan{
				ID:        p.Name,
				PriceINR:  p.PriceINR,
				AddDays:   p.DurationDays,
				AddMonths: p.DurationMonths,
			})
		}
		catalog = model.NewCatalog(plans)
	}

	// ---- Payment gateway ----
	gateway, err := payment.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.Timeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("razorpay gateway")
	}
	verifier, err := payment.NewSignatureVerifier(cfg.Razorpay.KeySecret)
	if err != nil {
		logger.Fatal().Err(err).Msg("signature verifier")
	}

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo, logger)
	subUC := usecase.NewSubscriptionUseCase(subRepo, userRepo, logger)
	checkoutUC := usecase.NewCheckoutUseCase(catalog, gateway, verifier, subRepo, payRepo, userRepo, txManager, locker, logger)
	statsUC := usecase.NewStatsUseCase(userRepo, subRepo, payRepo, logger)

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.SecureCookie && !cfg.Runtime.Dev, cfg.Auth.CookieDomain, cfg.Auth.SessionTTL)
	srv := web.NewServer(checkoutUC, subUC, userUC, statsUC, auth, rateLimiter, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
