// Command crm-api serves the Sales CRM HTTP API.
//
// @title                       Sales CRM API
// @version                     1.0
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

//go:generate swag init -g cmd/crm-api/main.go -o docs -d ../../

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/salesdesk/crm-api/docs"
	"github.com/salesdesk/crm-api/internal/api"
	"github.com/salesdesk/crm-api/internal/api/handler"
	"github.com/salesdesk/crm-api/internal/core/service"
	mongodb "github.com/salesdesk/crm-api/internal/infrastructure/db/mongo"
	redisdb "github.com/salesdesk/crm-api/internal/infrastructure/db/redis"
	"github.com/salesdesk/crm-api/internal/infrastructure/http/handlers"
	"github.com/salesdesk/crm-api/internal/infrastructure/queue"
	"github.com/salesdesk/crm-api/internal/pkg/config"
	"github.com/salesdesk/crm-api/pkg/logger"
)

const (
	serviceName = "crm-api"
	version     = "1.0.0"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "crm-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
		Version: version,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	leads := mongodb.NewLeadRepository(db)
	deals := mongodb.NewDealRepository(db)
	activities := mongodb.NewActivityRepository(db)
	accounts := mongodb.NewAccountRepository(db)
	contacts := mongodb.NewContactRepository(db)
	audits := mongodb.NewAuditRepository(db)
	reports := mongodb.NewReportRepository(db)

	if err := mongodb.EnsureIndexes(ctx, users, leads, deals, activities, accounts, contacts, audits); err != nil {
		return err
	}

	idem := redisdb.NewIdempotencyStore(rdb)
	throttle := redisdb.NewLoginThrottle(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockout)

	// --- Audit pipeline ---
	// Workers outlive the signal context so queued events drain after the
	// server stops accepting requests.
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, service.NewAuditService(audits, logger.Component("audit_service")), logger.Component("audit_dispatcher"))
	dispatcher.Start(workerCtx)

	// --- Services ---
	authService := service.NewAuthService(users, throttle, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, logger.Component("auth_service"))
	if _, err := authService.BootstrapAdmin(ctx, cfg.Bootstrap.AdminName, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
		cancelWorkers()
		return err
	}

	h := api.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Leads:      handler.NewLeadHandler(service.NewLeadService(leads, dispatcher, idem, logger.Component("lead_service"))),
		Deals:      handler.NewDealHandler(service.NewDealService(deals, reports, dispatcher, idem, logger.Component("deal_service"))),
		Activities: handler.NewActivityHandler(service.NewActivityService(activities, dispatcher, idem, logger.Component("activity_service"))),
		Accounts:   handler.NewAccountHandler(service.NewAccountService(accounts, dispatcher, idem, logger.Component("account_service"))),
		Contacts:   handler.NewContactHandler(service.NewContactService(contacts, dispatcher, idem, logger.Component("contact_service"))),
		Users:      handler.NewUserHandler(service.NewUserService(users, dispatcher, logger.Component("user_service"))),
		Dashboard:  handler.NewDashboardHandler(service.NewDashboardService(reports, logger.Component("dashboard_service"))),
		Reports:    handler.NewReportHandler(service.NewReportService(reports, users, logger.Component("report_service"))),
		Health:     handlers.NewHealthHandler(version),
		Readiness: handlers.NewReadinessHandler(map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		}),
	}

	e := api.NewRouter(api.RouterConfig{
		CORSAllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AuthRateLimitRPS: cfg.HTTP.RateLimitRPS,
		AuthRateBurst:    cfg.HTTP.RateLimitBurst,
		Swagger:          !cfg.IsProduction(),
	}, h, authService, logger.Component("http"))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	err = serve(ctx, srv, cfg.HTTP.ShutdownTimeout, log)

	cancelWorkers()
	dispatcher.Wait()
	if err != nil {
		return err
	}
	log.Info().Msg("server stopped gracefully")
	return nil
}

// serve runs srv until ctx is cancelled or the listener fails, then shuts it
// down. A listener failure is returned once shutdown has completed.
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, log zerolog.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var failed error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
			failed = fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	return failed
}
