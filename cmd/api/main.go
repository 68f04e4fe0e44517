package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/oncolab/sampletrack/internal/config"
	"github.com/oncolab/sampletrack/internal/domain/sample"
	v1 "github.com/oncolab/sampletrack/internal/handler/v1"
	"github.com/oncolab/sampletrack/internal/repository"
	"github.com/oncolab/sampletrack/internal/service"
	"github.com/oncolab/sampletrack/pkg/auth"
	"github.com/oncolab/sampletrack/pkg/database"
	"github.com/oncolab/sampletrack/pkg/logger"
	"github.com/oncolab/sampletrack/pkg/metrics"
	"github.com/oncolab/sampletrack/pkg/tracer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracer: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	m := metrics.NewCollector("sampletrack")

	var (
		sampleRepo sample.Repository
		userRepo   service.UserRepository
		userAdmin  service.UserAdminRepository
		auditRepo  auditStore
	)
	if cfg.Database.Driver == "memory" {
		if !cfg.Auth.AllowAny {
			return errors.New("DB_DRIVER=memory has no user store; set AUTH_ALLOW_ANY=true")
		}
		sampleRepo = repository.NewMemorySampleRepository()
		auditRepo = repository.NewMemoryAuditRepository()
		log.Warn("running with in-memory storage; data is lost on restart")
	} else {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		if err := database.Migrate(db, log); err != nil {
			return err
		}
		users := repository.NewGormUserRepository(db)
		sampleRepo = repository.NewGormSampleRepository(db)
		userRepo = users
		userAdmin = users
		auditRepo = repository.NewGormAuditRepository(db)
	}

	jwtManager := auth.NewJWTManager(cfg.JWT)
	auditSvc := service.NewAuditService(auditRepo, m, log)
	defer auditSvc.Shutdown()

	sampleSvc := service.NewSampleService(sampleRepo, auditSvc, m, log)
	authSvc := service.NewAuthService(userRepo, jwtManager, auditSvc, cfg.Auth, log)
	userSvc := service.NewUserService(userAdmin, auditSvc, log)

	router := v1.NewRouter(
		v1.NewSampleHandler(sampleSvc, log),
		v1.NewAuthHandler(authSvc, log),
		v1.NewAdminHandler(auditRepo, userSvc, log),
		jwtManager,
		m,
		log,
	)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.App.Environment),
			zap.String("db_driver", cfg.Database.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// auditStore joins the two views of the audit store the wiring hands out:
// the async writer and the admin panel's reader.
type auditStore interface {
	service.AuditRepository
	v1.AuditLister
}
