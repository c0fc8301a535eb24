package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/vet-scheduler/internal/audit"
	"github.com/BruksfildServices01/vet-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/vet-scheduler/internal/db"
	domain "github.com/BruksfildServices01/vet-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/vet-scheduler/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/vet-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/vet-scheduler/internal/logger"
	"github.com/BruksfildServices01/vet-scheduler/internal/routes"
	"github.com/BruksfildServices01/vet-scheduler/internal/timezone"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// STORAGE
	// ======================================================
	var (
		repo        domain.Repository
		auditStore  audit.Store
		auditReader audit.Reader
	)

	switch cfg.Storage {
	case config.StorageMemory:
		mem := infraRepo.NewMemoryRepository()
		repo, auditStore, auditReader = mem, mem, mem
		log.Warn("using in-memory storage; data is lost on restart")
	default:
		db, err := dbpkg.NewDB(cfg)
		if err != nil {
			return err
		}
		auditRepo := infraRepo.NewAuditGormRepository(db)
		repo = infraRepo.NewAppointmentGormRepository(db)
		auditStore, auditReader = auditRepo, auditRepo
	}

	// ======================================================
	// LOCKING
	// ======================================================
	var locker lock.Locker = lock.NewLocalLocker(cfg.LockWait)
	if cfg.RedisURL != "" {
		client, err := lock.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		locker = lock.NewRedisLocker(client, cfg.LockTTL, cfg.LockWait, log)
	}

	dispatcher := audit.NewDispatcher(audit.New(auditStore), log)

	r, err := routes.NewRouter(routes.Deps{
		Repo:        repo,
		AuditReader: auditReader,
		Audit:       dispatcher,
		Locker:      locker,
		Location:    timezone.Location(cfg.Timezone),
		Log:         log,
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", slog.String("addr", cfg.Addr()), slog.String("storage", cfg.Storage))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return dispatcher.Close(shutdownCtx)
}
