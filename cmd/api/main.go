package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mediguard/mediguard/internal/config"
	"github.com/mediguard/mediguard/internal/extract"
	v1 "github.com/mediguard/mediguard/internal/handler/v1"
	"github.com/mediguard/mediguard/internal/repository"
	"github.com/mediguard/mediguard/internal/scheduler"
	"github.com/mediguard/mediguard/internal/service"
	"github.com/mediguard/mediguard/pkg/auth"
	"github.com/mediguard/mediguard/pkg/database"
	"github.com/mediguard/mediguard/pkg/logger"
	"github.com/mediguard/mediguard/pkg/metrics"
	"github.com/mediguard/mediguard/pkg/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("loading config: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("initializing logger: " + err.Error())
	}
	defer log.Sync() //nolint:errcheck

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if cfg.Tracing.Enabled {
		tp, err := tracer.Init(cfg.Tracing)
		if err != nil {
			return err
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Warn("tracer shutdown", zap.Error(err))
			}
		}()
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Upload.Dir, 0o750); err != nil {
		return err
	}

	collector := metrics.NewCollector(cfg.App.Name)
	jwtManager := auth.NewJWTManager(cfg.JWT)

	userRepo := repository.NewUserRepository(db)
	prescriptionRepo := repository.NewPrescriptionRepository(db)
	medicineRepo := repository.NewMedicineRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	authenticityRepo := repository.NewAuthenticityRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	sched := scheduler.New(
		&meteredNotifier{next: scheduler.NewLogNotifier(log), collector: collector},
		log, cfg.Scheduler.TickInterval, cfg.Scheduler.ShutdownTimeout,
	)
	sched.Start()
	defer sched.Stop()

	auditSvc := service.NewAuditService(auditRepo, collector, log)
	defer auditSvc.Shutdown()

	authSvc := service.NewAuthService(userRepo, jwtManager, auditSvc, log)
	prescriptionSvc := service.NewPrescriptionService(
		prescriptionRepo, medicineRepo, reminderRepo,
		extract.NewOCR(), sched, auditSvc, collector, log,
	)
	medicineSvc := service.NewMedicineService(medicineRepo, reminderRepo, sched, auditSvc, collector, log)
	verificationSvc := service.NewVerificationService(
		authenticityRepo, medicineRepo, extract.NewBarcodeDecoder(),
		auditSvc, collector, log,
	)
	reminderSvc := service.NewReminderService(reminderRepo, medicineRepo, sched, auditSvc, collector, log)
	dashboardSvc := service.NewDashboardService(prescriptionRepo, medicineRepo, reminderRepo, log)

	// Jobs for persisted pending reminders must be back in the table before
	// the server starts taking writes.
	if err := reminderSvc.RecoverPending(context.Background()); err != nil {
		return err
	}

	router := v1.NewRouter(cfg, v1.Services{
		Auth:         authSvc,
		Prescription: prescriptionSvc,
		Medicine:     medicineSvc,
		Verification: verificationSvc,
		Reminder:     reminderSvc,
		Dashboard:    dashboardSvc,
	}, jwtManager, collector)

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
		)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
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
		return err
	}

	log.Info("server stopped")
	return nil
}

// meteredNotifier counts fired reminders on top of the wrapped notifier.
type meteredNotifier struct {
	next      scheduler.Notifier
	collector *metrics.Collector
}

func (n *meteredNotifier) Notify(ctx context.Context, e scheduler.Event) error {
	n.collector.RemindersFired.Inc()
	return n.next.Notify(ctx, e)
}
