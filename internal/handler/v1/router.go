package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mediguard/mediguard/internal/config"
	"github.com/mediguard/mediguard/internal/service"
	"github.com/mediguard/mediguard/pkg/auth"
	"github.com/mediguard/mediguard/pkg/metrics"
)

// Services bundles everything the router wires handlers to.
type Services struct {
	Auth         *service.AuthService
	Prescription *service.PrescriptionService
	Medicine     *service.MedicineService
	Verification *service.VerificationService
	Reminder     *service.ReminderService
	Dashboard    *service.DashboardService
}

func NewRouter(cfg *config.Config, svcs Services, jwtManager *auth.JWTManager, collector *metrics.Collector) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Metrics(collector))
	r.MaxMultipartMemory = cfg.Upload.MaxSizeBytes

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	authHandler := NewAuthHandler(svcs.Auth)
	prescriptionHandler := NewPrescriptionHandler(svcs.Prescription, cfg.Upload)
	medicineHandler := NewMedicineHandler(svcs.Medicine)
	verifyHandler := NewVerifyHandler(svcs.Verification, cfg.Upload)
	reminderHandler := NewReminderHandler(svcs.Reminder)
	dashboardHandler := NewDashboardHandler(svcs.Dashboard)

	api := r.Group("/api/v1")

	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	protected := api.Group("", Authenticate(jwtManager))
	{
		protected.GET("/dashboard", dashboardHandler.Summary)

		protected.POST("/prescriptions/extract", prescriptionHandler.Extract)
		protected.POST("/prescriptions", prescriptionHandler.Save)
		protected.GET("/prescriptions", prescriptionHandler.List)
		protected.GET("/prescriptions/:id", prescriptionHandler.Get)
		protected.DELETE("/prescriptions/:id", prescriptionHandler.Delete)

		protected.GET("/medicines", medicineHandler.List)
		protected.PUT("/medicines/:id", medicineHandler.Update)
		protected.DELETE("/medicines/:id", medicineHandler.Delete)

		protected.POST("/verify", verifyHandler.Verify)
		protected.GET("/verify/history", verifyHandler.History)

		protected.GET("/reminders", reminderHandler.List)
		protected.GET("/reminders/upcoming", reminderHandler.Upcoming)
		protected.POST("/reminders/:id/taken", reminderHandler.MarkTaken)
		protected.POST("/reminders/:id/skip", reminderHandler.Skip)
	}

	return r
}
