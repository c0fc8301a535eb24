package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/vet-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/vet-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/vet-scheduler/internal/handlers"
	"github.com/BruksfildServices01/vet-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/vet-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/vet-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/vet-scheduler/internal/validators"
)

type Deps struct {
	Repo        domain.Repository
	AuditReader audit.Reader
	Audit       *audit.Dispatcher
	Locker      lock.Locker
	Location    *time.Location
	Log         *slog.Logger
	JWTSecret   string
	CORSOrigins []string
}

// NewRouter builds the engine with global middleware, health and API routes.
func NewRouter(deps Deps) (*gin.Engine, error) {
	if err := validators.RegisterBindings(); err != nil {
		return nil, err
	}

	r := gin.New()

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Log))
	r.Use(middleware.Recovery(deps.Log))
	r.Use(middleware.CORSMiddleware(deps.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	RegisterRoutes(r, deps)
	return r, nil
}

func RegisterRoutes(r *gin.Engine, deps Deps) {

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		deps.Repo,
		deps.Locker,
		deps.Audit,
		deps.Location,
	)

	listUserAppointmentsUC := ucAppointment.NewListUserAppointments(
		deps.Repo,
	)

	updateAppointmentUC := ucAppointment.NewUpdateAppointment(
		deps.Repo,
		deps.Audit,
		deps.Location,
		deps.Log,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		deps.Repo,
		deps.Audit,
	)

	completeAppointmentUC := ucAppointment.NewCompleteAppointment(
		deps.Repo,
		deps.Audit,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		listUserAppointmentsUC,
		updateAppointmentUC,
		cancelAppointmentUC,
		completeAppointmentUC,
		deps.Log,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(deps.AuditReader)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/")
	api.Use(middleware.AuthMiddleware(deps.JWTSecret))
	{
		api.POST("/createAppointment", appointmentHandler.Create)
		api.GET("/citasUsuario/:uid", middleware.ValidateIDParam("uid"), appointmentHandler.ListByUser)
		api.PUT("/modificarCita", appointmentHandler.Update)
		api.PUT("/cancelarCita/:uid", middleware.ValidateIDParam("uid"), appointmentHandler.Cancel)
		api.PUT("/completarCita/:uid", middleware.ValidateIDParam("uid"), appointmentHandler.Complete)

		api.GET("/auditoria", auditLogsHandler.List)
	}
}
