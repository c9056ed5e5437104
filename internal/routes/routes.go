package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-api/internal/audit"
	"github.com/BruksfildServices01/booking-api/internal/config"
	"github.com/BruksfildServices01/booking-api/internal/events"
	"github.com/BruksfildServices01/booking-api/internal/handlers"
	infraRepo "github.com/BruksfildServices01/booking-api/internal/infra/repository"
	"github.com/BruksfildServices01/booking-api/internal/middleware"
	"github.com/BruksfildServices01/booking-api/internal/monitoring"
	"github.com/BruksfildServices01/booking-api/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/booking-api/internal/usecase/appointment"
	"github.com/BruksfildServices01/booking-api/internal/usecase/availability"
	ucNotification "github.com/BruksfildServices01/booking-api/internal/usecase/notification"
)

// Deps are the process-wide collaborators built in main. Nil publishers,
// gateway and limiter disable the matching feature.
type Deps struct {
	Log                logrus.FieldLogger
	Audit              audit.Recorder
	AppointmentEvents  events.AppointmentPublisher
	NotificationEvents events.NotificationPublisher
	Gateway            ucAppointment.PaymentGateway
	Limiter            middleware.Limiter
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps Deps) {
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(deps.Log),
		middleware.PrometheusMetrics(),
		middleware.ErrorReporter(),
		middleware.CORSMiddleware(cfg),
	)

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	loc := timezone.Location(cfg.Timezone)

	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	availabilityRepo := infraRepo.NewAvailabilityGormRepository(db)
	notificationRepo := infraRepo.NewNotificationGormRepository(db)

	appointmentEvents := deps.AppointmentEvents
	if appointmentEvents == nil {
		appointmentEvents = events.Noop{}
	}

	// ======================================================
	// USE CASES
	// ======================================================
	notifier := ucNotification.NewDispatcher(notificationRepo, deps.NotificationEvents, deps.Log)
	checker := availability.NewChecker(appointmentRepo, loc)
	windows := availability.NewWindows(availabilityRepo, deps.Audit, deps.Log)

	fx := ucAppointment.Effects{
		Notifier: notifier,
		Audit:    deps.Audit,
		Events:   appointmentEvents,
		Log:      deps.Log,
	}

	createAppointmentUC := ucAppointment.NewCreateAppointment(appointmentRepo, checker, fx)
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)
	updateStatusUC := ucAppointment.NewUpdateStatus(appointmentRepo, fx)
	submitReviewUC := ucAppointment.NewSubmitReview(appointmentRepo, fx)
	processPaymentUC := ucAppointment.NewProcessPayment(appointmentRepo, deps.Gateway, fx)
	confirmPaymentUC := ucAppointment.NewConfirmPayment(appointmentRepo, deps.Gateway, fx)

	// ======================================================
	// HANDLERS
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		listAppointmentsUC,
		updateStatusUC,
		submitReviewUC,
		processPaymentUC,
		loc,
	)
	availabilityHandler := handlers.NewAvailabilityHandler(windows, checker, loc)
	notificationHandler := handlers.NewNotificationHandler(notifier)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, loc)
	paymentWebhookHandler := handlers.NewPaymentWebhookHandler(confirmPaymentUC)
	healthHandler := handlers.NewHealthHandler(db)

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(monitoring.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/employers/:id/availabilities", availabilityHandler.List)
		api.GET("/employers/:id/availability", availabilityHandler.Check)
		api.POST("/payments/mercadopago/webhook", paymentWebhookHandler.MercadoPago)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			appointments := secured.Group("/appointments")
			{
				appointments.POST("", middleware.RateLimit(deps.Limiter, deps.Log), appointmentHandler.Create)
				appointments.GET("", appointmentHandler.List)
				appointments.PATCH("/:id/status", appointmentHandler.UpdateStatus)
				appointments.POST("/:id/review", appointmentHandler.Review)
				appointments.POST("/:id/payment", middleware.RateLimit(deps.Limiter, deps.Log), appointmentHandler.Payment)
			}

			secured.POST("/me/availabilities", availabilityHandler.Add)
			secured.PATCH("/me/availabilities/:id", availabilityHandler.Update)
			secured.DELETE("/me/availabilities/:id", availabilityHandler.Remove)

			secured.GET("/me/audit-logs", auditLogsHandler.List)

			notifications := secured.Group("/notifications")
			{
				notifications.GET("", notificationHandler.List)
				notifications.GET("/unread-count", notificationHandler.UnreadCount)
				notifications.POST("/:id/read", notificationHandler.MarkRead)
			}
		}
	}
}
