package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/spa-scheduler/internal/audit"
	"github.com/BruksfildServices01/spa-scheduler/internal/config"
	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/spa-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/spa-scheduler/internal/metrics"
	"github.com/BruksfildServices01/spa-scheduler/internal/middleware"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/spa-scheduler/internal/usecase/appointment"
	ucBooking "github.com/BruksfildServices01/spa-scheduler/internal/usecase/booking"
	ucCourse "github.com/BruksfildServices01/spa-scheduler/internal/usecase/course"
	ucPromotion "github.com/BruksfildServices01/spa-scheduler/internal/usecase/promotion"
)

// Deps are the process-wide singletons built in main.
type Deps struct {
	DB      *gorm.DB
	Config  *config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics
	Audit   *audit.Dispatcher

	// Idempotency may be nil when Redis is not configured.
	Idempotency handlers.IdempotencyStore
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware(d.Config.CORSOrigins))

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	loc := timezone.Location(cfg.Timezone)
	clock := timezone.LocationClock{Loc: loc}

	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	bookingRepo := infraRepo.NewBookingGormRepository(d.DB)
	courseRepo := infraRepo.NewCourseGormRepository(d.DB)

	openAt, err := timezone.ParseClock(cfg.OpenTime)
	if err != nil {
		d.Log.Fatal("invalid SPA_OPEN", zap.Error(err))
	}
	closeAt, err := timezone.ParseClock(cfg.CloseTime)
	if err != nil || closeAt <= openAt {
		d.Log.Fatal("invalid SPA_CLOSE", zap.String("close", cfg.CloseTime))
	}
	spaHours := domain.Window{Open: openAt, Close: closeAt}

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(
		bookingRepo,
		d.Audit,
		d.Metrics,
		d.Log.Named("booking"),
		clock,
		ucBooking.Options{
			Location:         loc,
			CourseExpiryDays: cfg.CourseExpiryDays,
		},
	)

	confirmUC := ucAppointment.NewConfirmAppointment(appointmentRepo, d.Audit, clock)
	startUC := ucAppointment.NewStartAppointment(appointmentRepo, d.Audit, clock)
	completeUC := ucAppointment.NewCompleteAppointment(appointmentRepo, d.Audit, clock)
	cancelUC := ucAppointment.NewCancelAppointment(appointmentRepo, d.Audit, clock)
	updateNotesUC := ucAppointment.NewUpdateNotes(appointmentRepo, d.Audit)
	listByDateUC := ucAppointment.NewListAppointmentsByDate(appointmentRepo)
	listByMonthUC := ucAppointment.NewListAppointmentsByMonth(appointmentRepo, loc)
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, clock, spaHours, cfg.SlotStepMin)

	getCourseUC := ucCourse.NewGetCourse(courseRepo)
	bookSessionUC := ucCourse.NewBookSession(courseRepo, d.Audit, d.Log.Named("course"), clock, loc)

	quoteUC := ucPromotion.NewQuotePromotion(bookingRepo, d.Metrics, clock, loc)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	meHandler := handlers.NewMeHandler(d.DB)
	workingHoursHandler := handlers.NewWorkingHoursHandler(d.DB, d.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, loc)
	publicHandler := handlers.NewPublicHandler(d.DB, availabilityUC, loc)

	bookingHandler := handlers.NewBookingHandler(createBookingUC, d.Idempotency, d.Log.Named("http"))
	appointmentHandler := handlers.NewAppointmentHandler(
		confirmUC,
		startUC,
		completeUC,
		cancelUC,
		updateNotesUC,
		listByDateUC,
		listByMonthUC,
		loc,
	)
	courseHandler := handlers.NewCourseHandler(getCourseUC, bookSessionUC)
	promotionHandler := handlers.NewPromotionHandler(quoteUC)

	// ======================================================
	// 📈 METRICS
	// ======================================================
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{
		Timeout: 5 * time.Second,
	})))

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/availability", publicHandler.Availability)
		}

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/redemptions", meHandler.MyRedemptions)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.POST("/bookings", bookingHandler.Create)
			secured.POST("/promotions/quote", promotionHandler.Quote)

			secured.GET("/courses/:id", courseHandler.Get)
			secured.POST("/courses/:id/sessions/:seq/book", courseHandler.BookSession)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.PATCH("/appointments/:id/notes", appointmentHandler.UpdateNotes)

			staff := secured.Group("/")
			staff.Use(middleware.RequireRole(models.RoleTherapist, models.RoleStaff))
			{
				staff.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
				staff.PATCH("/appointments/:id/start", appointmentHandler.Start)
				staff.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
				staff.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)

				staff.GET("/me/appointments", appointmentHandler.ListByDate)
				staff.GET("/me/appointments/month", appointmentHandler.ListByMonth)

				staff.GET("/me/working-hours", workingHoursHandler.Get)
				staff.PUT("/me/working-hours", workingHoursHandler.Update)
			}

			secured.GET("/audit-logs", middleware.RequireRole(models.RoleStaff), auditLogsHandler.List)
		}
	}
}
