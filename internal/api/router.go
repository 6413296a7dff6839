package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/mindcare-be/internal/api/handlers"
	"github.com/isdelr/mindcare-be/internal/auth"
	"github.com/isdelr/mindcare-be/internal/models"
	"github.com/isdelr/mindcare-be/internal/monitoring"
	"github.com/isdelr/mindcare-be/internal/services"
	"github.com/isdelr/mindcare-be/internal/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Hub            *websocket.Hub
	Auth           *auth.Authenticator
	Users          services.UserServiceProvider
	Resources      services.ResourceServiceProvider
	Appointments   services.AppointmentServiceProvider
	Forum          services.ForumServiceProvider
	Dashboards     services.DashboardServiceProvider
	Events         services.EventServiceProvider
	Assistant      handlers.Assistant
	Health         *monitoring.HealthChecker
	AllowedOrigins []string
	ChatRatePerMin int
	Now            func() time.Time // Defaults to time.Now
}

// NewRouter creates and configures a new Chi router.
func NewRouter(d Deps) *chi.Mux {
	if d.Now == nil {
		d.Now = time.Now
	}

	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(Metrics)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(d.Auth)
	navHandler := handlers.NewNavigationHandler()
	userHandler := handlers.NewUserHandler(d.Users)
	resourceHandler := handlers.NewResourceHandler(d.Resources)
	appointmentHandler := handlers.NewAppointmentHandler(d.Appointments, d.Now)
	forumHandler := handlers.NewForumHandler(d.Forum)
	dashboardHandler := handlers.NewDashboardHandler(d.Dashboards, d.Now)
	eventHandler := handlers.NewEventHandler(d.Events)
	assistantHandler := handlers.NewAssistantHandler(d.Assistant)
	healthHandler := handlers.NewHealthHandler(d.Health)
	wsHandler := handlers.NewWebSocketHandler(d.Hub, d.AllowedOrigins)
	chatLimiter := NewRateLimiter(d.ChatRatePerMin)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(d.Auth.LoadSession)

		r.Get("/health", healthHandler.Get)
		r.Get("/ws", wsHandler.Serve)
		r.Get("/users", userHandler.GetAll)
		r.Get("/navigation", navHandler.Resolve)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", sessionHandler.Get)
			r.Post("/", sessionHandler.Login)
			r.Delete("/", sessionHandler.Logout)
		})

		// Any signed-in role
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireSignedIn)

			r.Get("/users/{id}", userHandler.Get)
			r.Get("/resources", resourceHandler.List)
			r.Get("/resources/facets", resourceHandler.Facets)
			r.Get("/events", eventHandler.GetRecent)

			r.Route("/forum", func(r chi.Router) {
				r.Get("/", forumHandler.List)
				r.Post("/", forumHandler.Create)
				r.Post("/{id}/replies", forumHandler.Reply)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleStudent))

			r.Get("/student/dashboard", dashboardHandler.Student)
			r.Get("/student/booking-options", appointmentHandler.BookingOptions)
			r.Post("/appointments", appointmentHandler.Book)
			r.Get("/appointments/mine", appointmentHandler.Mine)
			r.Get("/assistant/topics", assistantHandler.Topics)
			r.With(chatLimiter.Limit).Post("/assistant/chat", assistantHandler.Chat)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleCounselor))

			r.Get("/counselor/dashboard", dashboardHandler.Counselor)
			r.Get("/counselor/bookings", appointmentHandler.Bookings)
			r.Post("/appointments/{id}/action", appointmentHandler.Act)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin))

			r.Get("/admin/dashboard", dashboardHandler.Admin)
			r.Get("/admin/counselors", dashboardHandler.Counselors)
			r.Get("/admin/resources/library", resourceHandler.Library)
			r.Post("/resources", resourceHandler.Create)
			r.Delete("/resources/{id}", resourceHandler.Delete)
			r.Patch("/appointments/{id}", appointmentHandler.Patch)
		})
	})

	return r
}
