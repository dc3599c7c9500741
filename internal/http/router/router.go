package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fremdrift-as/inquiry-api/internal/auth"
	"github.com/fremdrift-as/inquiry-api/internal/config"
	"github.com/fremdrift-as/inquiry-api/internal/database"
	"github.com/fremdrift-as/inquiry-api/internal/http/handler"
	"github.com/fremdrift-as/inquiry-api/internal/http/middleware"

	_ "github.com/fremdrift-as/inquiry-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                   *config.Config
	logger                *zap.Logger
	db                    *gorm.DB
	authMiddleware        *auth.Middleware
	rateLimiter           *middleware.RateLimiter
	inquiryHandler        *handler.InquiryHandler
	recommendationHandler *handler.RecommendationHandler
	contactHandler        *handler.ContactHandler
	calendarHandler       *handler.CalendarHandler
	userHandler           *handler.UserHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	inquiryHandler *handler.InquiryHandler,
	recommendationHandler *handler.RecommendationHandler,
	contactHandler *handler.ContactHandler,
	calendarHandler *handler.CalendarHandler,
	userHandler *handler.UserHandler,
) *Router {
	return &Router{
		cfg:                   cfg,
		logger:                logger,
		db:                    db,
		authMiddleware:        authMiddleware,
		rateLimiter:           rateLimiter,
		inquiryHandler:        inquiryHandler,
		recommendationHandler: recommendationHandler,
		contactHandler:        contactHandler,
		calendarHandler:       calendarHandler,
		userHandler:           userHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
				"max_idle_closed":      stats.MaxIdleClosed,
				"max_lifetime_closed":  stats.MaxLifetimeClosed,
			},
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		// Check database
		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.With(rt.rateLimiter.LimitPublicForm).Post("/inquiries", rt.inquiryHandler.Create)

		r.Post("/users/register", rt.userHandler.Register)
		r.Post("/users/login", rt.userHandler.Login)
		r.Post("/users/verify-email", rt.userHandler.VerifyEmail)
		r.Post("/users/request-password-reset", rt.userHandler.RequestPasswordReset)
		r.Post("/users/reset-password", rt.userHandler.ResetPassword)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			// Users
			r.Post("/users/logout", rt.userHandler.Logout)
			r.Get("/users/me", rt.userHandler.GetProfile)
			r.Patch("/users/me", rt.userHandler.UpdateProfile)
			r.Delete("/users/me", rt.userHandler.DeleteAccount)
			r.Get("/users/admins", rt.userHandler.ListAdmins)

			// Inquiries
			r.Route("/inquiries", func(r chi.Router) {
				r.Get("/", rt.inquiryHandler.List)
				r.Get("/{id}", rt.inquiryHandler.GetByID)
				r.Get("/{id}/attachment", rt.inquiryHandler.DownloadAttachment)

				// Mutations require the admin role
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireAdmin)

					r.Patch("/{id}", rt.inquiryHandler.Update)
					r.Delete("/{id}", rt.inquiryHandler.Delete)

					// Lifecycle
					r.Post("/{id}/archive", rt.inquiryHandler.Archive)
					r.Post("/{id}/restore", rt.inquiryHandler.Restore)
					r.Post("/{id}/assign", rt.inquiryHandler.Assign)
					r.Patch("/{id}/status", rt.inquiryHandler.UpdateStatus)

					// Comments
					r.Post("/{id}/comments", rt.inquiryHandler.AddComment)
					r.Patch("/{id}/comments/{commentId}", rt.inquiryHandler.EditComment)
					r.Delete("/{id}/comments/{commentId}", rt.inquiryHandler.DeleteComment)

					// Tags
					r.Post("/{id}/tags", rt.inquiryHandler.AddTag)
					r.Post("/{id}/tags/bulk", rt.inquiryHandler.AddTags)
					r.Delete("/{id}/tags", rt.inquiryHandler.RemoveTags)
					r.Delete("/{id}/tags/{tag}", rt.inquiryHandler.RemoveTag)

					// Attachment
					r.Post("/{id}/attachment", rt.inquiryHandler.UploadAttachment)
				})
			})

			// Recommendations
			r.With(rt.authMiddleware.RequireAdmin).
				Get("/recommendations/{inquiryId}", rt.recommendationHandler.Recommend)

			// Contacts
			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", rt.contactHandler.List)
				r.Post("/", rt.contactHandler.Create)
				r.Get("/search", rt.contactHandler.Search)
				r.Get("/{id}", rt.contactHandler.GetByID)
				r.Patch("/{id}", rt.contactHandler.Update)
				r.Delete("/{id}", rt.contactHandler.Delete)
			})

			// Calendar
			r.Route("/calendar", func(r chi.Router) {
				r.Get("/", rt.calendarHandler.List)
				r.Post("/", rt.calendarHandler.Create)
				r.Get("/day", rt.calendarHandler.ByDay)
				r.Get("/week", rt.calendarHandler.ByWeek)
				r.Get("/month", rt.calendarHandler.ByMonth)
				r.Get("/{id}", rt.calendarHandler.GetByID)

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireAdmin)

					r.Patch("/{id}", rt.calendarHandler.Update)
					r.Delete("/{id}", rt.calendarHandler.Delete)
				})
			})
		})
	})

	return r
}
