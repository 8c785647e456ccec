package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ac-service-backend/internal/auth"
	"github.com/ukydev/ac-service-backend/internal/db"
	"github.com/ukydev/ac-service-backend/internal/events"
	"github.com/ukydev/ac-service-backend/internal/middleware"
	"github.com/ukydev/ac-service-backend/internal/storage"
)

// Dependencies are everything the HTTP layer is wired from
type Dependencies struct {
	AuthService *auth.Service
	Users       db.UserCollection
	Bookings    db.BookingCollection
	Inquiries   db.InquiryCollection
	Reviews     db.ReviewCollection
	AuditLogs   db.AuditLogCollection
	Reports     AnalyticsReports
	Files       PDFStore
	Publisher   events.Publisher
	Auditor     AuditRecorder

	// Optional
	Hub         *events.Hub
	UploadDir   string
	HealthCheck func(ctx context.Context) error

	GeneralLimiter *middleware.RateLimitMiddleware
	AuthLimiter    *middleware.RateLimitMiddleware
	AllowedOrigins []string
	Logger         log.FieldLogger
}

// NewRouter builds the gin engine with every route of the API
func NewRouter(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}

	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	authMW := middleware.NewAuthMiddleware(deps.AuthService, logger)
	requireAuth := authMW.RequireAuth()
	requireAdmin := authMW.RequireAdmin()
	optionalIdentity := authMW.OptionalIdentity()
	if deps.GeneralLimiter == nil {
		deps.GeneralLimiter = middleware.NewRateLimitMiddleware(100, 15*time.Minute, "")
	}
	if deps.AuthLimiter == nil {
		deps.AuthLimiter = middleware.NewRateLimitMiddleware(10, 15*time.Minute, "")
	}
	generalLimit := deps.GeneralLimiter.Handler()
	authLimit := deps.AuthLimiter.Handler()

	authHandler := NewAuthHandler(deps.AuthService, deps.Users, deps.Auditor, logger)
	bookingHandler := NewBookingHandler(deps.Bookings, deps.Publisher, deps.Auditor, logger)
	inquiryHandler := NewInquiryHandler(deps.Inquiries, deps.Files, deps.Publisher, deps.Auditor, logger)
	reviewHandler := NewReviewHandler(deps.Reviews, deps.Bookings, deps.Users, deps.Publisher, logger)
	auditHandler := NewAuditHandler(deps.AuditLogs, deps.Auditor, logger)
	analyticsHandler := NewAnalyticsHandler(deps.Reports, deps.Auditor, logger)

	router.GET("/health", healthHandler(deps.HealthCheck))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if deps.UploadDir != "" {
		router.Static(storage.URLPrefix, deps.UploadDir)
	}

	api := router.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", authLimit, authHandler.Register)
	authRoutes.POST("/login", authLimit, authHandler.Login)
	authRoutes.POST("/logout", requireAuth, authHandler.Logout)
	authRoutes.GET("/user", requireAuth, authHandler.GetProfile)

	bookings := api.Group("/bookings")
	bookings.POST("", generalLimit, optionalIdentity, bookingHandler.CreateBooking)
	bookings.GET("", requireAuth, requireAdmin, bookingHandler.ListBookings)
	bookings.GET("/my-bookings", requireAuth, bookingHandler.ListMyBookings)
	bookings.PATCH("/:id/status", requireAuth, requireAdmin, bookingHandler.UpdateBookingStatus)

	bookings.POST("/corporate-lead", generalLimit, optionalIdentity, inquiryHandler.CreateInquiry)
	bookings.GET("/my-inquiries", requireAuth, inquiryHandler.ListMyInquiries)
	bookings.GET("/inquiries", requireAuth, requireAdmin, inquiryHandler.ListInquiries)
	bookings.PATCH("/inquiries/:id/status", requireAuth, requireAdmin, inquiryHandler.UpdateInquiryStatus)
	bookings.POST("/inquiries/:id/send-quotation", requireAuth, requireAdmin, inquiryHandler.SendQuotation)

	reviews := api.Group("/reviews")
	reviews.POST("", generalLimit, requireAuth, reviewHandler.SubmitReview)
	reviews.GET("", reviewHandler.ListRecentReviews)

	auditLogs := api.Group("/audit-logs", requireAuth, requireAdmin)
	auditLogs.GET("", auditHandler.ListAuditLogs)
	auditLogs.POST("", auditHandler.CreateAuditLog)

	analyticsRoutes := api.Group("/analytics", requireAuth, requireAdmin)
	analyticsRoutes.GET("/revenue", analyticsHandler.Revenue)
	analyticsRoutes.GET("/trends", analyticsHandler.Trends)
	analyticsRoutes.GET("/services", analyticsHandler.Services)
	analyticsRoutes.GET("/dashboard", analyticsHandler.Dashboard)
	analyticsRoutes.GET("/export", analyticsHandler.Export)

	if deps.Hub != nil {
		api.GET("/events/ws", deps.Hub.ServeWs(deps.AuthService))
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", auth.LegacyTokenHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "Retry-After", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
