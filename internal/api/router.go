package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/novalearn/novalearn-server/internal/app"
	iauth "github.com/novalearn/novalearn-server/internal/auth"
	"github.com/novalearn/novalearn-server/internal/handlers"
	"github.com/novalearn/novalearn-server/internal/middleware"
	"github.com/novalearn/novalearn-server/internal/models"
	"github.com/novalearn/novalearn-server/internal/services"
	"github.com/novalearn/novalearn-server/pkg/mail"
	"github.com/novalearn/novalearn-server/pkg/messaging"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config, mailer mail.Mailer, messenger messaging.Messenger) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if mailer == nil {
		return nil, fmt.Errorf("mailer must be provided")
	}
	if messenger == nil {
		return nil, fmt.Errorf("messenger must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())

	// Health endpoint (public)
	r.GET("/health", handlers.Health())

	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	// Services
	tokens, err := services.NewVerificationService(db)
	if err != nil {
		return nil, err
	}
	accounts, err := services.NewAccountService(db, tokens, mailer, kindConfigs(cfg),
		services.WithBaseURL(cfg.Site.BaseURL))
	if err != nil {
		return nil, err
	}
	reminders, err := services.NewReminderService(db, messenger,
		services.WithReminderCountryCode(cfg.Reminders.CountryCode))
	if err != nil {
		return nil, err
	}
	blog, err := services.NewBlogService(db)
	if err != nil {
		return nil, err
	}
	courses, err := services.NewCourseService(db)
	if err != nil {
		return nil, err
	}
	gallery, err := services.NewGalleryService(db)
	if err != nil {
		return nil, err
	}
	portfolio, err := services.NewPortfolioService(db)
	if err != nil {
		return nil, err
	}
	testimonials, err := services.NewTestimonialService(db)
	if err != nil {
		return nil, err
	}
	registrations, err := services.NewRegistrationService(db)
	if err != nil {
		return nil, err
	}
	schedules, err := services.NewScheduleService(db)
	if err != nil {
		return nil, err
	}

	// Handlers
	accountHandler := handlers.NewAccountHandler(accounts)
	authHandler := handlers.NewAuthHandler(accounts, jwt)
	blogHandler := handlers.NewBlogHandler(blog)
	courseHandler := handlers.NewCourseHandler(courses)
	galleryHandler := handlers.NewGalleryHandler(gallery)
	portfolioHandler := handlers.NewPortfolioHandler(portfolio)
	testimonialHandler := handlers.NewTestimonialHandler(testimonials)
	registrationHandler := handlers.NewRegistrationHandler(registrations)
	scheduleHandler := handlers.NewScheduleHandler(schedules)
	reminderHandler := handlers.NewReminderHandler(reminders, cfg.Messaging.Enabled)

	// Public auth routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authHandler.Login)
	}

	// Portal signup lifecycles (public)
	for _, portal := range []struct {
		path string
		kind models.AccountKind
	}{
		{"admin", models.KindAdmin},
		{"franchise", models.KindFranchise},
		{"staff", models.KindStaff},
	} {
		group := r.Group("/api/" + portal.path)
		group.POST("/signup", accountHandler.Signup(portal.kind))
		group.GET("/verify-email", accountHandler.VerifyEmail(portal.kind))
		group.POST("/resend-verification", accountHandler.ResendVerification(portal.kind))
	}

	// Public content routes
	public := r.Group("/api")
	{
		public.GET("/blog", blogHandler.ListPublished)
		public.GET("/blog/:slug", blogHandler.GetBySlug)
		public.GET("/courses", courseHandler.ListPublished)
		public.GET("/gallery", galleryHandler.ListPublished)
		public.GET("/portfolio", portfolioHandler.ListPublished)
		public.GET("/testimonials", testimonialHandler.ListApproved)
		public.POST("/testimonials", testimonialHandler.Create)
		public.POST("/registrations", registrationHandler.Create)
	}

	requireAuth := middleware.Auth(jwt)
	requireAdmin := middleware.RequireAdmin()

	api := r.Group("/api")
	api.Use(requireAuth)

	// Authenticated auth routes
	api.GET("/auth/me", authHandler.Me)

	// Account management
	accountsGroup := api.Group("/accounts", requireAdmin)
	{
		accountsGroup.GET("/:kind", accountHandler.List)
		accountsGroup.POST("/:kind/:id/approve", accountHandler.Approve)
		accountsGroup.POST("/:kind/:id/reject", accountHandler.Reject)
		accountsGroup.POST("/:kind/:id/promote", accountHandler.Promote)
		accountsGroup.DELETE("/:kind/:id", accountHandler.Delete)
	}

	// Content management
	admin := api.Group("", requireAdmin)
	{
		admin.POST("/blog", blogHandler.Create)
		admin.PUT("/blog/:id", blogHandler.Update)
		admin.DELETE("/blog/:id", blogHandler.Delete)

		admin.POST("/courses", courseHandler.Create)
		admin.PUT("/courses/:id", courseHandler.Update)
		admin.DELETE("/courses/:id", courseHandler.Delete)

		admin.POST("/gallery", galleryHandler.Create)
		admin.PUT("/gallery/:id", galleryHandler.Update)
		admin.DELETE("/gallery/:id", galleryHandler.Delete)

		admin.POST("/portfolio", portfolioHandler.Create)
		admin.PUT("/portfolio/:id", portfolioHandler.Update)
		admin.DELETE("/portfolio/:id", portfolioHandler.Delete)

		admin.PUT("/testimonials/:id", testimonialHandler.Update)
		admin.DELETE("/testimonials/:id", testimonialHandler.Delete)

		admin.GET("/registrations", registrationHandler.List)
		admin.GET("/registrations/:id", registrationHandler.Get)
		admin.PATCH("/registrations/:id/status", registrationHandler.UpdateStatus)
		admin.DELETE("/registrations/:id", registrationHandler.Delete)
	}

	// Unpublished listings and scheduling, admin console only
	manage := api.Group("/manage", requireAdmin)
	{
		manage.GET("/blog", blogHandler.List)
		manage.GET("/courses", courseHandler.List)
		manage.GET("/gallery", galleryHandler.List)
		manage.GET("/portfolio", portfolioHandler.List)
		manage.GET("/testimonials", testimonialHandler.List)

		manage.GET("/students", scheduleHandler.ListStudents)
		manage.POST("/students", scheduleHandler.CreateStudent)
		manage.GET("/schedules", scheduleHandler.ListSchedules)
		manage.POST("/schedules", scheduleHandler.CreateSchedule)
		manage.DELETE("/schedules/:id", scheduleHandler.DeleteSchedule)
	}

	// Job triggers authenticate with a shared token rather than a session.
	jobs := r.Group("/api/jobs", middleware.JobToken(cfg.Reminders.JobToken))
	{
		jobs.POST("/reminders/run", reminderHandler.Run)
	}

	return r, nil
}

func kindConfigs(cfg *app.Config) []services.KindConfig {
	defaults := services.DefaultKindConfigs()
	portals := map[models.AccountKind]app.PortalConfig{
		models.KindAdmin:     cfg.Portals.Admin,
		models.KindFranchise: cfg.Portals.Franchise,
		models.KindStaff:     cfg.Portals.Staff,
	}

	for i := range defaults {
		portal, ok := portals[defaults[i].Kind]
		if !ok {
			continue
		}
		if portal.TokenTTL > 0 {
			defaults[i].TokenTTL = portal.TokenTTL
		}
		defaults[i].DomainSuffix = portal.DomainSuffix
	}
	return defaults
}
