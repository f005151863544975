package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/taskflow/core/docs"
	httpHandlers "github.com/taskflow/core/internal/adapters/http"
	"github.com/taskflow/core/internal/adapters/repository"
	"github.com/taskflow/core/internal/application/services"
	"github.com/taskflow/core/internal/infrastructure/config"
	"github.com/taskflow/core/internal/infrastructure/database"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *logger.Logger
	db     *database.DB
}

type handlers struct {
	auth       *httpHandlers.AuthHandler
	users      *httpHandlers.UserHandler
	teams      *httpHandlers.TeamHandler
	tasks      *httpHandlers.TaskHandler
	projects   *httpHandlers.ProjectHandler
	categories *httpHandlers.CategoryHandler
	events     *httpHandlers.CalendarHandler
	dashboard  *httpHandlers.DashboardHandler
}

// New wires repositories, services and handlers into an echo server.
// Refresh tokens go to authRepo, which is Redis or SQL backed.
func New(cfg *config.Config, db *database.DB, authRepo ports.AuthRepository, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpHandlers.NewValidator()
	e.HTTPErrorHandler = httpHandlers.ErrorHandler(appLogger.WithComponent("http"))

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	eventRepo := repository.NewCalendarEventRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Initialize services
	access := services.NewAccessPolicy(teamRepo, appLogger)
	authService := services.NewAuthService(userRepo, authRepo, cfg.JWT, appLogger)
	userService := services.NewUserService(userRepo, appLogger)
	teamService := services.NewTeamService(teamRepo, taskRepo, projectRepo, userRepo, access, appLogger)
	taskService := services.NewTaskService(taskRepo, teamRepo, categoryRepo, access, appLogger)
	projectService := services.NewProjectService(projectRepo, taskRepo, teamRepo, access, appLogger)
	categoryService := services.NewCategoryService(categoryRepo, appLogger)
	calendarService := services.NewCalendarService(eventRepo, appLogger)
	dashboardService := services.NewDashboardService(statsRepo, appLogger)

	// Initialize handlers
	h := handlers{
		auth:       httpHandlers.NewAuthHandler(authService, appLogger),
		users:      httpHandlers.NewUserHandler(userService, appLogger),
		teams:      httpHandlers.NewTeamHandler(teamService, appLogger),
		tasks:      httpHandlers.NewTaskHandler(taskService, appLogger),
		projects:   httpHandlers.NewProjectHandler(projectService, appLogger),
		categories: httpHandlers.NewCategoryHandler(categoryService, appLogger),
		events:     httpHandlers.NewCalendarHandler(calendarService, appLogger),
		dashboard:  httpHandlers.NewDashboardHandler(dashboardService, appLogger),
	}

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger.WithComponent("server"),
		db:     db,
	}

	server.setupMiddleware()

	// Metrics come before routes so every route is instrumented
	if cfg.Metrics.Enabled {
		if err := server.setupMetrics(); err != nil {
			return nil, err
		}
	}

	server.setupRoutes(h, authService)

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(requestLogger(s.logger))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))

	if s.config.Security.RateLimitRequests > 0 {
		s.echo.Use(rateLimiter(s.config.Security))
	}

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))

	if s.config.Server.RequestTimeout > 0 {
		s.echo.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: s.config.Server.RequestTimeout,
		}))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(h handlers, authService *services.AuthService) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// Swagger documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")
	auth := s.authMiddleware(authService)

	// Auth routes (public)
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", h.auth.Register)
	authGroup.POST("/login", h.auth.Login)
	authGroup.POST("/refresh", h.auth.RefreshToken)
	authGroup.POST("/logout", h.auth.Logout, auth)

	userGroup := v1.Group("/users", auth)
	userGroup.GET("/me", h.users.GetCurrentUser)
	userGroup.PUT("/me", h.users.UpdateCurrentUser)
	userGroup.PATCH("/me", h.users.UpdateCurrentUser)

	teamGroup := v1.Group("/teams", auth)
	teamGroup.GET("", h.teams.ListTeams)
	teamGroup.POST("", h.teams.CreateTeam)
	teamGroup.GET("/:id", h.teams.GetTeam)
	teamGroup.PUT("/:id", h.teams.UpdateTeam)
	teamGroup.PATCH("/:id", h.teams.UpdateTeam)
	teamGroup.DELETE("/:id", h.teams.DeleteTeam)
	teamGroup.GET("/:id/tasks", h.teams.TeamTasks)
	teamGroup.GET("/:id/projects", h.teams.TeamProjects)
	teamGroup.GET("/:id/invite", h.teams.Invite)
	teamGroup.POST("/:id/join", h.teams.Join)
	teamGroup.POST("/:id/leave", h.teams.Leave)
	teamGroup.POST("/:id/members", h.teams.AddMember)
	teamGroup.DELETE("/:id/members/:user_id", h.teams.RemoveMember)

	taskGroup := v1.Group("/tasks", auth)
	taskGroup.GET("", h.tasks.ListTasks)
	taskGroup.POST("", h.tasks.CreateTask)
	taskGroup.GET("/overdue", h.tasks.OverdueTasks)
	taskGroup.GET("/today", h.tasks.TodayTasks)
	taskGroup.GET("/:id", h.tasks.GetTask)
	taskGroup.PUT("/:id", h.tasks.UpdateTask)
	taskGroup.PATCH("/:id", h.tasks.UpdateTask)
	taskGroup.DELETE("/:id", h.tasks.DeleteTask)
	taskGroup.POST("/:id/complete", h.tasks.CompleteTask)
	taskGroup.POST("/:id/reopen", h.tasks.ReopenTask)

	projectGroup := v1.Group("/projects", auth)
	projectGroup.GET("", h.projects.ListProjects)
	projectGroup.POST("", h.projects.CreateProject)
	projectGroup.GET("/:id", h.projects.GetProject)
	projectGroup.PUT("/:id", h.projects.UpdateProject)
	projectGroup.PATCH("/:id", h.projects.UpdateProject)
	projectGroup.DELETE("/:id", h.projects.DeleteProject)
	projectGroup.POST("/:id/start", h.projects.StartProject)
	projectGroup.POST("/:id/add_task", h.projects.AddTask)
	projectGroup.POST("/:id/remove_task", h.projects.RemoveTask)

	categoryGroup := v1.Group("/categories", auth)
	categoryGroup.GET("", h.categories.ListCategories)
	categoryGroup.POST("", h.categories.CreateCategory)
	categoryGroup.GET("/:id", h.categories.GetCategory)
	categoryGroup.PUT("/:id", h.categories.UpdateCategory)
	categoryGroup.PATCH("/:id", h.categories.UpdateCategory)
	categoryGroup.DELETE("/:id", h.categories.DeleteCategory)

	eventGroup := v1.Group("/events", auth)
	eventGroup.GET("", h.events.ListEvents)
	eventGroup.POST("", h.events.CreateEvent)
	eventGroup.GET("/:id", h.events.GetEvent)
	eventGroup.PUT("/:id", h.events.UpdateEvent)
	eventGroup.PATCH("/:id", h.events.UpdateEvent)
	eventGroup.DELETE("/:id", h.events.DeleteEvent)

	v1.GET("/dashboard", h.dashboard.Stats, auth)
}

// setupMetrics registers HTTP, connection pool and domain metrics on a
// private registry served at the metrics path
func (s *Server) setupMetrics() error {
	registry := prometheus.NewRegistry()
	httpMetrics := newHTTPMetrics()

	toRegister := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(s.db.DB.DB, s.config.Database.Driver),
	}
	toRegister = append(toRegister, httpMetrics.collectors()...)
	toRegister = append(toRegister, services.Collectors()...)

	for _, c := range toRegister {
		if err := registry.Register(c); err != nil {
			return err
		}
	}

	s.echo.Use(httpMetrics.middleware)

	path := s.config.Metrics.Path
	if path == "" {
		path = "/metrics"
	}
	s.echo.GET(path, echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return nil
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.config.App.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.db.HealthCheck(c.Request().Context()); err != nil {
		s.logger.Warnw("Readiness check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not_ready",
			"reason": "database_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ready",
		"database": s.db.GetConnectionInfo(),
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}

// ServeHTTP lets the server be driven without a listener
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         net.JoinHostPort(s.config.Server.Host, strconv.Itoa(s.config.Server.Port)),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.Infow("Starting server", "address", srv.Addr)
	if err := s.echo.StartServer(srv); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}
