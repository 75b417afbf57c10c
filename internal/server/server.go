// Package server contains the HTTP handlers for the recipe API.
package server

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "recipebox/docs" // swagger docs
	"recipebox/internal/bootstrap"
	"recipebox/internal/cache"
	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/media"
	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/repository"
	"recipebox/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo repository.UserRepository

	authService       *service.AuthService
	recipeService     *service.RecipeService
	engagementService *service.EngagementService
	commentService    *service.CommentService
	categoryService   *service.CategoryService
	adService         *service.AdService
	userService       *service.UserService
	media             *media.Store
}

// NewServer connects to the database and Redis and builds the server.
func NewServer(cfg *config.Config) (*Server, error) {
	// Redis is optional: without it rate limits are skipped and logout
	// cannot revoke tokens early.
	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedBuiltIns: true})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("server requires config and database")
	}
	middleware.InitMiddleware(cfg)

	userRepo := repository.NewUserRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	return &Server{
		config:            cfg,
		db:                db,
		redis:             redisClient,
		promMiddleware:    middleware.InitMetrics("recipebox-api"),
		userRepo:          userRepo,
		authService:       service.NewAuthService(userRepo, cfg.JWTSecret, redisClient),
		recipeService:     service.NewRecipeService(recipeRepo, categoryRepo),
		engagementService: service.NewEngagementService(repository.NewEngagementRepository(db)),
		commentService:    service.NewCommentService(repository.NewCommentRepository(db), recipeRepo),
		categoryService:   service.NewCategoryService(categoryRepo),
		adService:         service.NewAdService(repository.NewAdRepository(db)),
		userService:       service.NewUserService(userRepo, recipeRepo),
		media:             media.NewStore(cfg),
	}, nil
}

// NewApp builds a Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Recipebox API",
		BodyLimit:    int(s.media.MaxUploadBytes()) + 1024*1024,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler renders errors that escaped a handler, such as unknown routes
// and oversized bodies, in the API error shape.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := models.CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = models.CodeNotFound
		case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge:
			code = models.CodeValidation
		case fiber.StatusUnauthorized:
			code = models.CodeUnauthorized
		case fiber.StatusForbidden:
			code = models.CodeForbidden
		}
		if fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message, Code: code})
		}
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New(helmet.Config{
		// Recipe images are embedded by the web client on another origin
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || countsEveryCall(c)
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
			})
		},
	}))
}

// countsEveryCall matches the requests whose every call moves a counter:
// ad tracking and recipe detail views. They bypass the global limiter.
func countsEveryCall(c *fiber.Ctx) bool {
	parts := strings.Split(strings.Trim(c.Path(), "/"), "/")
	switch {
	case c.Method() == fiber.MethodPost && len(parts) == 4:
		return parts[0] == "api" && parts[1] == "ads" && parts[3] == "track"
	case c.Method() == fiber.MethodGet && len(parts) == 3:
		return parts[0] == "api" && parts[1] == "recipes" && isRecipeID(parts[2])
	}
	return false
}

func isRecipeID(s string) bool {
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Static(media.URLPrefix, s.media.Dir(), fiber.Static{MaxAge: 31536000})

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Recipebox Metrics Dashboard",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(s.redis, 5, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.AuthRequired(), s.Logout)

	recipes := api.Group("/recipes")
	recipes.Get("/", s.GetRecipes)
	recipes.Post("/", s.AuthRequired(),
		middleware.RateLimit(s.redis, 20, time.Hour, "create_recipe"), s.CreateRecipe)
	// Specific /:id/:resource routes before the generic /:id routes
	recipes.Post("/:id/like", s.AuthRequired(), s.ToggleLike)
	recipes.Post("/:id/save", s.AuthRequired(), s.ToggleSave)
	recipes.Get("/:id/comments", s.GetComments)
	recipes.Post("/:id/comments", s.AuthRequired(),
		middleware.RateLimit(s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	recipes.Get("/:id", s.GetRecipe)
	recipes.Patch("/:id", s.AuthRequired(), s.UpdateRecipe)
	recipes.Delete("/:id", s.AuthRequired(), s.DeleteRecipe)

	categories := api.Group("/categories")
	categories.Get("/", s.GetCategories)
	categories.Post("/", s.AuthRequired(), s.AdminRequired(), s.CreateCategory)

	ads := api.Group("/ads")
	ads.Get("/", s.GetAds)
	ads.Post("/:id/track", s.TrackAd)

	user := api.Group("/user", s.AuthRequired())
	user.Get("/profile", s.GetProfile)
	user.Put("/profile", s.UpdateProfile)
	user.Put("/password", middleware.RateLimit(s.redis, 5, 15*time.Minute, "change_password"), s.ChangePassword)
	user.Get("/recipes", s.GetMyRecipes)
	user.Get("/saved", s.GetSavedRecipes)
	user.Get("/stats", s.GetMyStats)

	api.Post("/users/:id/follow", s.AuthRequired(), s.ToggleFollow)

	api.Post("/uploads/images", s.AuthRequired(),
		middleware.RateLimit(s.redis, 30, time.Hour, "image_upload"), s.UploadImage)
}

// LivenessCheck reports that the process is up
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "up",
		"time":   time.Now().UTC(),
	})
}

// ReadinessCheck reports database and Redis health. Redis is optional, so
// its absence does not fail readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now().UTC(),
	})
}

// AuthRequired verifies the bearer token and stores the caller in locals.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := middleware.BearerToken(c)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication required"))
		}

		claims, err := middleware.ParseToken(s.config.JWTSecret, token)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		revoked, err := cache.IsTokenRevoked(c.UserContext(), s.redis, claims.JTI)
		if err != nil {
			// Fail open: a Redis outage must not log everybody out
			middleware.Logger.WarnContext(c.UserContext(), "token revocation check failed", "error", err)
		}
		if revoked {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Token has been revoked"))
		}

		c.Locals("userID", claims.UserID)
		c.Locals("tokenClaims", claims)
		c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, claims.UserID))
		return c.Next()
	}
}

// AdminRequired rejects non-admin users with 403. It must run after AuthRequired.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication required"))
		}

		user, err := s.userRepo.GetByID(c.UserContext(), userID)
		if err != nil {
			return s.respondServiceError(c, err)
		}
		if !user.IsAdmin() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// Start serves HTTP on the configured port until Shutdown is called.
func (s *Server) Start() error {
	s.app = s.NewApp()
	middleware.Logger.Info("server starting", "port", s.config.Port, "env", s.config.Env)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
