// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "pawhaven/docs" // swagger docs
	"pawhaven/internal/cache"
	"pawhaven/internal/config"
	"pawhaven/internal/database"
	"pawhaven/internal/mail"
	"pawhaven/internal/middleware"
	"pawhaven/internal/models"
	"pawhaven/internal/realtime"
	"pawhaven/internal/repository"
	"pawhaven/internal/service"
	"pawhaven/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// followupTimeout bounds deferred side-effect work (emails, pushes)
// spawned once a mutation has committed.
const followupTimeout = 30 * time.Second

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	hub            *realtime.Hub
	mailer         mail.Mailer
	store          storage.Store
	userRepo       repository.UserRepository
	petRepo        repository.PetRepository
	appRepo        repository.ApplicationRepository
	threadRepo     repository.ThreadRepository
	favoriteRepo   repository.FavoriteRepository
	reviewRepo     repository.ReviewRepository
	petService     *service.PetService
	appService     *service.ApplicationService
	msgService     *service.MessageService
	favService     *service.FavoriteService
	reviewService  *service.ReviewService
	shelterService *service.ShelterService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	uploadDir := cfg.UploadDir
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	store, err := storage.NewDisk(uploadDir, "/uploads")
	if err != nil {
		return nil, fmt.Errorf("upload dir init failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient, store, mail.NewFromConfig(cfg))
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis first.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store storage.Store, mailer mail.Mailer) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	petRepo := repository.NewPetRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	threadRepo := repository.NewThreadRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	prom := middleware.InitMetrics("pawhaven-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		hub:            realtime.NewHub(),
		mailer:         mailer,
		store:          store,
		userRepo:       userRepo,
		petRepo:        petRepo,
		appRepo:        appRepo,
		threadRepo:     threadRepo,
		favoriteRepo:   favoriteRepo,
		reviewRepo:     reviewRepo,
	}

	server.petService = service.NewPetService(petRepo)
	server.appService = service.NewApplicationService(appRepo, petRepo, userRepo, server.hub, mailer)
	server.msgService = service.NewMessageService(threadRepo, userRepo, server.hub)
	server.favService = service.NewFavoriteService(favoriteRepo, petRepo)
	server.reviewService = service.NewReviewService(reviewRepo)
	server.shelterService = service.NewShelterService(userRepo, petRepo)

	models.SetVerboseErrors(!cfg.IsProduction())

	return server, nil
}

// dispatch runs deferred side-effect work on its own goroutine,
// concurrent with the response write. It survives handler return,
// panics are contained.
func (s *Server) dispatch(f service.Followup) {
	if f == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				middleware.Logger.Error("followup panicked", "panic", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), followupTimeout)
		defer cancel()
		f(ctx)
	}()
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(fiberrecover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Uploaded pet photos, immutable once written
	app.Static("/uploads", s.uploadRoot(), fiber.Static{
		MaxAge: 7 * 24 * 60 * 60,
	})

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/me", s.AuthRequired(), s.Me)
	auth.Post("/logout", s.AuthRequired(), s.Logout)
	auth.Post("/forgot", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "forgot"), s.ForgotPassword)
	auth.Post("/reset", s.ResetPassword)

	// Public pet routes (browse/search)
	publicPets := api.Group("/pets")
	publicPets.Get("/", s.ListPets)
	publicPets.Get("/:id", s.GetPet)

	// Public review reads
	api.Get("/reviews", s.ListReviews)

	// Public shelter profiles
	api.Get("/shelters/:id", s.GetShelter)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// Pet management, shelter accounts only
	pets := protected.Group("/pets", s.RoleRequired(models.RoleShelter))
	pets.Post("/", s.CreatePet)
	pets.Put("/:id", s.UpdatePet)
	pets.Delete("/:id", s.DeletePet)

	// Application routes
	applications := protected.Group("/applications")
	applications.Post("/", s.CreateApplication)
	applications.Get("/mine", s.GetMyApplications)
	applications.Get("/received", s.RoleRequired(models.RoleShelter), s.GetReceivedApplications)
	applications.Patch("/:id", s.UpdateApplicationStatus)
	applications.Delete("/:id", s.DeleteApplication)

	// Messaging routes
	messages := protected.Group("/messages")
	messages.Get("/", s.GetThreads)
	messages.Post("/", middleware.RateLimit(
		s.redis, 15, time.Minute, "send_message"), s.SendMessage)
	messages.Post("/start", s.StartThread)
	// Specific /:id/:messageId route before generic /:id
	messages.Patch("/:id/:messageId", s.DeleteMessageForMe)
	messages.Get("/:id", s.GetThread)

	// Favorites
	favorites := protected.Group("/favorites")
	favorites.Get("/", s.GetFavorites)
	favorites.Post("/:petId", s.ToggleFavorite)

	// Review writes
	protected.Post("/reviews", s.CreateReview)

	// Realtime endpoint. Authentication is optional at handshake:
	// guests connect but receive no user-addressed events.
	api.Get("/ws", s.WebsocketHandler())

	// Uniform 404 for unknown routes
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	})
}

func (s *Server) uploadRoot() string {
	if s.config.UploadDir != "" {
		return s.config.UploadDir
	}
	return "./uploads"
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Redis is optional; rate limits and caches degrade without it
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := s.tokenUserID(c)
		if !ok {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Authorization required"))
		}

		c.Locals("userID", userID)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// RoleRequired returns middleware that rejects callers whose account
// role differs. The role is read fresh from the store, not trusted
// from the token, so a demoted account loses access immediately.
// Must be placed after AuthRequired.
func (s *Server) RoleRequired(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		user, err := s.userRepo.GetByID(c.UserContext(), userID)
		if err != nil {
			return models.RespondWithError(c, err)
		}
		if user.Role != role {
			return models.RespondWithError(c,
				models.NewForbiddenError("This action requires a "+role+" account"))
		}
		return c.Next()
	}
}

// tokenUserID parses and validates the request's JWT, from the
// Authorization header or the token query param (used by the
// WebSocket handshake).
func (s *Server) tokenUserID(c *fiber.Ctx) (uint, bool) {
	tokenString := ""
	if authHeader := c.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
	}
	if tokenString == "" {
		tokenString = c.Query("token")
	}
	if tokenString == "" {
		return 0, false
	}
	return s.validateToken(c.Context(), tokenString)
}

func (s *Server) validateToken(ctx context.Context, tokenString string) (uint, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != "pawhaven-api" {
		return 0, false
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != "pawhaven-client" {
		return 0, false
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, false
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, false
	}

	// Check JTI for revocation
	if jti, exists := claims["jti"].(string); exists && jti != "" && s.redis != nil {
		isBlacklisted, err := s.redis.Exists(ctx, "blacklist:"+jti).Result()
		if err == nil && isBlacklisted > 0 {
			return 0, false
		}
	}

	return uint(userID), true
}

// optionalUserID attempts to extract userID from the request token but
// does not enforce it.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	return s.tokenUserID(c)
}

// Shutdown releases server resources: the realtime hub, the database
// pool and the Redis client. The Fiber app itself is owned and shut
// down by main.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down realtime hub", "error", err)
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

	return nil
}
