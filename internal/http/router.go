package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vaultdeck/vaultdeck/internal/audit"
	"github.com/vaultdeck/vaultdeck/internal/auth"
	"github.com/vaultdeck/vaultdeck/internal/cache"
	"github.com/vaultdeck/vaultdeck/internal/config"
	"github.com/vaultdeck/vaultdeck/internal/http/handlers"
	"github.com/vaultdeck/vaultdeck/internal/http/middlewares"
	"github.com/vaultdeck/vaultdeck/internal/observability"
	"github.com/vaultdeck/vaultdeck/internal/queue/redisclient"
	"github.com/vaultdeck/vaultdeck/internal/repo/postgres"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20 // requests are small JSON documents

type RouterDeps struct {
	Cfg   config.Config
	Log   *slog.Logger
	Pool  *pgxpool.Pool
	Queue *redisclient.Client
	Prom  *observability.Prom
	Reg   *prometheus.Registry
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(deps.Cfg.CORSOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(otelgin.Middleware("vaultdeck-api"))

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	// health
	pingDB := func() error {
		if deps.Pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return deps.Pool.Ping(ctx)
	}

	pingRedis := func() error {
		if deps.Queue == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return deps.Queue.Ping(ctx)
	}

	h := handlers.NewHealthHandler(pingDB, pingRedis)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Reg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Reg, promhttp.HandlerOpts{})))
	}

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(deps.Pool)
	vaultRepo := postgres.NewVaultRepo(deps.Pool, deps.Prom)
	contactsRepo := postgres.NewContactsRepo(deps.Pool)
	tasksRepo := postgres.NewTasksRepo(deps.Pool)
	auditRepo := postgres.NewAuditRepo(deps.Pool, deps.Prom)

	// auth plumbing
	jwtManager := auth.NewManager(deps.Cfg.JWTSecret, deps.Cfg.AccessTTL)
	authenticator := auth.NewAuthenticator(usersRepo, jwtManager)
	guard := middlewares.NewAuthMiddleware(jwtManager, authenticator)

	var recorder *audit.Recorder
	if deps.Queue != nil {
		recorder = audit.NewRecorder(deps.Queue, deps.Log)
	}

	listCache := cache.New(5 * time.Second)

	// wire up handlers
	authHandler := handlers.NewAuthHandler(authenticator, recorder, deps.Prom)
	passwordsHandler := handlers.NewPasswordsHandler(vaultRepo)
	contactsHandler := handlers.NewContactsHandler(contactsRepo, listCache)
	tasksHandler := handlers.NewTasksHandler(tasksRepo, listCache)
	securityLogHandler := handlers.NewSecurityLogHandler(auditRepo)

	api := r.Group("/api")

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(guard.RequireAuth())

	protected.GET("/passwords", passwordsHandler.ListEntries)
	protected.GET("/passwords/:id", passwordsHandler.GetEntryById)
	protected.POST("/passwords", passwordsHandler.CreateEntry)
	protected.PUT("/passwords/:id", passwordsHandler.UpdateEntry)
	protected.DELETE("/passwords/:id", passwordsHandler.DeleteEntry)

	protected.GET("/contacts", contactsHandler.ListContacts)
	protected.GET("/contacts/:id", contactsHandler.GetContactById)
	protected.POST("/contacts", contactsHandler.CreateContact)
	protected.PUT("/contacts/:id", contactsHandler.UpdateContact)
	protected.DELETE("/contacts/:id", contactsHandler.DeleteContact)

	protected.GET("/tasks", tasksHandler.ListTasks)
	protected.GET("/tasks/:id", tasksHandler.GetTaskById)
	protected.POST("/tasks", tasksHandler.CreateTask)
	protected.PUT("/tasks/:id", tasksHandler.UpdateTask)
	protected.DELETE("/tasks/:id", tasksHandler.DeleteTask)

	protected.GET("/security-log", securityLogHandler.ListOwn)

	admin := protected.Group("")
	admin.Use(guard.RequireRole("admin"))
	admin.GET("/admin/security-log", securityLogHandler.ListAll)

	return r
}
