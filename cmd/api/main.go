package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-ats-backend/config"
	v1 "go-ats-backend/internal/delivery/http/v1"
	"go-ats-backend/internal/delivery/http/middleware"
	"go-ats-backend/internal/domain"
	"go-ats-backend/internal/repository/memory"
	"go-ats-backend/internal/repository/postgres"
	"go-ats-backend/internal/usecase"
	"go-ats-backend/pkg/auth"
	"go-ats-backend/pkg/database"
	"go-ats-backend/pkg/logger"
	atsredis "go-ats-backend/pkg/redis"
	"go-ats-backend/pkg/security"
	"go-ats-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// @title           Applicant Tracking API
// @version         1.0
// @description     Candidate pipeline backend: role-gated candidate records, profiles and stage tracking.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting applicant tracking backend", "port", cfg.Port, "storage", cfg.StorageBackend)

	secLog := security.NewSecurityLogger("ats-api", cfg.AppEnv)
	defer secLog.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	healthChecks := map[string]usecase.HealthCheck{}

	// 3. Setup Repositories
	var (
		roleRepo      domain.RoleRepository
		profileRepo   domain.ProfileRepository
		candidateRepo domain.CandidateRepository
	)
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			logger.Log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		roleRepo = postgres.NewRoleRepository(dbPool)
		profileRepo = postgres.NewProfileRepository(dbPool)
		candidateRepo = postgres.NewCandidateRepository(dbPool)
		healthChecks["database"] = database.HealthCheck(dbPool)
	default:
		roleRepo = memory.NewRoleRepository()
		profileRepo = memory.NewProfileRepository()
		candidateRepo = memory.NewCandidateRepository()
	}

	// 4. Setup Redis (optional)
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = atsredis.NewClient(ctx, atsredis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
		} else {
			defer redisClient.Close()
			healthChecks["redis"] = atsredis.HealthCheck(redisClient)
		}
	}

	// 5. Setup UseCases
	validate := validation.New()
	accessUC := usecase.NewAccessUsecase(roleRepo, secLog)
	profileUC := usecase.NewProfileUsecase(profileRepo, accessUC, validate)
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, accessUC, validate, secLog)
	healthUC := usecase.NewHealthUsecase(healthChecks)

	admins := make([]domain.Principal, 0, len(cfg.BootstrapAdmins))
	for _, p := range cfg.BootstrapAdmins {
		admins = append(admins, domain.Principal(p))
	}
	if err := accessUC.BootstrapAdmins(ctx, admins); err != nil {
		logger.Log.Error("Failed to bootstrap admins", "error", err)
		os.Exit(1)
	}

	// 6. Setup Token Verification
	var jwksProvider *auth.Provider
	if cfg.JWKSUrl != "" {
		jwksProvider = auth.NewProvider(cfg.JWKSUrl)
	}
	verifier := auth.NewVerifier(cfg.JWTSecret, jwksProvider)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AccessUC:    accessUC,
		ProfileUC:   profileUC,
		CandidateUC: candidateUC,
		HealthUC:    healthUC,
		Verifier:    verifier,
		RateLimiter: middleware.NewRateLimiter(ctx, redisClient, secLog),
		SecLog:      secLog,
		Config:      cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
