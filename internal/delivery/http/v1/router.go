package v1

import (
	"net/http"
	"strings"
	"time"

	"go-ats-backend/config"
	_ "go-ats-backend/docs"
	"go-ats-backend/internal/delivery/http/middleware"
	"go-ats-backend/internal/delivery/http/response"
	"go-ats-backend/internal/domain"
	"go-ats-backend/internal/usecase"
	"go-ats-backend/pkg/auth"
	"go-ats-backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AccessUC    domain.AccessUsecase
	ProfileUC   domain.ProfileUsecase
	CandidateUC domain.CandidateUsecase
	HealthUC    usecase.HealthUsecase
	Verifier    *auth.Verifier
	RateLimiter *middleware.RateLimiter
	SecLog      *security.SecurityLogger
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	production := cfg.IsProduction()
	if deps.SecLog == nil {
		deps.SecLog = security.Nop()
	}

	r := gin.New()

	r.Use(middleware.CORSMiddleware(strings.Split(cfg.FrontendURL, ","), production))
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeadersMiddleware(production))
	if deps.RateLimiter != nil {
		window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
		r.Use(deps.RateLimiter.Middleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))
	}
	r.Use(middleware.ErrorHandler(deps.SecLog))

	v1 := r.Group("/v1")

	v1.GET("/health", func(c *gin.Context) {
		status, healthy := deps.HealthUC.Check(c)
		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Verifier, deps.SecLog))
	protected.Use(middleware.CSRFMiddleware(production))
	{
		NewAccessHandler(protected, deps.AccessUC)
		NewProfileHandler(protected, deps.ProfileUC)
		NewCandidateHandler(protected, deps.CandidateUC)

		var exportLimit gin.HandlerFunc
		if deps.RateLimiter != nil {
			exportLimit = deps.RateLimiter.Middleware(middleware.ExportRateLimitConfig())
		}
		NewAdminHandler(protected, deps.CandidateUC, exportLimit)
	}

	return r
}
