package v1

import (
	"net/http"

	"anduber-forms-backend/config"
	"anduber-forms-backend/internal/delivery/http/middleware"
	"anduber-forms-backend/internal/delivery/http/response"
	"anduber-forms-backend/internal/domain"
	"anduber-forms-backend/internal/usecase"
	"anduber-forms-backend/pkg/metrics"
	"anduber-forms-backend/pkg/ratelimit"
	"anduber-forms-backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	Config         *config.Config
	ContactUC      domain.ContactUsecase
	JoinUC         domain.JoinUsecase
	HealthUC       usecase.HealthUsecase
	ContactLimiter *ratelimit.Limiter
	JoinLimiter    *ratelimit.Limiter
	SecLogger      *security.SecurityLogger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.AllowedOrigins, deps.Config.IsProduction())) // CORS must be first!
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.IsProduction()))
	r.Use(middleware.ErrorHandler())

	api := r.Group("/api")

	// Health Check
	api.GET("/health", healthHandler(deps.HealthUC))

	// Public form routes: origin guard first, then the per-form bucket
	guard := middleware.OriginGuard(deps.SecLogger)
	NewContactHandler(api, deps.ContactUC, guard, middleware.RateLimit(deps.ContactLimiter, "contact", deps.SecLogger))
	NewJoinHandler(api, deps.JoinUC, guard, middleware.RateLimit(deps.JoinLimiter, "join", deps.SecLogger))

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	return r
}

// healthHandler godoc
// @Summary      Health check
// @Description  Reports email provider and rate limit store readiness
// @Tags         system
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /health [get]
func healthHandler(uc usecase.HealthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		if uc == nil {
			response.Success(c, http.StatusOK, "System operational", nil)
			return
		}
		status := uc.Check(c.Request.Context())
		msg := "System operational"
		if status["status"] != "ok" {
			msg = "System degraded"
		}
		response.Success(c, http.StatusOK, msg, status)
	}
}
