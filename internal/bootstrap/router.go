package bootstrap

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/atlantis-diagrams/atlantis-backend/internal/access"
	httpapi "github.com/atlantis-diagrams/atlantis-backend/internal/api/http"
	"github.com/atlantis-diagrams/atlantis-backend/internal/api/http/middleware"
	"github.com/atlantis-diagrams/atlantis-backend/internal/backup"
	"github.com/atlantis-diagrams/atlantis-backend/internal/csrf"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/store"
)

type RouterDeps struct {
	ServiceName     string
	Version         string
	Store           store.Store
	Diagrams        diagrams.Service
	Cache           httpapi.Pinger // nil when the cache is disabled
	AllowedOrigins  []string
	SecureCookies   bool
	EnableAPIAccess bool
	Limiter         *middleware.RateLimiter
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	if len(dep.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     dep.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", csrf.HeaderName, middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader, "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Store.Capabilities().Name, dep.Store, dep.Cache)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")

	guard := csrf.New(dep.SecureCookies)
	guard.RegisterRoutes(api)

	read := []gin.HandlerFunc{guard.EnsureCookie()}
	write := []gin.HandlerFunc{
		dep.Limiter.Middleware(http.MethodPost, http.MethodPut, http.MethodDelete),
		guard.Protect(),
	}

	diagrams.Register(api.Group("/diagrams"), dep.Diagrams, read, write)
	backup.Register(api.Group("/backup"), dep.Diagrams, read, write)
	access.Register(api.Group("/access"), dep.Diagrams, dep.EnableAPIAccess, dep.Limiter.Middleware())

	return r
}
