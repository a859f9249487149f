package bootstrap

import (
	"github.com/gin-gonic/gin"

	"github.com/atlantis-diagrams/atlantis-backend/config"
)

// SetGinMode picks the gin mode for the deployment environment.
func SetGinMode(app config.AppConfig) {
	switch {
	case app.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case app.Environment == "test":
		gin.SetMode(gin.TestMode)
	}
}
