package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mreimer702/Rettnar/logger"
)

// Pinger verifica la conexión a la base de datos
type Pinger func(ctx context.Context) error

// HealthController responde el chequeo de salud del servicio
type HealthController struct {
	service string
	ping    Pinger
}

// NewHealthController crea el controlador; ping puede ser nil
func NewHealthController(service string, ping Pinger) *HealthController {
	return &HealthController{service: service, ping: ping}
}

// HealthCheck maneja GET /health
// Devuelve 503 si la base de datos no responde
func (ctrl *HealthController) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := ctrl.ping(ctx); err != nil {
		logger.FromContext(ctx).Errorf("Health check: database ping failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"service":  ctrl.service,
			"database": "down",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"service":  ctrl.service,
		"database": "up",
	})
}
