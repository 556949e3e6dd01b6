package httpserver

import (
	"time"

	"github.com/gin-gonic/gin"

	"todoflow/pkg/response"
)

// @Summary Health check
// @Description Returns the overall service health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":      "healthy",
		"service":     "todoflow",
		"environment": srv.environment,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}

// @Summary Readiness check
// @Description Reports whether the service is ready to accept traffic
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /ready [get]
func (srv HTTPServer) readinessCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "ready",
		"service": "todoflow",
	})
}

// @Summary Liveness check
// @Description Reports whether the process is alive
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /live [get]
func (srv HTTPServer) livenessCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"service": "todoflow",
	})
}
