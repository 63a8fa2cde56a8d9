package httpserver

import (
	"github.com/gin-gonic/gin"

	"relay-bot/pkg/response"
)

// Health response constants (single source for version and service identity).
const (
	HealthVersion = "1.0.0"
	ServiceName   = "relay-bot"
)

// healthCheck handles health check requests
// @Summary Health Check
// @Description Check if the bot is healthy
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Bot is healthy"
// @Router /health [get]
func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "healthy",
		"version": HealthVersion,
		"service": ServiceName,
	})
}

// readyCheck reports ready once the messaging transport is connected.
// @Summary Readiness Check
// @Description Check if the transport is connected and report conversation state
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Bot is ready"
// @Failure 503 {object} response.Resp "Transport not connected"
// @Router /ready [get]
func (srv HTTPServer) readyCheck(c *gin.Context) {
	stats := srv.conversationUC.Stats()
	data := gin.H{
		"status":          "ready",
		"service":         ServiceName,
		"senders":         stats.Senders,
		"session_scope":   stats.SessionScope,
		"active_sessions": stats.ActiveSessions,
	}

	if srv.transport != nil {
		data["transport"] = srv.transport.Name()
		if !srv.transport.Connected() {
			data["status"] = "not_ready"
			response.ServiceUnavailable(c, data)
			return
		}
	}

	response.OK(c, data)
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Description Check if the process is alive
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Bot is alive"
// @Router /live [get]
func (srv HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"version": HealthVersion,
		"service": ServiceName,
	})
}
