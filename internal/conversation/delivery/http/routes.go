package http

import "github.com/gin-gonic/gin"

// RegisterRoutes maps the conversation inspection endpoints onto rg.
func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	rg.GET("", h.Stats)
	rg.GET("/:sender", h.Detail)
	rg.DELETE("/:sender", h.Reset)
}
