package http

import (
	"github.com/gin-gonic/gin"

	"relay-bot/internal/conversation"
	pkgLog "relay-bot/pkg/log"
)

// Handler is the public interface for the conversation HTTP delivery layer.
type Handler interface {
	Detail(c *gin.Context)
	Reset(c *gin.Context)
	Stats(c *gin.Context)
}

type handler struct {
	l  pkgLog.Logger
	uc conversation.UseCase
}

// New creates a new conversation HTTP handler.
func New(l pkgLog.Logger, uc conversation.UseCase) Handler {
	return &handler{l: l, uc: uc}
}
