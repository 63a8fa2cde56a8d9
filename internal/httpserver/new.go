package httpserver

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"relay-bot/internal/conversation"
	tgDelivery "relay-bot/internal/conversation/delivery/telegram"
	"relay-bot/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// Conversation domain
	conversationUC conversation.UseCase
	transport      conversation.Transport

	// Telegram webhook
	telegramHandler tgDelivery.Handler
	webhookGuard    gin.HandlerFunc
}

// Config is the dependency bag passed to New().
type Config struct {
	Port        int
	Mode        string
	Environment string

	// TrustedProxies may set X-Forwarded-For and X-Real-IP. Empty trusts none.
	TrustedProxies []string

	ConversationUC conversation.UseCase
	Transport      conversation.Transport // readiness follows Transport.Connected when set

	TelegramHandler tgDelivery.Handler
	WebhookGuard    gin.HandlerFunc // runs before the Telegram webhook handler
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.New(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		conversationUC:  cfg.ConversationUC,
		transport:       cfg.Transport,
		telegramHandler: cfg.TelegramHandler,
		webhookGuard:    cfg.WebhookGuard,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}
	if err := srv.gin.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	srv.mapHandlers()

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.conversationUC == nil {
		return errors.New("conversation use case is required")
	}
	return nil
}

// Handler exposes the router, mainly for tests.
func (srv HTTPServer) Handler() *gin.Engine {
	return srv.gin
}
