package telegram

import (
	"sync"

	"github.com/gin-gonic/gin"

	"relay-bot/internal/model"
	pkgLog "relay-bot/pkg/log"
	pkgTelegram "relay-bot/pkg/telegram"
)

const (
	Name = "telegram"

	defaultBuffer   = 256
	defaultMaxBytes = 20 << 20
)

// Handler is the interface for the Telegram delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
}

// Config configures the Telegram transport.
type Config struct {
	WebhookURL    string // registered with setWebhook on Start when set
	SecretToken   string
	Buffer        int
	MaxMediaBytes int64
}

// Transport receives updates through the webhook handler and replies through the Bot API.
type Transport struct {
	l   pkgLog.Logger
	bot *pkgTelegram.Bot
	cfg Config

	mu        sync.RWMutex
	connected bool
	closed    bool
	messages  chan model.InboundMessage
}

// New creates a new Telegram transport.
func New(l pkgLog.Logger, bot *pkgTelegram.Bot, cfg Config) *Transport {
	if cfg.Buffer <= 0 {
		cfg.Buffer = defaultBuffer
	}
	if cfg.MaxMediaBytes <= 0 {
		cfg.MaxMediaBytes = defaultMaxBytes
	}
	return &Transport{
		l:        l,
		bot:      bot,
		cfg:      cfg,
		messages: make(chan model.InboundMessage, cfg.Buffer),
	}
}
