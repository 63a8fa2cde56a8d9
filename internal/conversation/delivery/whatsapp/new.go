package whatsapp

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"go.mau.fi/whatsmeow"

	"relay-bot/internal/model"
	pkgLog "relay-bot/pkg/log"
)

const (
	Name = "whatsapp"

	defaultBuffer       = 256
	defaultDatabasePath = "./data/whatsapp.db"
	defaultDeviceName   = "relay-bot"
)

// Config configures the WhatsApp transport.
type Config struct {
	DatabasePath    string // SQLite file holding the paired device
	DeviceName      string // shown in the phone's linked devices list
	RespondToGroups bool
	Buffer          int
	QRWriter        io.Writer // pairing codes are rendered here; nil disables rendering
}

// Transport is a WhatsApp Web client acting as a linked device.
type Transport struct {
	l   pkgLog.Logger
	cfg Config

	client    *whatsmeow.Client
	connected atomic.Bool

	mu       sync.RWMutex
	closed   bool
	messages chan model.InboundMessage
}

// New creates a new WhatsApp transport. Nothing is opened until Start.
func New(l pkgLog.Logger, cfg Config) *Transport {
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = defaultDatabasePath
	}
	if cfg.DeviceName == "" {
		cfg.DeviceName = defaultDeviceName
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = defaultBuffer
	}
	return &Transport{
		l:        l,
		cfg:      cfg,
		messages: make(chan model.InboundMessage, cfg.Buffer),
	}
}

// DefaultQRWriter renders pairing codes on stdout.
func DefaultQRWriter() io.Writer {
	return os.Stdout
}
