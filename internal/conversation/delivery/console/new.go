package console

import (
	"io"
	"sync"

	"relay-bot/internal/model"
	pkgLog "relay-bot/pkg/log"
)

const (
	Name = "console"

	defaultSender = "console"
	defaultPrompt = "you> "
	defaultBuffer = 16
)

// LineReader is the input side of the REPL.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// Config configures the console transport.
type Config struct {
	Sender      model.SenderID
	Prompt      string
	ReplyPrefix string
	HistoryFile string
	Buffer      int
	Out         io.Writer  // defaults to the readline terminal
	Reader      LineReader // defaults to a readline instance created on Start
}

// Transport is a local REPL: every line typed is an inbound message from a single sender.
type Transport struct {
	l   pkgLog.Logger
	cfg Config

	mu        sync.RWMutex
	reader    LineReader
	out       io.Writer
	connected bool
	closed    bool
	messages  chan model.InboundMessage
	done      chan struct{}
	doneOnce  sync.Once
}

// New creates a new console transport.
func New(l pkgLog.Logger, cfg Config) *Transport {
	if cfg.Sender == "" {
		cfg.Sender = defaultSender
	}
	if cfg.Prompt == "" {
		cfg.Prompt = defaultPrompt
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = defaultBuffer
	}
	return &Transport{
		l:        l,
		cfg:      cfg,
		messages: make(chan model.InboundMessage, cfg.Buffer),
		done:     make(chan struct{}),
	}
}
