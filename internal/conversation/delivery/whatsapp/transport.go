package whatsapp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdp/qrterminal/v3"
	"go.mau.fi/whatsmeow"
	waE2E "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"google.golang.org/protobuf/proto"

	_ "github.com/mattn/go-sqlite3" // SQLite driver for the device store.

	"relay-bot/internal/conversation"
	"relay-bot/internal/model"
)

var _ conversation.Transport = (*Transport)(nil)

func (t *Transport) Name() string { return Name }

// Start opens the device store and connects. Without a paired device the pairing QR flow runs
// in the background and Start returns immediately.
func (t *Transport) Start(ctx context.Context) error {
	if dir := filepath.Dir(t.cfg.DatabasePath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("whatsapp: create store dir: %w", err)
		}
	}

	dbLog := newWALogger(ctx, t.l, "store")
	container, err := sqlstore.New(ctx, "sqlite3",
		fmt.Sprintf("file:%s?_foreign_keys=1&_journal_mode=WAL", t.cfg.DatabasePath), dbLog)
	if err != nil {
		return fmt.Errorf("whatsapp: open session store: %w", err)
	}

	device, err := firstDevice(ctx, container)
	if err != nil {
		return fmt.Errorf("whatsapp: load device: %w", err)
	}

	store.SetOSInfo(t.cfg.DeviceName, [3]uint32{1, 0, 0})

	t.client = whatsmeow.NewClient(device, newWALogger(ctx, t.l, "client"))
	t.client.AddEventHandler(t.handleEvent)
	t.client.EnableAutoReconnect = true

	if t.client.Store.ID == nil {
		qrChan, err := t.client.GetQRChannel(ctx)
		if err != nil {
			return fmt.Errorf("whatsapp: get qr channel: %w", err)
		}
		if err := t.client.Connect(); err != nil {
			return fmt.Errorf("whatsapp: connect for pairing: %w", err)
		}
		t.l.Infof(ctx, "whatsapp: no paired device, scan the QR code with your phone")
		go t.pair(ctx, qrChan)
		return nil
	}

	if err := t.client.Connect(); err != nil {
		return fmt.Errorf("whatsapp: connect: %w", err)
	}
	t.l.Infof(ctx, "whatsapp: connecting as %s", t.client.Store.ID)
	return nil
}

func (t *Transport) pair(ctx context.Context, qrChan <-chan whatsmeow.QRChannelItem) {
	for item := range qrChan {
		switch item.Event {
		case "code":
			t.l.Infof(ctx, "whatsapp: qr code refreshed (valid %s)", item.Timeout)
			if t.cfg.QRWriter != nil {
				qrterminal.GenerateHalfBlock(item.Code, qrterminal.L, t.cfg.QRWriter)
			}
		case "success":
			t.l.Infof(ctx, "whatsapp: device paired")
			return
		case "error":
			t.l.Errorf(ctx, "whatsapp: pairing failed: %v", item.Error)
			return
		default:
			t.l.Warnf(ctx, "whatsapp: pairing ended: %s", item.Event)
			return
		}
	}
}

func (t *Transport) Stop() {
	t.connected.Store(false)
	if t.client != nil {
		t.client.Disconnect()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.closed = true
		close(t.messages)
	}
}

func (t *Transport) Messages() <-chan model.InboundMessage {
	return t.messages
}

func (t *Transport) Connected() bool {
	return t.connected.Load()
}

func (t *Transport) SendMessage(ctx context.Context, to model.SenderID, text string) error {
	if t.client == nil || !t.connected.Load() {
		return ErrNotConnected
	}

	jid, err := parseJID(string(to))
	if err != nil {
		return fmt.Errorf("whatsapp: invalid JID %q: %w", to, err)
	}

	if _, err := t.client.SendMessage(ctx, jid, &waE2E.Message{Conversation: proto.String(text)}); err != nil {
		return fmt.Errorf("whatsapp: send message: %w", err)
	}
	return nil
}

func (t *Transport) emit(msg model.InboundMessage) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return false
	}
	select {
	case t.messages <- msg:
		return true
	default:
		return false
	}
}

func firstDevice(ctx context.Context, container *sqlstore.Container) (*store.Device, error) {
	devices, err := container.GetAllDevices(ctx)
	if err != nil {
		return nil, err
	}
	if len(devices) > 0 {
		return devices[0], nil
	}
	return container.NewDevice(), nil
}

// parseJID accepts a full JID or a bare phone number.
func parseJID(s string) (types.JID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return types.JID{}, fmt.Errorf("empty JID")
	}

	if strings.Contains(s, "@") {
		return types.ParseJID(s)
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)

	if len(digits) < 10 {
		return types.JID{}, fmt.Errorf("phone number too short: %s", s)
	}

	return types.NewJID(digits, types.DefaultUserServer), nil
}
