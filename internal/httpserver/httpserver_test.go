package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"relay-bot/internal/conversation"
	"relay-bot/internal/model"
	pkgLog "relay-bot/pkg/log"
	"relay-bot/pkg/response"
)

type fakeUseCase struct{}

func (fakeUseCase) HandleMessage(ctx context.Context, msg model.InboundMessage) error { return nil }
func (fakeUseCase) Window(sender model.SenderID) model.Window { return model.Window{} }
func (fakeUseCase) Reset(sender model.SenderID) {}
func (fakeUseCase) Stats() conversation.Stats {
	return conversation.Stats{Senders: 3, SessionScope: "shared", ActiveSessions: 1}
}

type fakeTransport struct {
	connected atomic.Bool
}

func (t *fakeTransport) Name() string { return "fake" }
func (t *fakeTransport) Start(ctx context.Context) error { return nil }
func (t *fakeTransport) Stop() {}
func (t *fakeTransport) Messages() <-chan model.InboundMessage { return nil }
func (t *fakeTransport) Connected() bool { return t.connected.Load() }
func (t *fakeTransport) SendMessage(ctx context.Context, to model.SenderID, text string) error {
	return nil
}

type fakeWebhook struct {
	calls atomic.Int32
}

func (h *fakeWebhook) HandleWebhook(c *gin.Context) {
	h.calls.Add(1)
	response.OK(c, nil)
}

func newServer(t *testing.T, cfg Config) *HTTPServer {
	t.Helper()
	if cfg.Port == 0 {
		cfg.Port = 5000
	}
	cfg.Mode = gin.TestMode
	if cfg.ConversationUC == nil {
		cfg.ConversationUC = fakeUseCase{}
	}
	srv, err := New(pkgLog.NewNop(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func do(srv *HTTPServer, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing mode", cfg: Config{Port: 5000, ConversationUC: fakeUseCase{}}},
		{name: "missing port", cfg: Config{Mode: gin.TestMode, ConversationUC: fakeUseCase{}}},
		{name: "missing use case", cfg: Config{Port: 5000, Mode: gin.TestMode}},
		{name: "bad trusted proxy", cfg: Config{Port: 5000, Mode: gin.TestMode, ConversationUC: fakeUseCase{}, TrustedProxies: []string{"not-a-cidr"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(pkgLog.NewNop(), tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSystemRoutes(t *testing.T) {
	tr := &fakeTransport{}
	srv := newServer(t, Config{Transport: tr})

	for _, path := range []string{"/health", "/live"} {
		if w := do(srv, http.MethodGet, path); w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
	}

	if w := do(srv, http.MethodGet, "/ready"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 while disconnected, got %d", w.Code)
	}

	tr.connected.Store(true)
	w := do(srv, http.MethodGet, "/ready")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 once connected, got %d", w.Code)
	}

	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Data["transport"] != "fake" || body.Data["senders"] != float64(3) || body.Data["session_scope"] != "shared" {
		t.Errorf("unexpected readiness payload %v", body.Data)
	}
}

func TestReady_WithoutTransport(t *testing.T) {
	srv := newServer(t, Config{})
	if w := do(srv, http.MethodGet, "/ready"); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestConversationRoutes(t *testing.T) {
	srv := newServer(t, Config{})

	if w := do(srv, http.MethodGet, "/api/v1/conversations"); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w := do(srv, http.MethodGet, "/api/v1/conversations/console"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for empty window, got %d", w.Code)
	}
	if w := do(srv, http.MethodDelete, "/api/v1/conversations/console"); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestTelegramWebhookRoute(t *testing.T) {
	t.Run("not registered without handler", func(t *testing.T) {
		srv := newServer(t, Config{})
		if w := do(srv, http.MethodPost, "/webhook/telegram"); w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})

	t.Run("guard runs first", func(t *testing.T) {
		hook := &fakeWebhook{}
		guard := func(c *gin.Context) {
			if c.GetHeader("X-Telegram-Bot-Api-Secret-Token") != "s3cret" {
				response.Unauthorized(c)
				c.Abort()
				return
			}
			c.Next()
		}
		srv := newServer(t, Config{TelegramHandler: hook, WebhookGuard: guard})

		if w := do(srv, http.MethodPost, "/webhook/telegram"); w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
		if hook.calls.Load() != 0 {
			t.Error("handler must not run when the guard rejects")
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhook/telegram", nil)
		req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "s3cret")
		srv.Handler().ServeHTTP(w, req)
		if w.Code != http.StatusOK || hook.calls.Load() != 1 {
			t.Errorf("expected accepted call, got %d (calls %d)", w.Code, hook.calls.Load())
		}
	})
}

func TestTrustedProxies(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		want    string
	}{
		{name: "none trusted", remote: "203.0.113.9:1", want: "203.0.113.9"},
		{name: "untrusted peer", trusted: []string{"10.0.0.0/8"}, remote: "203.0.113.9:1", want: "203.0.113.9"},
		{name: "trusted peer", trusted: []string{"10.0.0.0/8"}, remote: "10.0.0.1:1", want: "149.154.167.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			guard := func(c *gin.Context) { got = c.ClientIP() }
			srv := newServer(t, Config{TelegramHandler: &fakeWebhook{}, WebhookGuard: guard, TrustedProxies: tt.trusted})

			req := httptest.NewRequest(http.MethodPost, "/webhook/telegram", nil)
			req.RemoteAddr = tt.remote
			req.Header.Set("X-Forwarded-For", "149.154.167.1")
			srv.Handler().ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("expected client ip %s, got %s", tt.want, got)
			}
		})
	}
}

func TestRun_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	srv := newServer(t, Config{Port: port})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/live", port)
	var live bool
	for i := 0; i < 50 && !live; i++ {
		if resp, err := http.Get(url); err == nil {
			resp.Body.Close()
			live = resp.StatusCode == http.StatusOK
		} else {
			time.Sleep(20 * time.Millisecond)
		}
	}
	if !live {
		t.Fatal("server never became live")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
