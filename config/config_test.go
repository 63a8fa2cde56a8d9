package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zalando/go-keyring"
)

// isolate runs the test in an empty directory with the variables Load reads cleared.
func isolate(t *testing.T) string {
	t.Helper()
	keyring.MockInit()

	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{"GEMINI_API_KEY", "API_KEY", "PORT", "TRANSPORT_KIND", "TELEGRAM_BOT_TOKEN", "WEBHOOK_ALLOWED_IPS", "SESSION_SCOPE"} {
		t.Setenv(key, "")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Gemini.APIKey != "test-key" {
		t.Errorf("expected api key from env, got %q", cfg.Gemini.APIKey)
	}
	if cfg.HTTPServer.Port != 5000 || !cfg.HTTPServer.Enabled {
		t.Errorf("unexpected http server config %+v", cfg.HTTPServer)
	}
	if cfg.Gemini.Model != "gemini-1.5-flash-8b" || cfg.Gemini.MaxOutputTokens != 70 || cfg.Gemini.Temperature != float32(1.4) {
		t.Errorf("unexpected generation defaults %+v", cfg.Gemini)
	}
	if cfg.Gemini.Backend != BackendREST || cfg.Gemini.Timeout != 30*time.Second {
		t.Errorf("unexpected backend defaults %+v", cfg.Gemini)
	}
	if cfg.History.UserCapacity != 3 || cfg.History.BotCapacity != 2 {
		t.Errorf("unexpected history defaults %+v", cfg.History)
	}
	if cfg.Session.Scope != "shared" || cfg.Transport.Kind != TransportWhatsApp {
		t.Errorf("unexpected scope/transport %q/%q", cfg.Session.Scope, cfg.Transport.Kind)
	}
	if cfg.Bot.PersonaName != "Naya" {
		t.Errorf("unexpected persona %q", cfg.Bot.PersonaName)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)
	t.Setenv("RELAY_TEST_KEY", "from-file-ref")
	writeFile(t, filepath.Join(dir, "config.yaml"), `
http_server:
  port: 8081
  trusted_proxies:
    - 127.0.0.1
    - 10.0.0.0/8
gemini:
  api_key: ${RELAY_TEST_KEY}
  backend: SDK
  temperature: 0.7
session:
  scope: per_sender
  idle_ttl: 30m
transport:
  kind: telegram
telegram:
  bot_token: "123:abc"
webhook:
  secret: s3cret
  allowed_ips:
    - 149.154.160.0/20
    - 91.108.4.0/22
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Gemini.APIKey != "from-file-ref" {
		t.Errorf("expected ${VAR} expansion, got %q", cfg.Gemini.APIKey)
	}
	if cfg.Gemini.Backend != BackendSDK || cfg.Gemini.Temperature != float32(0.7) {
		t.Errorf("unexpected gemini config %+v", cfg.Gemini)
	}
	if cfg.HTTPServer.Port != 8081 {
		t.Errorf("expected port 8081, got %d", cfg.HTTPServer.Port)
	}
	if strings.Join(cfg.HTTPServer.TrustedProxies, "|") != "127.0.0.1|10.0.0.0/8" {
		t.Errorf("unexpected trusted proxies %v", cfg.HTTPServer.TrustedProxies)
	}
	if cfg.Session.Scope != "per_sender" || cfg.Session.IdleTTL != 30*time.Minute {
		t.Errorf("unexpected session config %+v", cfg.Session)
	}
	if cfg.Transport.Kind != TransportTelegram || cfg.Telegram.BotToken != "123:abc" {
		t.Errorf("unexpected transport config %+v / %+v", cfg.Transport, cfg.Telegram)
	}
	if len(cfg.Webhook.AllowedIPs) != 2 || cfg.Webhook.AllowedIPs[1] != "91.108.4.0/22" {
		t.Errorf("unexpected allowed ips %v", cfg.Webhook.AllowedIPs)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("PORT", "9000")
	t.Setenv("TRANSPORT_KIND", "console")
	t.Setenv("WEBHOOK_ALLOWED_IPS", "10.0.0.1, 192.168.0.0/16")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gemini.APIKey != "legacy-key" {
		t.Errorf("expected API_KEY fallback, got %q", cfg.Gemini.APIKey)
	}
	if cfg.HTTPServer.Port != 9000 || cfg.Transport.Kind != TransportConsole {
		t.Errorf("unexpected overrides %+v %+v", cfg.HTTPServer, cfg.Transport)
	}
	if strings.Join(cfg.Webhook.AllowedIPs, "|") != "10.0.0.1|192.168.0.0/16" {
		t.Errorf("unexpected allowed ips %v", cfg.Webhook.AllowedIPs)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	os.Unsetenv("GEMINI_API_KEY")
	writeFile(t, filepath.Join(dir, ".env"), "GEMINI_API_KEY=dotenv-key\n")
	t.Cleanup(func() { os.Unsetenv("GEMINI_API_KEY") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gemini.APIKey != "dotenv-key" {
		t.Errorf("expected key from .env, got %q", cfg.Gemini.APIKey)
	}
}

func TestLoad_Keyring(t *testing.T) {
	isolate(t)

	if _, err := Load(); err == nil {
		t.Fatal("expected error without any API key")
	}

	if err := StoreAPIKey("keyring-key"); err != nil {
		t.Fatalf("store: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gemini.APIKey != "keyring-key" {
		t.Errorf("expected key from keyring, got %q", cfg.Gemini.APIKey)
	}

	if err := DeleteAPIKey(); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if KeyringAPIKey() != "" {
		t.Error("expected key to be removed")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			HTTPServer: HTTPServerConfig{Enabled: true, Port: 5000},
			Gemini:     GeminiConfig{APIKey: "k", Backend: BackendREST, Model: "gemini-1.5-flash-8b"},
			Session:    SessionConfig{Scope: "shared"},
			History:    HistoryConfig{UserCapacity: 3, BotCapacity: 2},
			Transport:  TransportConfig{Kind: TransportWhatsApp},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown transport", mutate: func(c *Config) { c.Transport.Kind = "signal" }, wantErr: "transport.kind"},
		{name: "telegram without token", mutate: func(c *Config) { c.Transport.Kind = TransportTelegram }, wantErr: "bot_token"},
		{name: "unknown backend", mutate: func(c *Config) { c.Gemini.Backend = "grpc" }, wantErr: "gemini.backend"},
		{name: "missing key", mutate: func(c *Config) { c.Gemini.APIKey = "" }, wantErr: "API key"},
		{name: "missing model", mutate: func(c *Config) { c.Gemini.Model = "" }, wantErr: "gemini.model"},
		{name: "unknown scope", mutate: func(c *Config) { c.Session.Scope = "global" }, wantErr: "session.scope"},
		{name: "zero capacity", mutate: func(c *Config) { c.History.BotCapacity = 0 }, wantErr: "capacities"},
		{name: "bad port", mutate: func(c *Config) { c.HTTPServer.Port = 70000 }, wantErr: "port"},
		{name: "port ignored when disabled", mutate: func(c *Config) {
			c.HTTPServer.Enabled = false
			c.HTTPServer.Port = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
