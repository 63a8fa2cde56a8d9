package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// AI backend
	Gemini  GeminiConfig
	Session SessionConfig

	// Conversation
	History  HistoryConfig
	Bot      BotConfig
	Media    MediaConfig
	Consumer ConsumerConfig

	// Transports
	Transport TransportConfig
	WhatsApp  WhatsAppConfig
	Telegram  TelegramConfig
	Webhook   WebhookConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Enabled        bool
	Port           int
	Mode           string
	TrustedProxies []string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type GeminiConfig struct {
	APIKey          string
	Backend         string // rest or sdk
	Model           string
	APIURL          string
	Timeout         time.Duration
	Temperature     float32
	MaxOutputTokens int32
	MaxHistory      int // turns replayed by the REST chat, 0 keeps everything
}

type SessionConfig struct {
	Scope       string // shared or per_sender
	MaxSessions int
	IdleTTL     time.Duration
}

type HistoryConfig struct {
	UserCapacity int
	BotCapacity  int
	MaxSenders   int
	SenderTTL    time.Duration
}

type BotConfig struct {
	PersonaName     string
	MaxReplyWords   int
	Persona         string // replaces the built-in preamble when set
	FallbackMessage string
	ResetReply      string
}

type MediaConfig struct {
	MaxBytes int
}

type ConsumerConfig struct {
	Workers       int
	InboundBuffer int
	OutboundQueue int
}

type TransportConfig struct {
	Kind string // whatsapp, telegram or console
}

type WhatsAppConfig struct {
	DatabasePath    string
	DeviceName      string
	RespondToGroups bool
	PrintQR         bool
}

type TelegramConfig struct {
	BotToken   string
	WebhookURL string
	APIURL     string
	NgrokAPI   string // local ngrok API queried for the public URL when WebhookURL is empty
}

type WebhookConfig struct {
	Secret     string
	AllowedIPs []string
}

const (
	TransportWhatsApp = "whatsapp"
	TransportTelegram = "telegram"
	TransportConsole  = "console"

	BackendREST = "rest"
	BackendSDK  = "sdk"
)

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
// Variables from a .env file in the working directory are loaded first and never override the
// real environment. The API key falls back to the OS keyring.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/app/")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := fromViper(v)
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = KeyringAPIKey()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Enabled = v.GetBool("http_server.enabled")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.HTTPServer.TrustedProxies = splitList(v.GetStringSlice("http_server.trusted_proxies"))
	if port := v.GetInt("port"); port != 0 {
		cfg.HTTPServer.Port = port
	}
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")

	// Gemini
	cfg.Gemini.APIKey = expandEnvVar(v, v.GetString("gemini.api_key"))
	if apiKey := v.GetString("api_key"); cfg.Gemini.APIKey == "" && apiKey != "" {
		cfg.Gemini.APIKey = apiKey
	}
	cfg.Gemini.Backend = strings.ToLower(v.GetString("gemini.backend"))
	cfg.Gemini.Model = v.GetString("gemini.model")
	cfg.Gemini.APIURL = v.GetString("gemini.api_url")
	cfg.Gemini.Timeout = v.GetDuration("gemini.timeout")
	cfg.Gemini.Temperature = float32(v.GetFloat64("gemini.temperature"))
	cfg.Gemini.MaxOutputTokens = v.GetInt32("gemini.max_output_tokens")
	cfg.Gemini.MaxHistory = v.GetInt("gemini.max_history")

	cfg.Session.Scope = v.GetString("session.scope")
	cfg.Session.MaxSessions = v.GetInt("session.max_sessions")
	cfg.Session.IdleTTL = v.GetDuration("session.idle_ttl")

	// Conversation
	cfg.History.UserCapacity = v.GetInt("history.user_capacity")
	cfg.History.BotCapacity = v.GetInt("history.bot_capacity")
	cfg.History.MaxSenders = v.GetInt("history.max_senders")
	cfg.History.SenderTTL = v.GetDuration("history.sender_ttl")

	cfg.Bot.PersonaName = v.GetString("bot.persona_name")
	cfg.Bot.MaxReplyWords = v.GetInt("bot.max_reply_words")
	cfg.Bot.Persona = v.GetString("bot.persona")
	cfg.Bot.FallbackMessage = v.GetString("bot.fallback_message")
	cfg.Bot.ResetReply = v.GetString("bot.reset_reply")

	cfg.Media.MaxBytes = v.GetInt("media.max_bytes")

	cfg.Consumer.Workers = v.GetInt("consumer.workers")
	cfg.Consumer.InboundBuffer = v.GetInt("consumer.inbound_buffer")
	cfg.Consumer.OutboundQueue = v.GetInt("consumer.outbound_queue")

	// Transports
	cfg.Transport.Kind = strings.ToLower(v.GetString("transport.kind"))

	cfg.WhatsApp.DatabasePath = v.GetString("whatsapp.database_path")
	cfg.WhatsApp.DeviceName = v.GetString("whatsapp.device_name")
	cfg.WhatsApp.RespondToGroups = v.GetBool("whatsapp.respond_to_groups")
	cfg.WhatsApp.PrintQR = v.GetBool("whatsapp.print_qr")

	cfg.Telegram.BotToken = v.GetString("telegram.bot_token")
	cfg.Telegram.WebhookURL = v.GetString("telegram.webhook_url")
	cfg.Telegram.APIURL = v.GetString("telegram.api_url")
	cfg.Telegram.NgrokAPI = v.GetString("telegram.ngrok_api")

	cfg.Webhook.Secret = v.GetString("webhook.secret")
	cfg.Webhook.AllowedIPs = splitList(v.GetStringSlice("webhook.allowed_ips"))

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.enabled", true)
	v.SetDefault("http_server.port", 5000)
	v.SetDefault("http_server.mode", "debug")
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "development")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)

	v.SetDefault("gemini.backend", BackendREST)
	v.SetDefault("gemini.model", "gemini-1.5-flash-8b")
	v.SetDefault("gemini.timeout", "30s")
	v.SetDefault("gemini.temperature", 1.4)
	v.SetDefault("gemini.max_output_tokens", 70)
	v.SetDefault("gemini.max_history", 50)

	v.SetDefault("session.scope", "shared")
	v.SetDefault("session.max_sessions", 1000)
	v.SetDefault("session.idle_ttl", "0s")

	v.SetDefault("history.user_capacity", 3)
	v.SetDefault("history.bot_capacity", 2)
	v.SetDefault("history.max_senders", 10000)
	v.SetDefault("history.sender_ttl", "24h")

	v.SetDefault("bot.persona_name", "Naya")
	v.SetDefault("bot.max_reply_words", 25)
	v.SetDefault("media.max_bytes", 20<<20)

	v.SetDefault("consumer.workers", 4)
	v.SetDefault("consumer.inbound_buffer", 256)
	v.SetDefault("consumer.outbound_queue", 256)

	v.SetDefault("transport.kind", TransportWhatsApp)
	v.SetDefault("whatsapp.database_path", "./data/whatsapp.db")
	v.SetDefault("whatsapp.device_name", "relay-bot")
	v.SetDefault("whatsapp.print_qr", true)
}

// Validate checks values that would otherwise fail deep inside a component.
func (c *Config) Validate() error {
	switch c.Transport.Kind {
	case TransportWhatsApp, TransportConsole:
	case TransportTelegram:
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required for the telegram transport")
		}
	default:
		return fmt.Errorf("unknown transport.kind %q (want whatsapp, telegram or console)", c.Transport.Kind)
	}

	switch c.Gemini.Backend {
	case BackendREST, BackendSDK:
	default:
		return fmt.Errorf("unknown gemini.backend %q (want rest or sdk)", c.Gemini.Backend)
	}
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini API key is missing: set GEMINI_API_KEY (or API_KEY) or run `bot key set`")
	}
	if c.Gemini.Model == "" {
		return fmt.Errorf("gemini.model is required")
	}

	switch c.Session.Scope {
	case "shared", "per_sender":
	default:
		return fmt.Errorf("unknown session.scope %q (want shared or per_sender)", c.Session.Scope)
	}

	if c.History.UserCapacity < 1 || c.History.BotCapacity < 1 {
		return fmt.Errorf("history capacities must be at least 1")
	}
	if c.HTTPServer.Enabled && (c.HTTPServer.Port <= 0 || c.HTTPServer.Port > 65535) {
		return fmt.Errorf("invalid http_server.port %d", c.HTTPServer.Port)
	}
	return nil
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(v *viper.Viper, value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}

	envVar := value[2 : len(value)-1]
	if envValue := v.GetString(strings.ToLower(envVar)); envValue != "" {
		return envValue
	}
	return os.Getenv(envVar)
}

// splitList flattens comma separated entries; env values arrive as a single string.
func splitList(raw []string) []string {
	var out []string
	for _, entry := range raw {
		for _, item := range strings.Split(entry, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}
