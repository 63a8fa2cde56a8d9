package main

import (
	"context"
	"errors"
	"fmt"

	"relay-bot/config"
	"relay-bot/internal/conversation"
	"relay-bot/internal/conversation/delivery/console"
	tgDelivery "relay-bot/internal/conversation/delivery/telegram"
	"relay-bot/internal/conversation/delivery/whatsapp"
	"relay-bot/internal/conversation/usecase"
	"relay-bot/internal/dispatch"
	"relay-bot/internal/history"
	"relay-bot/internal/httpserver"
	"relay-bot/internal/media"
	"relay-bot/internal/prompt"
	"relay-bot/internal/session"
	"relay-bot/internal/webhook"
	"relay-bot/pkg/gemini"
	"relay-bot/pkg/log"
	"relay-bot/pkg/telegram"
)

// app is the wired bot: one transport feeding the conversation pipeline.
type app struct {
	l         log.Logger
	transport conversation.Transport
	uc        conversation.UseCase
	consumer  *usecase.Consumer
	queue     *dispatch.Queue
	server    *httpserver.HTTPServer
}

func run(ctx context.Context, cfg *config.Config, l log.Logger) error {
	tr, err := newTransport(ctx, cfg, l)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, l, tr)
	if err != nil {
		return err
	}

	return a.run(ctx)
}

func newApp(ctx context.Context, cfg *config.Config, l log.Logger, tr conversation.Transport) (*app, error) {
	// 1. AI backend
	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	scope, err := session.ParseScope(cfg.Session.Scope)
	if err != nil {
		return nil, err
	}

	sessions, err := session.New(l, provider, session.Config{
		Scope: scope,
		Generation: session.GenerationConfig{
			Model:           cfg.Gemini.Model,
			Temperature:     cfg.Gemini.Temperature,
			MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
		},
		MaxSessions: cfg.Session.MaxSessions,
		IdleTTL:     cfg.Session.IdleTTL,
	})
	if err != nil {
		return nil, err
	}

	// 2. Conversation pipeline
	store := history.New(l, history.Config{
		UserCapacity: cfg.History.UserCapacity,
		BotCapacity:  cfg.History.BotCapacity,
		MaxSenders:   cfg.History.MaxSenders,
		IdleTTL:      cfg.History.SenderTTL,
	})

	builder := prompt.NewBuilder(prompt.Config{
		PersonaName:   cfg.Bot.PersonaName,
		MaxReplyWords: cfg.Bot.MaxReplyWords,
		Persona:       cfg.Bot.Persona,
	})

	queue := dispatch.NewQueue(l, dispatch.New(l, tr), cfg.Consumer.OutboundQueue)

	uc := usecase.New(l, store, media.NewAdapter(cfg.Media.MaxBytes), builder, sessions, queue, usecase.Options{
		FallbackMessage: cfg.Bot.FallbackMessage,
		ResetReply:      cfg.Bot.ResetReply,
	})

	a := &app{
		l:         l,
		transport: tr,
		uc:        uc,
		consumer:  usecase.NewConsumer(l, uc, cfg.Consumer.Workers, 0),
		queue:     queue,
	}

	// 3. HTTP server
	tgTransport, isTelegram := tr.(*tgDelivery.Transport)
	if !cfg.HTTPServer.Enabled {
		if isTelegram {
			return nil, errors.New("the telegram transport needs http_server.enabled")
		}
		return a, nil
	}

	srvCfg := httpserver.Config{
		Port:           cfg.HTTPServer.Port,
		Mode:           cfg.HTTPServer.Mode,
		Environment:    cfg.Environment.Name,
		TrustedProxies: cfg.HTTPServer.TrustedProxies,
		ConversationUC: uc,
		Transport:      tr,
	}
	if isTelegram {
		validator, err := webhook.NewSecurityValidator(webhook.SecurityConfig{
			SecretToken: cfg.Webhook.Secret,
			AllowedIPs:  cfg.Webhook.AllowedIPs,
		})
		if err != nil {
			return nil, err
		}
		srvCfg.TelegramHandler = tgTransport
		srvCfg.WebhookGuard = validator.Guard(l)
	}

	a.server, err = httpserver.New(l, srvCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize HTTP server: %w", err)
	}
	return a, nil
}

func newProvider(ctx context.Context, cfg *config.Config) (session.Provider, error) {
	switch cfg.Gemini.Backend {
	case config.BackendSDK:
		client, err := session.NewGenAIClient(ctx, cfg.Gemini.APIKey)
		if err != nil {
			return nil, err
		}
		return session.NewSDKProvider(client.Chats), nil

	default:
		client, err := gemini.New(gemini.Config{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			APIURL:  cfg.Gemini.APIURL,
			Timeout: cfg.Gemini.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return session.NewRESTProvider(client, cfg.Gemini.MaxHistory), nil
	}
}

func newTransport(ctx context.Context, cfg *config.Config, l log.Logger) (conversation.Transport, error) {
	switch cfg.Transport.Kind {
	case config.TransportTelegram:
		bot := telegram.NewBot(cfg.Telegram.BotToken)
		if cfg.Telegram.APIURL != "" {
			bot.SetAPIURL(cfg.Telegram.APIURL)
		}

		webhookURL := cfg.Telegram.WebhookURL
		if webhookURL == "" && cfg.Telegram.NgrokAPI != "" {
			ngrokURL, err := detectNgrokURL(ctx, cfg.Telegram.NgrokAPI, ngrokAttempts, ngrokInterval)
			if err != nil {
				l.Warnf(ctx, "Could not detect ngrok URL: %v", err)
			} else {
				webhookURL = ngrokURL + "/webhook/telegram"
				l.Infof(ctx, "Auto-detected ngrok URL: %s", webhookURL)
			}
		}

		return tgDelivery.New(l, bot, tgDelivery.Config{
			WebhookURL:    webhookURL,
			SecretToken:   cfg.Webhook.Secret,
			Buffer:        cfg.Consumer.InboundBuffer,
			MaxMediaBytes: int64(cfg.Media.MaxBytes),
		}), nil

	case config.TransportConsole:
		return console.New(l, console.Config{
			ReplyPrefix: cfg.Bot.PersonaName + "> ",
			Buffer:      cfg.Consumer.InboundBuffer,
		}), nil

	case config.TransportWhatsApp:
		waCfg := whatsapp.Config{
			DatabasePath:    cfg.WhatsApp.DatabasePath,
			DeviceName:      cfg.WhatsApp.DeviceName,
			RespondToGroups: cfg.WhatsApp.RespondToGroups,
			Buffer:          cfg.Consumer.InboundBuffer,
		}
		if cfg.WhatsApp.PrintQR {
			waCfg.QRWriter = whatsapp.DefaultQRWriter()
		}
		return whatsapp.New(l, waCfg), nil
	}

	return nil, fmt.Errorf("unknown transport %q", cfg.Transport.Kind)
}

// run starts the transport and blocks until ctx is cancelled, the HTTP server fails or the
// transport reports that its input has ended.
func (a *app) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.transport.Start(ctx); err != nil {
		return fmt.Errorf("start %s transport: %w", a.transport.Name(), err)
	}

	if ender, ok := a.transport.(interface{ Done() <-chan struct{} }); ok {
		go func() {
			select {
			case <-ender.Done():
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	// Replies produced while the consumer winds down are still delivered.
	queueCtx, stopQueue := context.WithCancel(context.Background())
	queueDone := make(chan struct{})
	go func() {
		defer close(queueDone)
		a.queue.Run(queueCtx)
	}()

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		a.consumer.Run(ctx, a.transport.Messages())
	}()

	var err error
	if a.server != nil {
		err = a.server.Run(ctx)
		cancel()
	} else {
		<-ctx.Done()
	}

	<-consumerDone
	stopQueue()
	<-queueDone
	a.transport.Stop()

	return err
}
