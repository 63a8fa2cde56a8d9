package whatsapp

import (
	"context"
	"fmt"

	waLog "go.mau.fi/whatsmeow/util/log"

	pkgLog "relay-bot/pkg/log"
)

// waLogger routes whatsmeow's logging onto the application logger.
type waLogger struct {
	ctx    context.Context
	l      pkgLog.Logger
	module string
}

func newWALogger(ctx context.Context, l pkgLog.Logger, module string) waLog.Logger {
	return &waLogger{ctx: ctx, l: l, module: module}
}

func (w *waLogger) Debugf(msg string, args ...interface{}) {
	w.l.Debugf(w.ctx, "whatsmeow/%s: %s", w.module, fmt.Sprintf(msg, args...))
}

func (w *waLogger) Infof(msg string, args ...interface{}) {
	w.l.Infof(w.ctx, "whatsmeow/%s: %s", w.module, fmt.Sprintf(msg, args...))
}

func (w *waLogger) Warnf(msg string, args ...interface{}) {
	w.l.Warnf(w.ctx, "whatsmeow/%s: %s", w.module, fmt.Sprintf(msg, args...))
}

func (w *waLogger) Errorf(msg string, args ...interface{}) {
	w.l.Errorf(w.ctx, "whatsmeow/%s: %s", w.module, fmt.Sprintf(msg, args...))
}

func (w *waLogger) Sub(module string) waLog.Logger {
	return &waLogger{ctx: w.ctx, l: w.l, module: w.module + "/" + module}
}
