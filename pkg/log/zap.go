package log

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// Init builds a Logger from cfg. Unknown levels fall back to info.
func Init(cfg ZapConfig) Logger {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zapcore.InfoLevel)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	if cfg.Mode == ModeProduction {
		encCfg = zap.NewProductionEncoderConfig()
	}
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.ColorEnabled && cfg.Encoding != EncodingJSON {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	var encoder zapcore.Encoder
	if cfg.Encoding == EncodingJSON {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)

	opts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1)}
	if cfg.Mode != ModeProduction {
		opts = append(opts, zap.Development())
	}

	return &zapLogger{sugar: zap.New(core, opts...).Sugar()}
}

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

func (l *zapLogger) Debug(ctx context.Context, args ...interface{}) { l.sugar.Debug(args...) }
func (l *zapLogger) Debugf(ctx context.Context, format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}
func (l *zapLogger) Info(ctx context.Context, args ...interface{}) { l.sugar.Info(args...) }
func (l *zapLogger) Infof(ctx context.Context, format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}
func (l *zapLogger) Warn(ctx context.Context, args ...interface{}) { l.sugar.Warn(args...) }
func (l *zapLogger) Warnf(ctx context.Context, format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}
func (l *zapLogger) Error(ctx context.Context, args ...interface{}) { l.sugar.Error(args...) }
func (l *zapLogger) Errorf(ctx context.Context, format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}
func (l *zapLogger) DPanic(ctx context.Context, args ...interface{}) { l.sugar.DPanic(args...) }
func (l *zapLogger) DPanicf(ctx context.Context, format string, args ...interface{}) {
	l.sugar.DPanicf(format, args...)
}
func (l *zapLogger) Panic(ctx context.Context, args ...interface{}) { l.sugar.Panic(args...) }
func (l *zapLogger) Panicf(ctx context.Context, format string, args ...interface{}) {
	l.sugar.Panicf(format, args...)
}
func (l *zapLogger) Fatal(ctx context.Context, args ...interface{}) { l.sugar.Fatal(args...) }
func (l *zapLogger) Fatalf(ctx context.Context, format string, args ...interface{}) {
	l.sugar.Fatalf(format, args...)
}
