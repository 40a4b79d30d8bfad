package logger

import (
	"io"
	"log/slog"

	"github.com/dep2p/go-nettune/pkg/lib/log"
)

// Setup 按配置构造 handler 并设置为进程默认 logger
//
// 之后所有 log.Logger(...) 创建的组件 logger 都会按组件级别过滤。
func Setup(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     cfg.minLevel(),
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				a.Key = "ts"
			case slog.LevelKey:
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(levelToString(lvl))
				}
			}
			return a
		},
	}

	var inner slog.Handler
	if cfg.Format == FormatJSON {
		inner = slog.NewJSONHandler(w, opts)
	} else {
		inner = slog.NewTextHandler(w, opts)
	}

	l := slog.New(newHandler(cfg, inner))
	log.SetDefault(l)
	return l
}

// SetupFromEnv 使用环境变量配置初始化日志
func SetupFromEnv(w io.Writer) *slog.Logger {
	return Setup(w, ConfigFromEnv())
}
