package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dep2p/go-nettune/pkg/lib/log"
)

func TestParseLevels(t *testing.T) {
	cfg := DefaultConfig()
	ParseLevels(&cfg, "cong=debug, emitter=warn,error,bogus=loud,")

	assert.Equal(t, slog.LevelError, cfg.DefaultLevel)
	assert.Equal(t, slog.LevelDebug, cfg.ComponentLevels["cong"])
	assert.Equal(t, slog.LevelWarn, cfg.ComponentLevels["emitter"])
	assert.NotContains(t, cfg.ComponentLevels, "bogus")
}

func TestLevelFor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ComponentLevels["cong"] = slog.LevelDebug
	cfg.ComponentLevels["core/neigh"] = slog.LevelError

	assert.Equal(t, slog.LevelDebug, cfg.LevelFor("core/cong"))
	assert.Equal(t, slog.LevelError, cfg.LevelFor("core/neigh"))
	assert.Equal(t, slog.LevelInfo, cfg.LevelFor("core/emitter"))
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "store=debug,warn")
	t.Setenv(EnvFormat, "JSON")
	t.Setenv(EnvAddSource, "1")

	cfg := ConfigFromEnv()
	assert.Equal(t, slog.LevelWarn, cfg.DefaultLevel)
	assert.Equal(t, slog.LevelDebug, cfg.ComponentLevels["store"])
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.True(t, cfg.AddSource)
}

// TestSetup_ComponentLevels 组件级别覆盖默认级别
func TestSetup_ComponentLevels(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	cfg := DefaultConfig()
	cfg.DefaultLevel = slog.LevelWarn
	cfg.ComponentLevels["cong"] = slog.LevelDebug

	buf := &bytes.Buffer{}
	Setup(buf, cfg)

	log.Logger("core/cong").Debug("cong debug")
	log.Logger("core/neigh").Info("neigh info")
	log.Logger("core/neigh").Warn("neigh warn")

	out := buf.String()
	assert.Contains(t, out, "cong debug")
	assert.Contains(t, out, "component=core/cong")
	assert.Contains(t, out, "level=debug")
	assert.NotContains(t, out, "neigh info")
	assert.Contains(t, out, "neigh warn")
}

func TestSetup_JSON(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	cfg := DefaultConfig()
	cfg.Format = FormatJSON

	buf := &bytes.Buffer{}
	Setup(buf, cfg)
	log.Logger("core/emitter").Info("hello", "n", 1)

	assert.Contains(t, buf.String(), `"component":"core/emitter"`)
	assert.Contains(t, buf.String(), `"ts":`)
}

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat("JSON")
	assert.True(t, ok)
	assert.Equal(t, FormatJSON, f)

	f, ok = ParseFormat(" text ")
	assert.True(t, ok)
	assert.Equal(t, FormatText, f)

	_, ok = ParseFormat("yaml")
	assert.False(t, ok)
}
