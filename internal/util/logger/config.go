// Package logger 进程级日志初始化
//
// 通过环境变量配置日志：
//   - NETTUNE_LOG_LEVEL: 日志级别，支持按组件配置
//     格式: 组件=级别,组件=级别,默认级别
//     示例: cong=debug,emitter=warn,info
//   - NETTUNE_LOG_FORMAT: text 或 json
//   - NETTUNE_LOG_ADD_SOURCE: true 或 false
//
// 组件名既可以写完整路径（core/cong），也可以只写最后一段（cong）。
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// 环境变量名
const (
	EnvLevel     = "NETTUNE_LOG_LEVEL"
	EnvFormat    = "NETTUNE_LOG_FORMAT"
	EnvAddSource = "NETTUNE_LOG_ADD_SOURCE"
)

// Format 日志输出格式
type Format int

const (
	// FormatText 文本格式（默认）
	FormatText Format = iota
	// FormatJSON JSON 格式
	FormatJSON
)

// Config 日志配置
type Config struct {
	// DefaultLevel 默认日志级别
	DefaultLevel slog.Level

	// ComponentLevels 各组件的日志级别
	ComponentLevels map[string]slog.Level

	// Format 输出格式
	Format Format

	// AddSource 是否添加源码位置
	AddSource bool
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		DefaultLevel:    slog.LevelInfo,
		ComponentLevels: make(map[string]slog.Level),
		Format:          FormatText,
	}
}

// LevelFor 返回组件的日志级别
//
// 先匹配完整组件名，再匹配最后一段。
func (c Config) LevelFor(component string) slog.Level {
	if level, ok := c.ComponentLevels[component]; ok {
		return level
	}
	if i := strings.LastIndexByte(component, '/'); i >= 0 {
		if level, ok := c.ComponentLevels[component[i+1:]]; ok {
			return level
		}
	}
	return c.DefaultLevel
}

// minLevel 返回所有配置中最低的级别
func (c Config) minLevel() slog.Level {
	min := c.DefaultLevel
	for _, l := range c.ComponentLevels {
		if l < min {
			min = l
		}
	}
	return min
}

// ConfigFromEnv 从环境变量解析配置
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv(EnvLevel); v != "" {
		ParseLevels(&cfg, v)
	}
	if f, ok := ParseFormat(os.Getenv(EnvFormat)); ok {
		cfg.Format = f
	}
	if v := os.Getenv(EnvAddSource); v != "" {
		cfg.AddSource = v != "false" && v != "0"
	}
	return cfg
}

// ParseLevels 解析级别配置字符串
//
// 格式: component=level,component=level,defaultLevel
// 无法识别的片段被忽略。
func ParseLevels(cfg *Config, spec string) {
	if cfg.ComponentLevels == nil {
		cfg.ComponentLevels = make(map[string]slog.Level)
	}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, levelName, found := strings.Cut(part, "=")
		if !found {
			if level, ok := ParseLevel(part); ok {
				cfg.DefaultLevel = level
			}
			continue
		}
		if level, ok := ParseLevel(strings.TrimSpace(levelName)); ok {
			cfg.ComponentLevels[strings.TrimSpace(name)] = level
		}
	}
}

// ParseLevel 解析日志级别名称
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// ParseFormat 解析日志格式名称（text / json）
func ParseFormat(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text":
		return FormatText, true
	case "json":
		return FormatJSON, true
	default:
		return FormatText, false
	}
}
