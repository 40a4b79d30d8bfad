package config

import (
	"github.com/dep2p/go-nettune/internal/core/emitter"
)

// EmitterConfig 事件通道配置
type EmitterConfig struct {
	// Capacity 通道容量（记录数），满时新事件被丢弃
	Capacity int `json:"capacity" yaml:"capacity" env:"CAPACITY"`

	// WarnInterval 丢弃告警日志的最小间隔
	WarnInterval Duration `json:"warn_interval" yaml:"warn_interval" env:"WARN_INTERVAL"`
}

// DefaultEmitterConfig 返回默认事件通道配置
func DefaultEmitterConfig() EmitterConfig {
	def := emitter.DefaultConfig()
	return EmitterConfig{
		Capacity:     def.Capacity,
		WarnInterval: Duration(def.WarnInterval),
	}
}

// EmitterConfig 转换为事件通道配置
func (c EmitterConfig) EmitterConfig() emitter.Config {
	return emitter.Config{
		Capacity:     c.Capacity,
		WarnInterval: c.WarnInterval.Duration(),
	}
}

// Validate 验证配置
func (c EmitterConfig) Validate() error {
	return c.EmitterConfig().Validate()
}
