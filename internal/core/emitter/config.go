package emitter

import (
	"errors"
	"time"
)

// ErrInvalidCapacity 通道容量必须为正
var ErrInvalidCapacity = errors.New("emitter: capacity must be positive")

// Config 发射器配置
type Config struct {
	// Capacity 通道容量（记录数）
	Capacity int

	// WarnInterval 丢弃告警的最小间隔
	WarnInterval time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Capacity:     4096,
		WarnInterval: time.Second,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	return nil
}
