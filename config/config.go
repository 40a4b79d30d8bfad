package config

import (
	"errors"
	"fmt"
)

// Config 是 nettune 的完整配置结构
type Config struct {
	// Cong 远端主机跟踪器配置
	Cong CongConfig `json:"cong" yaml:"cong" env-prefix:"NETTUNE_CONG_"`

	// Neigh 邻居表增长跟踪器配置
	Neigh NeighConfig `json:"neigh" yaml:"neigh" env-prefix:"NETTUNE_NEIGH_"`

	// Emitter 事件通道配置
	Emitter EmitterConfig `json:"emitter" yaml:"emitter" env-prefix:"NETTUNE_EMITTER_"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics" yaml:"metrics" env-prefix:"NETTUNE_METRICS_"`

	// Introspect 本地自省服务配置
	Introspect IntrospectConfig `json:"introspect" yaml:"introspect" env-prefix:"NETTUNE_INTROSPECT_"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Cong:       DefaultCongConfig(),
		Neigh:      DefaultNeighConfig(),
		Emitter:    DefaultEmitterConfig(),
		Metrics:    DefaultMetricsConfig(),
		Introspect: DefaultIntrospectConfig(),
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Cong.Validate(); err != nil {
		return fmt.Errorf("cong config: %w", err)
	}
	if err := c.Neigh.Validate(); err != nil {
		return fmt.Errorf("neigh config: %w", err)
	}
	if err := c.Emitter.Validate(); err != nil {
		return fmt.Errorf("emitter config: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}
	if err := c.Introspect.Validate(); err != nil {
		return fmt.Errorf("introspect config: %w", err)
	}
	return nil
}
