package config

import (
	"errors"
	"strings"
)

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	// Enable 是否注册指标收集器
	Enable bool `json:"enable" yaml:"enable" env:"ENABLE"`

	// ListenAddr HTTP 监听地址（仅 cmd/nettune run 使用）
	ListenAddr string `json:"listen_addr" yaml:"listen_addr" env:"LISTEN_ADDR"`

	// Path 指标路径
	Path string `json:"path" yaml:"path" env:"PATH"`
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enable:     true,
		ListenAddr: "127.0.0.1:9464",
		Path:       "/metrics",
	}
}

// Validate 验证配置
func (c MetricsConfig) Validate() error {
	if !c.Enable {
		return nil
	}
	if c.ListenAddr == "" {
		return errors.New("metrics: listen_addr is required when enabled")
	}
	if !strings.HasPrefix(c.Path, "/") {
		return errors.New("metrics: path must start with /")
	}
	return nil
}
