package config

import "errors"

// IntrospectConfig 本地自省服务配置
type IntrospectConfig struct {
	// Enable 是否启动自省服务
	Enable bool `json:"enable" yaml:"enable" env:"ENABLE"`

	// Addr 监听地址，应绑定到回环地址
	Addr string `json:"addr" yaml:"addr" env:"ADDR"`
}

// DefaultIntrospectConfig 返回默认自省配置（默认关闭）
func DefaultIntrospectConfig() IntrospectConfig {
	return IntrospectConfig{
		Enable: false,
		Addr:   "127.0.0.1:6060",
	}
}

// Validate 验证配置
func (c IntrospectConfig) Validate() error {
	if c.Enable && c.Addr == "" {
		return errors.New("introspect: addr is required when enabled")
	}
	return nil
}
