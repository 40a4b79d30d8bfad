package config

import (
	"fmt"

	"github.com/dep2p/go-nettune/internal/core/cong"
)

// CongConfig 远端主机跟踪器配置
//
// 对同一远端地址累计重传次数，在新连接建立时判断是否切换拥塞控制算法。
type CongConfig struct {
	// Threshold 触发切换所需的重传次数（达到即触发）
	Threshold uint64 `json:"threshold" yaml:"threshold" env:"THRESHOLD"`

	// Window 最近一次重传距今超过该时长即视为过期
	Window Duration `json:"window" yaml:"window" env:"WINDOW"`

	// Algorithm 目标拥塞控制算法
	Algorithm string `json:"algorithm" yaml:"algorithm" env:"ALGORITHM"`

	// ResetStaleOnRetransmit 重传时若上一次重传已过期，计数从 1 重新开始
	ResetStaleOnRetransmit bool `json:"reset_stale_on_retransmit,omitempty" yaml:"reset_stale_on_retransmit,omitempty" env:"RESET_STALE_ON_RETRANSMIT"`

	// Store 远端主机状态表
	Store StoreConfig `json:"store" yaml:"store" env-prefix:"STORE_"`
}

// DefaultCongConfig 返回默认远端主机跟踪器配置
func DefaultCongConfig() CongConfig {
	def := cong.DefaultConfig()
	return CongConfig{
		Threshold: def.Threshold,
		Window:    Duration(def.Window),
		Algorithm: def.Algorithm,
		Store:     DefaultStoreConfig(),
	}
}

// TrackerConfig 转换为跟踪器配置
func (c CongConfig) TrackerConfig() cong.Config {
	return cong.Config{
		Threshold:              c.Threshold,
		Window:                 c.Window.Duration(),
		Algorithm:              c.Algorithm,
		ResetStaleOnRetransmit: c.ResetStaleOnRetransmit,
	}
}

// Validate 验证配置
func (c CongConfig) Validate() error {
	if err := c.TrackerConfig().Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("cong: %w", err)
	}
	return nil
}
