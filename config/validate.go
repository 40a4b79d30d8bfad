package config

import (
	"fmt"
)

// ValidateAndFix 验证配置并尝试自动修复常见问题
//
// 可修复的问题：
//   - 阈值为 0、窗口非正、算法为空 -> 使用默认值
//   - 状态表容量非正 -> 使用默认值；分片数大于容量 -> 截到容量
//   - 高水位分子大于分母 -> 交换
//   - 事件通道容量非正 -> 使用默认值
//   - 启用自省服务但未设置地址 -> 使用默认地址
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	def := DefaultCongConfig()
	if c.Cong.Threshold == 0 {
		c.Cong.Threshold = def.Threshold
	}
	if c.Cong.Window <= 0 {
		c.Cong.Window = def.Window
	}
	if c.Cong.Algorithm == "" {
		c.Cong.Algorithm = def.Algorithm
	}
	fixStore(&c.Cong.Store)
	fixStore(&c.Neigh.Store)

	if c.Neigh.HighWaterNum > c.Neigh.HighWaterDen {
		c.Neigh.HighWaterNum, c.Neigh.HighWaterDen = c.Neigh.HighWaterDen, c.Neigh.HighWaterNum
	}

	if c.Emitter.Capacity <= 0 {
		c.Emitter.Capacity = DefaultEmitterConfig().Capacity
	}
	if c.Emitter.WarnInterval <= 0 {
		c.Emitter.WarnInterval = DefaultEmitterConfig().WarnInterval
	}

	if c.Introspect.Enable && c.Introspect.Addr == "" {
		c.Introspect.Addr = DefaultIntrospectConfig().Addr
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed after fixes: %w", err)
	}
	return c, nil
}

func fixStore(s *StoreConfig) {
	def := DefaultStoreConfig()
	if s.Capacity <= 0 {
		s.Capacity = def.Capacity
	}
	if s.Shards <= 0 {
		s.Shards = def.Shards
	}
	if s.Shards > s.Capacity {
		s.Shards = s.Capacity
	}
}
