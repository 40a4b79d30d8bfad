package config

import (
	"fmt"

	"github.com/dep2p/go-nettune/internal/core/neigh"
)

// NeighConfig 邻居表增长跟踪器配置
type NeighConfig struct {
	// Policy 发射策略: "always" 或 "nearly-full"
	Policy string `json:"policy" yaml:"policy" env:"POLICY"`

	// HighWaterNum 高水位分子（nearly-full 策略使用）
	HighWaterNum int32 `json:"high_water_num" yaml:"high_water_num" env:"HIGH_WATER_NUM"`

	// HighWaterDen 高水位分母
	HighWaterDen int32 `json:"high_water_den" yaml:"high_water_den" env:"HIGH_WATER_DEN"`

	// Store 表统计状态表
	Store StoreConfig `json:"store" yaml:"store" env-prefix:"STORE_"`
}

// DefaultNeighConfig 返回默认邻居表跟踪器配置
func DefaultNeighConfig() NeighConfig {
	def := neigh.DefaultConfig()
	return NeighConfig{
		Policy:       def.Policy.String(),
		HighWaterNum: def.HighWaterNum,
		HighWaterDen: def.HighWaterDen,
		Store:        DefaultStoreConfig(),
	}
}

// TrackerConfig 转换为跟踪器配置
func (c NeighConfig) TrackerConfig() (neigh.Config, error) {
	policy, err := neigh.ParsePolicy(c.Policy)
	if err != nil {
		return neigh.Config{}, err
	}
	return neigh.Config{
		Policy:       policy,
		HighWaterNum: c.HighWaterNum,
		HighWaterDen: c.HighWaterDen,
	}, nil
}

// Validate 验证配置
func (c NeighConfig) Validate() error {
	tc, err := c.TrackerConfig()
	if err != nil {
		return err
	}
	if err := tc.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("neigh: %w", err)
	}
	return nil
}
