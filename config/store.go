package config

import (
	"fmt"

	"github.com/dep2p/go-nettune/internal/core/store"
)

// StoreConfig 固定容量状态表配置
type StoreConfig struct {
	// Capacity 最大键数
	Capacity int `json:"capacity" yaml:"capacity" env:"CAPACITY"`

	// Shards 分片数
	Shards int `json:"shards" yaml:"shards" env:"SHARDS"`

	// Policy 表满策略: "drop-new" 或 "evict-lru"
	Policy string `json:"policy" yaml:"policy" env:"POLICY"`
}

// DefaultStoreConfig 返回默认状态表配置
func DefaultStoreConfig() StoreConfig {
	def := store.DefaultConfig()
	return StoreConfig{
		Capacity: def.Capacity,
		Shards:   def.Shards,
		Policy:   def.Policy.String(),
	}
}

// StoreConfig 转换为状态表配置
func (c StoreConfig) StoreConfig() (store.Config, error) {
	policy, err := store.ParsePolicy(c.Policy)
	if err != nil {
		return store.Config{}, err
	}
	return store.Config{
		Capacity: c.Capacity,
		Shards:   c.Shards,
		Policy:   policy,
	}, nil
}

// Validate 验证状态表配置
func (c StoreConfig) Validate() error {
	sc, err := c.StoreConfig()
	if err != nil {
		return err
	}
	if err := sc.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}
