package store

import (
	"fmt"
	"strings"
)

// EvictionPolicy 表满时的处理策略
type EvictionPolicy int

const (
	// DropNew 拒绝新键
	DropNew EvictionPolicy = iota
	// EvictLRU 淘汰分片内最久未访问的表项
	EvictLRU
)

// String 返回策略名称
func (p EvictionPolicy) String() string {
	switch p {
	case DropNew:
		return "drop-new"
	case EvictLRU:
		return "evict-lru"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy 解析策略名称
func ParsePolicy(s string) (EvictionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop-new", "drop_new", "dropnew":
		return DropNew, nil
	case "evict-lru", "evict_lru", "lru":
		return EvictLRU, nil
	default:
		return DropNew, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Config 状态表配置
type Config struct {
	// Capacity 最大键数
	Capacity int

	// Shards 分片数
	Shards int

	// Policy 表满时的策略
	Policy EvictionPolicy
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Capacity: 1024,
		Shards:   16,
		Policy:   DropNew,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, c.Capacity)
	}
	if c.Shards <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidShards, c.Shards)
	}
	if c.Policy != DropNew && c.Policy != EvictLRU {
		return fmt.Errorf("%w: %d", ErrUnknownPolicy, int(c.Policy))
	}
	return nil
}
