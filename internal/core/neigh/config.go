package neigh

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownPolicy 未知的发射策略
	ErrUnknownPolicy = errors.New("neigh: unknown emit policy")

	// ErrInvalidHighWater 高水位比例无效
	ErrInvalidHighWater = errors.New("neigh: invalid high-water fraction")

	// ErrNilStore 未提供状态表
	ErrNilStore = errors.New("neigh: nil table store")
)

// Policy 快照发射策略
type Policy int

const (
	// EmitAlways 每次新建表项都发射
	EmitAlways Policy = iota
	// EmitNearlyFull 表项数越过高水位才发射
	EmitNearlyFull
)

// String 返回策略名称
func (p Policy) String() string {
	switch p {
	case EmitAlways:
		return "always"
	case EmitNearlyFull:
		return "nearly-full"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy 解析策略名称
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "always":
		return EmitAlways, nil
	case "nearly-full", "nearly_full", "nearlyfull":
		return EmitNearlyFull, nil
	default:
		return EmitAlways, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Config 跟踪器配置
type Config struct {
	// Policy 发射策略
	Policy Policy

	// HighWaterNum 高水位分子
	HighWaterNum int32

	// HighWaterDen 高水位分母
	HighWaterDen int32
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Policy:       EmitAlways,
		HighWaterNum: 3,
		HighWaterDen: 4,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.Policy != EmitAlways && c.Policy != EmitNearlyFull {
		return fmt.Errorf("%w: %d", ErrUnknownPolicy, int(c.Policy))
	}
	if c.HighWaterDen <= 0 || c.HighWaterNum <= 0 || c.HighWaterNum > c.HighWaterDen {
		return fmt.Errorf("%w: %d/%d", ErrInvalidHighWater, c.HighWaterNum, c.HighWaterDen)
	}
	return nil
}

// NearlyFull 判断表项数是否越过高水位
//
// Max 未知（<= 0）时不视为将满。
func (c Config) NearlyFull(entries, max int32) bool {
	if max <= 0 {
		return false
	}
	return int64(entries)*int64(c.HighWaterDen) >= int64(max)*int64(c.HighWaterNum)
}
